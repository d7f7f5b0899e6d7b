package main

import (
	"github.com/faceofmind/server/config"
	"github.com/faceofmind/server/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
