package main

import (
	"log"

	"github.com/faceofmind/server/config"
	"github.com/faceofmind/server/infra/queue"
	"github.com/faceofmind/server/internal/api/rest/handlers"
	"github.com/faceofmind/server/internal/services"
)

func main() {
	// ---------- Load Config ----------
	cfg := config.LoadConfig()

	log.Println("Mail Worker starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s\n",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	// ---------- Init Service ----------
	mailService := services.NewMailService(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPEmail,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailFromName,
	)

	// ---------- Init Handler ----------
	handler := handlers.NewMailHandler(mailService)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	// ---------- Start Listening ----------
	log.Println("Mail Worker listening for events...")
	consumer.Listen()
}
