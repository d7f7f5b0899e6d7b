package llm

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Generator produces free text from a prompt. Providers are treated as
// unreliable; callers must always have a non-LLM fallback.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrAllProvidersFailed signals that every provider in the chain was either
// down, tripped open, or returned garbage.
var ErrAllProvidersFailed = errors.New("all text providers failed")

const callTimeout = 15 * time.Second

type provider struct {
	gen     Generator
	breaker *gobreaker.CircuitBreaker[string]
}

// Chain tries each provider in order. Each provider sits behind its own
// circuit breaker so a flapping primary stops eating the call timeout on
// every request.
type Chain struct {
	providers []provider
}

func NewChain(gens ...Generator) *Chain {
	c := &Chain{}
	for _, g := range gens {
		if g == nil {
			continue
		}
		st := gobreaker.Settings{
			Name:    g.Name(),
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}
		c.providers = append(c.providers, provider{
			gen:     g,
			breaker: gobreaker.NewCircuitBreaker[string](st),
		})
	}
	return c
}

func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	for _, p := range c.providers {
		out, err := p.breaker.Execute(func() (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, callTimeout)
			defer cancel()

			text, genErr := p.gen.Generate(callCtx, prompt)
			if genErr != nil {
				return "", genErr
			}
			if strings.TrimSpace(text) == "" {
				return "", errors.New("empty response")
			}
			return text, nil
		})
		if err == nil {
			return out, nil
		}
		log.Printf("text provider %s failed: %v", p.gen.Name(), err)
	}
	return "", ErrAllProvidersFailed
}
