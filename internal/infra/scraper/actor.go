package scraper

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrKeywordRequired = errors.New("informe um cargo ou palavra-chave para buscar")

//go:embed profiles.yaml
var fixture []byte

type Query struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
	Limit    int    `json:"limit"`
}

// MockActor simula o actor da Apify com uma resposta gravada.
type MockActor struct {
	Delay    time.Duration
	profiles []Profile
}

func NewMockActor(delay time.Duration) (*MockActor, error) {
	profiles, err := ParseProfiles(fixture)
	if err != nil {
		return nil, err
	}
	return &MockActor{Delay: delay, profiles: profiles}, nil
}

func ParseProfiles(data []byte) ([]Profile, error) {
	var profiles []Profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("fixture de perfis inválida: %w", err)
	}
	return profiles, nil
}

// Search ignora o keyword além da validação: o actor é mockado.
func (a *MockActor) Search(ctx context.Context, q Query) ([]Profile, error) {
	if strings.TrimSpace(q.Keyword) == "" {
		return nil, ErrKeywordRequired
	}

	if a.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.Delay):
		}
	}

	n := len(a.profiles)
	if q.Limit > 0 && q.Limit < n {
		n = q.Limit
	}
	out := make([]Profile, n)
	copy(out, a.profiles[:n])

	log.Printf("🔎 [SCRAPER] Busca %q (%s): %d perfis", q.Keyword, q.Location, len(out))
	return out, nil
}
