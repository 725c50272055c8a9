package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque tokens, such as lock owner ids.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate random id: %w", err)
	}
	return v.String(), nil
}
