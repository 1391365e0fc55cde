package util

import (
	"math/rand/v2"
	"strings"
	"sync"
)

const (
	referenceLetters   = 8
	referenceMaxDigits = 3
)

// ReferenceGenerator produces short human-facing transaction references.
type ReferenceGenerator interface {
	Generate() string
}

// RandomReferenceGenerator builds references of 8 uppercase letters followed
// by 1 to 3 digits, e.g. "QWERTYUI42".
type RandomReferenceGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomReferenceGenerator(src rand.Source) *RandomReferenceGenerator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomReferenceGenerator{rnd: rand.New(src)}
}

func (g *RandomReferenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var sb strings.Builder
	sb.Grow(referenceLetters + referenceMaxDigits)
	for i := 0; i < referenceLetters; i++ {
		sb.WriteByte(byte('A' + g.rnd.IntN(26)))
	}
	digits := g.rnd.IntN(referenceMaxDigits) + 1
	for i := 0; i < digits; i++ {
		sb.WriteByte(byte('0' + g.rnd.IntN(10)))
	}
	return sb.String()
}
