// Package sku generates stock-keeping-unit strings for product+color
// combinations.
package sku

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// DefaultMaxAttempts caps the collision retry loop.
const DefaultMaxAttempts = 1000

// suffixDigits is the number of independently drawn digits appended to the
// prefix.
const suffixDigits = 4

// ErrExhausted is returned when no unique SKU could be produced within the
// attempt budget.
var ErrExhausted = errors.New("sku: retry budget exhausted without finding a unique value")

// ExistsFunc reports whether a candidate SKU is already taken.
type ExistsFunc func(sku string) (bool, error)

// Generator produces unique SKUs of the form
// {product-name}-{color-name}-{dddd}, with spaces replaced by hyphens and a
// suffix of four digits each drawn independently from the injected source.
type Generator struct {
	intn        func(n int) int
	maxAttempts int
}

// New returns a Generator with a time-seeded random source.
func New() *Generator {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewWithRand(r.Intn)
}

// NewWithRand returns a Generator drawing digits from intn. Tests inject a
// scripted source here.
func NewWithRand(intn func(n int) int) *Generator {
	return &Generator{intn: intn, maxAttempts: DefaultMaxAttempts}
}

// WithMaxAttempts overrides the retry budget. Values below 1 are ignored.
func (g *Generator) WithMaxAttempts(n int) *Generator {
	if n >= 1 {
		g.maxAttempts = n
	}
	return g
}

// Prefix builds the deterministic part of the SKU.
func Prefix(productName, colorName string) string {
	name := strings.ReplaceAll(productName, " ", "-")
	color := strings.ReplaceAll(colorName, " ", "-")
	return fmt.Sprintf("%s-%s", name, color)
}

// Generate draws candidates until exists reports an unused value or the
// attempt budget runs out.
func (g *Generator) Generate(productName, colorName string, exists ExistsFunc) (string, error) {
	prefix := Prefix(productName, colorName)

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%s", prefix, g.suffix())

		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("sku: existence check failed: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}

// suffix concatenates digit-by-digit draws; "0007" and "7007" are both
// possible because each digit is independent.
func (g *Generator) suffix() string {
	var b strings.Builder
	for i := 0; i < suffixDigits; i++ {
		fmt.Fprintf(&b, "%d", g.intn(10))
	}
	return b.String()
}
