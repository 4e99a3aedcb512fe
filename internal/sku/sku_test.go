package sku

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand returns digits from the script in order, then zeroes.
func scriptedRand(script ...int) func(int) int {
	i := 0
	return func(n int) int {
		if i >= len(script) {
			return 0
		}
		v := script[i]
		i++
		return v % n
	}
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "Desk-Lamp-Matte-Black", Prefix("Desk Lamp", "Matte Black"))
	assert.Equal(t, "Mug-Red", Prefix("Mug", "Red"))
}

func TestGenerateFormat(t *testing.T) {
	gen := New()
	got, err := gen.Generate("Desk Lamp", "Matte Black", func(string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^Desk-Lamp-Matte-Black-\d{4}$`), got)
}

func TestGenerateIndependentDigits(t *testing.T) {
	gen := NewWithRand(scriptedRand(0, 0, 0, 7))
	got, err := gen.Generate("Mug", "Red", func(string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Mug-Red-0007", got)
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	gen := NewWithRand(scriptedRand(1, 2, 3, 4, 5, 6, 7, 8))

	taken := map[string]bool{"Mug-Red-1234": true}
	var checked []string
	got, err := gen.Generate("Mug", "Red", func(candidate string) (bool, error) {
		checked = append(checked, candidate)
		return taken[candidate], nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Mug-Red-5678", got)
	assert.Equal(t, []string{"Mug-Red-1234", "Mug-Red-5678"}, checked)
}

func TestGenerateExhaustsBudget(t *testing.T) {
	gen := New().WithMaxAttempts(25)

	attempts := 0
	_, err := gen.Generate("Mug", "Red", func(string) (bool, error) {
		attempts++
		return true, nil
	})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 25, attempts)
}

func TestGeneratePropagatesExistsError(t *testing.T) {
	gen := New()
	boom := errors.New("connection reset")

	_, err := gen.Generate("Mug", "Red", func(string) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}
