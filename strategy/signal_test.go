package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("LONG")
	require.NoError(t, err)
	assert.Equal(t, ModeLong, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)

	_, err = ParseMode("sideways")
	assert.Error(t, err)
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, Short, Long.Opposite())
	assert.Equal(t, Long, Short.Opposite())
	assert.Equal(t, Flat, Flat.Opposite())
}

func TestGeneratorWarmupEmitsFlat(t *testing.T) {
	g := NewGenerator(ModeBoth)
	nan := math.NaN()

	assert.Equal(t, Signal{}, g.Next(100, nan, nan, nan))
	assert.Equal(t, Signal{}, g.Next(100, 99, nan, 98))
	// First fully-defined bar only seeds the edge state
	assert.Equal(t, Signal{}, g.Next(100, 99, 100, 98))
}

func TestGeneratorCrossoverUp(t *testing.T) {
	g := NewGenerator(ModeBoth)

	// fast below slow, price above trend
	assert.Equal(t, Signal{}, g.Next(100, 98, 99, 90))
	// fast crosses above slow
	sig := g.Next(101, 100, 99, 90)
	assert.Equal(t, Long, sig.Cross)
	assert.Equal(t, Long, sig.Entry)
	// staying above is not a new edge
	assert.Equal(t, Signal{}, g.Next(102, 101, 99, 90))
}

func TestGeneratorCrossoverDown(t *testing.T) {
	g := NewGenerator(ModeBoth)

	assert.Equal(t, Signal{}, g.Next(100, 101, 99, 110))
	sig := g.Next(99, 98, 99, 110)
	assert.Equal(t, Short, sig.Cross)
	assert.Equal(t, Short, sig.Entry)
}

func TestGeneratorTouchThenCrossIsEdge(t *testing.T) {
	g := NewGenerator(ModeBoth)

	// fast == slow counts as "was <= slow"
	assert.Equal(t, Signal{}, g.Next(100, 99, 99, 90))
	sig := g.Next(101, 100, 99, 90)
	assert.Equal(t, Long, sig.Cross)
}

func TestGeneratorTrendFilterBlocksEntry(t *testing.T) {
	g := NewGenerator(ModeBoth)

	// Crossover-up but close below trend: cross is reported, entry is not.
	assert.Equal(t, Signal{}, g.Next(100, 98, 99, 150))
	sig := g.Next(101, 100, 99, 150)
	assert.Equal(t, Long, sig.Cross)
	assert.Equal(t, Flat, sig.Entry)
}

func TestGeneratorLongOnlyModeBlocksShortEntry(t *testing.T) {
	g := NewGenerator(ModeLong)

	assert.Equal(t, Signal{}, g.Next(100, 101, 99, 110))
	sig := g.Next(99, 98, 99, 110)
	// The crossover-down edge survives for exit handling, the short entry does not.
	assert.Equal(t, Short, sig.Cross)
	assert.Equal(t, Flat, sig.Entry)
}

func TestGeneratorShortOnlyModeBlocksLongEntry(t *testing.T) {
	g := NewGenerator(ModeShort)

	assert.Equal(t, Signal{}, g.Next(100, 98, 99, 90))
	sig := g.Next(101, 100, 99, 90)
	assert.Equal(t, Long, sig.Cross)
	assert.Equal(t, Flat, sig.Entry)
}

func TestGeneratorReset(t *testing.T) {
	g := NewGenerator(ModeBoth)

	assert.Equal(t, Signal{}, g.Next(100, 98, 99, 90))
	g.Reset()
	// After reset the next bar only seeds state again, even though relative
	// order flipped since before the reset.
	assert.Equal(t, Signal{}, g.Next(101, 100, 99, 90))
}

func TestGeneratorFlatSeriesNeverSignals(t *testing.T) {
	g := NewGenerator(ModeBoth)
	for i := 0; i < 50; i++ {
		assert.Equal(t, Signal{}, g.Next(100, 100, 100, 100))
	}
}
