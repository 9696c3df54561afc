// Package strategy derives discrete trade signals from moving-average
// crossovers gated by a trend filter.
package strategy

import (
	"fmt"
	"math"
	"strings"
)

// Direction: +1 long, -1 short, 0 flat
type Direction int8

const (
	Flat  Direction = 0
	Long  Direction = +1
	Short Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "flat"
	}
}

// Opposite returns the reversed direction (Flat stays Flat).
func (d Direction) Opposite() Direction { return -d }

// Mode restricts which side of the market the strategy may enter.
type Mode string

const (
	ModeLong  Mode = "long"
	ModeShort Mode = "short"
	ModeBoth  Mode = "both"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLong:
		return ModeLong, nil
	case ModeShort:
		return ModeShort, nil
	case ModeBoth, "":
		return ModeBoth, nil
	default:
		return "", fmt.Errorf("wrong strategy mode %q: can either be long, short, both", s)
	}
}

// Signal is the generator's per-bar output.
//
// Cross is the raw crossover edge observed on this bar (Flat when none).
// Entry is the entry candidate admitted after mode and trend-filter gating.
// The two are reported separately so that an open position can still be
// closed on an opposite crossover whose entry side is not admitted: long-only
// mode closes longs on a crossover-down without ever opening a short.
type Signal struct {
	Cross Direction
	Entry Direction
}

// Generator is a state machine over consecutive bars. The only state carried
// between bars is the previous bar's fast/slow relative order, needed to
// detect a crossover edge rather than a level.
type Generator struct {
	mode Mode

	lastDiff     float64
	haveLastDiff bool
}

func NewGenerator(mode Mode) *Generator {
	if mode == "" {
		mode = ModeBoth
	}
	return &Generator{mode: mode}
}

func (g *Generator) Mode() Mode { return g.mode }

// Reset clears the crossover edge state.
func (g *Generator) Reset() {
	g.lastDiff = 0
	g.haveLastDiff = false
}

// Next consumes one bar's close and indicator values and returns the signal
// for that bar. While any indicator value is still undefined (warmup), no
// signal is emitted and no edge state is recorded.
func (g *Generator) Next(close, fast, slow, trend float64) Signal {
	if math.IsNaN(fast) || math.IsNaN(slow) || math.IsNaN(trend) {
		return Signal{}
	}

	diff := fast - slow

	// Need a previous diff to detect a cross.
	if !g.haveLastDiff {
		g.lastDiff = diff
		g.haveLastDiff = true
		return Signal{}
	}

	// Cross logic:
	// - Crossover-up: diff goes from <=0 to >0
	// - Crossover-down: diff goes from >=0 to <0
	crossUp := diff > 0 && g.lastDiff <= 0
	crossDown := diff < 0 && g.lastDiff >= 0

	g.lastDiff = diff

	var sig Signal
	switch {
	case crossUp:
		sig.Cross = Long
		if g.mode != ModeShort && close > trend {
			sig.Entry = Long
		}
	case crossDown:
		sig.Cross = Short
		if g.mode != ModeLong && close < trend {
			sig.Entry = Short
		}
	}
	return sig
}
