// Package risk converts a sizing policy and the current balance into a trade
// quantity.
package risk

import "fmt"

type policyKind int

const (
	kindNone policyKind = iota
	kindPercent
	kindFixedAmount
	kindExposure
)

// Policy is a position sizing policy. Exactly one of the three variants is
// selected at configuration-validation time; a zero Policy is invalid.
type Policy struct {
	kind policyKind

	pct         float64 // percentage of balance
	amount      float64 // fixed account-currency amount
	exposurePct float64 // balance fraction consumed if the stop is hit
	stopLossPct float64 // adverse stop distance as a fraction of entry price
}

// PercentOfBalance sizes each entry as pct percent of the current balance.
func PercentOfBalance(pct float64) (Policy, error) {
	if pct <= 0 {
		return Policy{}, fmt.Errorf("position size percentage must be positive, got %v", pct)
	}
	return Policy{kind: kindPercent, pct: pct}, nil
}

// FixedAmount sizes each entry with a fixed account-currency amount, capped
// at the available balance.
func FixedAmount(amount float64) (Policy, error) {
	if amount <= 0 {
		return Policy{}, fmt.Errorf("position size fixed amount must be positive, got %v", amount)
	}
	return Policy{kind: kindFixedAmount, amount: amount}, nil
}

// Exposure sizes each entry so that an adverse move of stopLossPct (fraction
// of the entry price) consumes exactly exposurePct percent of the balance.
func Exposure(exposurePct, stopLossPct float64) (Policy, error) {
	if exposurePct <= 0 {
		return Policy{}, fmt.Errorf("position size exposure must be positive, got %v", exposurePct)
	}
	if stopLossPct <= 0 || stopLossPct >= 1 {
		return Policy{}, fmt.Errorf("stop loss pct must be in (0, 1), got %v", stopLossPct)
	}
	return Policy{kind: kindExposure, exposurePct: exposurePct, stopLossPct: stopLossPct}, nil
}

func (p Policy) IsZero() bool { return p.kind == kindNone }

func (p Policy) String() string {
	switch p.kind {
	case kindPercent:
		return fmt.Sprintf("percentage(%v%%)", p.pct)
	case kindFixedAmount:
		return fmt.Sprintf("fixed_amount(%v)", p.amount)
	case kindExposure:
		return fmt.Sprintf("exposure(%v%% at stop %v)", p.exposurePct, p.stopLossPct)
	default:
		return "none"
	}
}

// Size is a computed order quantity.
type Size struct {
	Quantity float64

	// Clamped reports a margin deficiency: the policy quantity would have
	// committed more cash than the available balance and was capped to the
	// maximum affordable. Non-fatal, recorded on the resulting trade.
	Clamped bool
}

// Quantity converts balance and entry price into a trade quantity under the
// policy. Leverage multiplies notional exposure, not the cash committed, so
// the affordability cap is balance/price regardless of leverage.
func (p Policy) Quantity(balance, price, leverage float64) (Size, error) {
	if p.kind == kindNone {
		return Size{}, fmt.Errorf("no sizing policy configured")
	}
	if price <= 0 {
		return Size{}, fmt.Errorf("price must be positive, got %v", price)
	}
	if balance <= 0 {
		return Size{}, fmt.Errorf("no balance available (%v)", balance)
	}
	if leverage < 1 {
		leverage = 1
	}

	var qty float64
	switch p.kind {
	case kindPercent:
		qty = balance * p.pct / 100 / price

	case kindFixedAmount:
		qty = p.amount / price

	case kindExposure:
		riskAmount := balance * p.exposurePct / 100
		stopDistance := price * p.stopLossPct
		qty = riskAmount / (stopDistance * leverage)
	}

	if qty <= 0 {
		return Size{}, fmt.Errorf("computed non-positive quantity (%v)", qty)
	}

	// Margin cap: cash committed is qty*price.
	if max := balance / price; qty > max {
		return Size{Quantity: max, Clamped: true}, nil
	}
	return Size{Quantity: qty}, nil
}
