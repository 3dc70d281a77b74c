package core

import "github.com/shopspring/decimal"

// SplitShare is how a split declares its portion of the parent amount.
// It is either a FixedAmount or a PercentOfParent.
type SplitShare interface {
	// Resolve returns the concrete amount for a parent transaction amount.
	Resolve(parent decimal.Decimal) decimal.Decimal
	isSplitShare()
}

// FixedAmount is an explicit amount that ignores the parent amount.
type FixedAmount struct {
	Value decimal.Decimal
}

// PercentOfParent is a share expressed as 0-100 percent of the parent amount.
type PercentOfParent struct {
	Percent decimal.Decimal
}

func (f FixedAmount) Resolve(decimal.Decimal) decimal.Decimal { return f.Value }

func (p PercentOfParent) Resolve(parent decimal.Decimal) decimal.Decimal {
	return AmountFromPercent(p.Percent, parent)
}

func (FixedAmount) isSplitShare()     {}
func (PercentOfParent) isSplitShare() {}

// Split routes part of a transaction to a routing type and target bucket.
type Split struct {
	Type   RoutingType
	Target string
	Share  SplitShare // nil resolves to zero
}

// NewSplitShare builds a share from the optional amount/percent columns a
// record carries. The amount wins when both are present.
func NewSplitShare(amount, percent *decimal.Decimal) SplitShare {
	switch {
	case amount != nil:
		return FixedAmount{Value: *amount}
	case percent != nil:
		return PercentOfParent{Percent: *percent}
	default:
		return nil
	}
}

// Resolve returns the split's concrete amount for the given parent amount.
func (s Split) Resolve(parent decimal.Decimal) decimal.Decimal {
	if s.Share == nil {
		return decimal.Zero
	}
	return s.Share.Resolve(parent)
}

func (s Split) Validate() error {
	if !s.Type.IsValid() {
		return ErrInvalidRoutingType
	}
	if p, ok := s.Share.(PercentOfParent); ok {
		if p.Percent.IsNegative() || p.Percent.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidPercent
		}
	}
	return nil
}
