// Package brackets implements progressive marginal tax schedules:
// construction, forward tax and net calculation, the algebraic
// net-to-gross inverse, and merging of independently defined schedules.
//
// All arithmetic is exact: amounts and rates are big.Rat and no
// operation rounds. Rounding happens only at the display boundary.
package brackets

import "math/big"

// Span is one contiguous range of a partition of the number line.
// A nil bound is unbounded on that side.
type Span struct {
	Lower *big.Rat
	Upper *big.Rat

	// LowerIncl and UpperIncl record which finite endpoints belong to
	// this span. Unbounded sides ignore the flag.
	LowerIncl bool
	UpperIncl bool
}

// Spans pairs N-1 ordered separators into N adjacent spans that cover
// the whole line: the first span is unbounded below, the last unbounded
// above, and every separator is the boundary between two neighbours.
//
// With inclusive=true each separator value belongs to the span below it
// (lower-exclusive, upper-inclusive); inclusive=false flips the
// convention. Every value is contained in exactly one produced span, so
// a scan over the result never falls through.
func Spans(separators []*big.Rat, inclusive bool) []Span {
	spans := make([]Span, len(separators)+1)
	for i := range spans {
		s := Span{LowerIncl: !inclusive, UpperIncl: inclusive}
		if i > 0 {
			s.Lower = separators[i-1]
		}
		if i < len(separators) {
			s.Upper = separators[i]
		}
		spans[i] = s
	}
	return spans
}

// Contains reports whether v lies within the span.
func (s Span) Contains(v *big.Rat) bool {
	if s.Lower != nil {
		c := v.Cmp(s.Lower)
		if c < 0 || (c == 0 && !s.LowerIncl) {
			return false
		}
	}
	if s.Upper != nil {
		c := v.Cmp(s.Upper)
		if c > 0 || (c == 0 && !s.UpperIncl) {
			return false
		}
	}
	return true
}

// start returns the finite lower bound, or zero when unbounded below.
// Incomes are non-negative, so the unbounded first span starts at zero
// for the purpose of "amount over bracket start".
func (s Span) start() *big.Rat {
	if s.Lower == nil {
		return new(big.Rat)
	}
	return s.Lower
}
