package brackets

import (
	"math/big"

	"go.uber.org/zap"

	"relocation-cost/internal/errors"
	"relocation-cost/internal/logging"
)

var ratOne = big.NewRat(1, 1)

// Schedule is a progressive marginal tax schedule. Immutable once
// constructed; merging produces a new Schedule.
type Schedule struct {
	// separators are the inclusive upper bounds between adjacent
	// brackets: n-1 strictly increasing non-negative values. Empty for
	// a flat single-bracket schedule.
	separators []*big.Rat

	// rates holds the n marginal rates, each in [0, 1).
	rates []*big.Rat

	// flats[i] is the total tax owed on all income below the start of
	// bracket i. It turns the forward calculation into one multiply-add.
	flats []*big.Rat
}

// NewSchedule builds a schedule from bracket separators and marginal
// rates. len(rates) must be len(separators)+1; separators must be
// strictly increasing and non-negative; every rate must lie in [0, 1).
// A rate of 1 or more would make the net function non-invertible, so it
// is rejected here rather than guarded at query time.
func NewSchedule(separators, rates []*big.Rat) (*Schedule, error) {
	if len(rates) != len(separators)+1 {
		return nil, errors.Constructionf(
			"schedule needs one rate per bracket: got %d separators and %d rates",
			len(separators), len(rates))
	}
	for i, sep := range separators {
		if sep.Sign() < 0 {
			return nil, errors.Constructionf("separator %d is negative: %s", i, sep.RatString())
		}
		if i > 0 && sep.Cmp(separators[i-1]) <= 0 {
			return nil, errors.Constructionf(
				"separators must be strictly increasing: %s after %s",
				sep.RatString(), separators[i-1].RatString())
		}
	}
	for i, rate := range rates {
		if rate.Sign() < 0 || rate.Cmp(ratOne) >= 0 {
			return nil, errors.Constructionf("rate %d out of range [0,1): %s", i, rate.RatString())
		}
	}

	// Copy the inputs so later caller mutation of the slices cannot
	// reach into the schedule.
	seps := make([]*big.Rat, len(separators))
	copy(seps, separators)
	rs := make([]*big.Rat, len(rates))
	copy(rs, rates)

	flats := make([]*big.Rat, len(rs))
	flats[0] = new(big.Rat)
	for i := 1; i < len(rs); i++ {
		width := new(big.Rat).Set(seps[i-1])
		if i > 1 {
			width.Sub(width, seps[i-2])
		}
		flats[i] = new(big.Rat).Add(flats[i-1], width.Mul(width, rs[i-1]))
	}

	return &Schedule{separators: seps, rates: rs, flats: flats}, nil
}

// Flat builds a single-bracket schedule taxing all income at rate.
func Flat(rate *big.Rat) (*Schedule, error) {
	return NewSchedule(nil, []*big.Rat{rate})
}

// Brackets returns the number of brackets.
func (s *Schedule) Brackets() int {
	return len(s.rates)
}

// Separators returns a copy of the bracket separators.
func (s *Schedule) Separators() []*big.Rat {
	return copyRats(s.separators)
}

// Rates returns a copy of the marginal rates.
func (s *Schedule) Rates() []*big.Rat {
	return copyRats(s.rates)
}

// FlatDeductions returns a copy of the derived per-bracket flat
// deductions.
func (s *Schedule) FlatDeductions() []*big.Rat {
	return copyRats(s.flats)
}

func copyRats(vals []*big.Rat) []*big.Rat {
	out := make([]*big.Rat, len(vals))
	for i, v := range vals {
		out[i] = new(big.Rat).Set(v)
	}
	return out
}

// CalcTaxes returns the exact tax owed on a gross income: the flat
// deduction for the containing bracket plus the marginal rate applied
// to the income above the bracket start.
func (s *Schedule) CalcTaxes(gross *big.Rat) (*big.Rat, error) {
	for i, span := range Spans(s.separators, true) {
		if !span.Contains(gross) {
			continue
		}
		over := new(big.Rat).Sub(gross, span.start())
		tax := over.Mul(over, s.rates[i])
		tax.Add(tax, s.flats[i])
		logging.Debug("bracket selected",
			zap.Int("bracket", i),
			zap.String("rate", s.rates[i].RatString()),
			zap.String("tax", tax.RatString()))
		return tax, nil
	}
	// Spans partitions the whole line, so this is unreachable unless
	// the schedule state is corrupt.
	return nil, errors.Invariant("no bracket contains gross income " + gross.RatString())
}

// CalcNet returns gross minus taxes. A schedule whose tax exceeds the
// gross income is broken, and is reported rather than clamped.
func (s *Schedule) CalcNet(gross *big.Rat) (*big.Rat, error) {
	tax, err := s.CalcTaxes(gross)
	if err != nil {
		return nil, err
	}
	if tax.Cmp(gross) > 0 {
		return nil, errors.Invariant("calculated taxes exceed gross income")
	}
	return tax.Sub(gross, tax), nil
}

// postTaxSeparators re-expresses the bracket boundaries in net-income
// terms by subtracting from each separator the total tax owed at it.
// CalcNet is piecewise linear with slope 1-rate, so the same bracket
// structure carries over and the inverse can search in net space.
func (s *Schedule) postTaxSeparators() []*big.Rat {
	post := make([]*big.Rat, len(s.separators))
	for i, sep := range s.separators {
		post[i] = new(big.Rat).Sub(sep, s.flats[i+1])
	}
	return post
}

// CalcGross inverts CalcNet: it returns the unique gross income whose
// net is the given value. Within the containing bracket the net grows
// at 1-rate per unit of gross, so the amount above the bracket start is
// recovered by dividing; the bracket's pre-tax start is the flat
// deduction plus the post-tax start.
func (s *Schedule) CalcGross(net *big.Rat) (*big.Rat, error) {
	for i, span := range Spans(s.postTaxSeparators(), true) {
		if !span.Contains(net) {
			continue
		}
		keep := new(big.Rat).Sub(ratOne, s.rates[i])
		if keep.Sign() <= 0 {
			// Construction rejects rates >= 1, so only corrupt state
			// can reach this.
			return nil, errors.Invariant("marginal rate at or above 1 makes net income non-invertible")
		}
		over := new(big.Rat).Sub(net, span.start())
		gross := over.Quo(over, keep)
		gross.Add(gross, span.start())
		gross.Add(gross, s.flats[i])
		return gross, nil
	}
	return nil, errors.Invariant("no bracket contains net income " + net.RatString())
}
