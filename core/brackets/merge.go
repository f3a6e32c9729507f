package brackets

import "math/big"

// origin tags which side of a merge contributed a separator.
type origin int

const (
	originLeft origin = iota
	originRight
	originBoth
)

// Merge combines two schedules into one whose marginal rate at every
// income level is the sum of the inputs' rates at that level, so the
// merged tax function is exactly the pointwise sum of the two inputs.
//
// The separator lists are merged as a sorted union with origin tags.
// Walking the tagged list while holding a current-rate cursor per side
// yields the merged rate for each resulting bracket: consuming a
// boundary advances the cursor(s) of the side(s) that own it. A
// boundary present in both inputs is consumed once and advances both
// cursors, so no zero-width bracket is ever emitted.
//
// Flat deductions are not merged; the result is rebuilt through
// NewSchedule, which re-derives them from the merged separators and
// rates. Stacked jurisdictions can push a combined rate to 1 or above,
// which the constructor rejects.
func Merge(lhs, rhs *Schedule) (*Schedule, error) {
	type tagged struct {
		from origin
		sep  *big.Rat
	}

	union := make([]tagged, 0, len(lhs.separators)+len(rhs.separators))
	li, ri := 0, 0
	for li < len(lhs.separators) && ri < len(rhs.separators) {
		switch lhs.separators[li].Cmp(rhs.separators[ri]) {
		case 0:
			union = append(union, tagged{originBoth, lhs.separators[li]})
			li++
			ri++
		case -1:
			union = append(union, tagged{originLeft, lhs.separators[li]})
			li++
		default:
			union = append(union, tagged{originRight, rhs.separators[ri]})
			ri++
		}
	}
	// At most one side still has separators; drain it. A flat side
	// degenerates to this from the start, holding its single rate for
	// the whole walk.
	for ; li < len(lhs.separators); li++ {
		union = append(union, tagged{originLeft, lhs.separators[li]})
	}
	for ; ri < len(rhs.separators); ri++ {
		union = append(union, tagged{originRight, rhs.separators[ri]})
	}

	separators := make([]*big.Rat, len(union))
	rates := make([]*big.Rat, 0, len(union)+1)

	curLeft, curRight := 0, 0
	rates = append(rates, new(big.Rat).Add(lhs.rates[0], rhs.rates[0]))
	for i, t := range union {
		separators[i] = t.sep
		switch t.from {
		case originLeft:
			curLeft++
		case originRight:
			curRight++
		case originBoth:
			curLeft++
			curRight++
		}
		rates = append(rates, new(big.Rat).Add(lhs.rates[curLeft], rhs.rates[curRight]))
	}

	return NewSchedule(separators, rates)
}
