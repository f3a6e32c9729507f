package location

import (
	"math/big"

	"relocation-cost/core/brackets"
)

// entry is one jurisdiction layer: its tax profile (nil when the layer
// levies no income tax) and its cost-of-living index (nil when
// unknown). The index is relative to the national average at 1.
type entry struct {
	profile    *brackets.Profile
	livingCost *big.Rat
}

// builtins holds the compiled-in jurisdiction layers, keyed by
// canonical Key. A key present with a nil profile is a known
// jurisdiction with no income tax of its own; an absent key is unknown.
var builtins = map[Key]entry{
	{Country: "US"}: {
		profile:    usFederalProfile(),
		livingCost: big.NewRat(1, 1),
	},
	{Country: "US", Region: "CA"}: {
		profile:    californiaProfile(),
		livingCost: big.NewRat(142, 100),
	},
	{Country: "US", Region: "TX"}: {
		livingCost: big.NewRat(93, 100),
	},
	{Country: "US", Region: "CA", City: "San Francisco"}: {
		profile:    mustFlatProfile(big.NewRat(15, 1000)),
		livingCost: big.NewRat(170, 100),
	},
	{Country: "US", Region: "TX", City: "Austin"}: {
		livingCost: big.NewRat(103, 100),
	},
}

// usFederalProfile builds the 2020 US federal schedule per status.
func usFederalProfile() *brackets.Profile {
	rates := ratios(100, 10, 12, 22, 24, 32, 35, 37)
	return brackets.NewProfile(map[brackets.FilingStatus]*brackets.Schedule{
		brackets.StatusSingle:          mustSchedule(amounts(9_875, 40_125, 85_525, 163_300, 207_350, 518_400), rates),
		brackets.StatusJoint:           mustSchedule(amounts(19_750, 80_250, 171_050, 326_600, 414_700, 622_050), rates),
		brackets.StatusSeparate:        mustSchedule(amounts(9_875, 40_125, 85_525, 163_300, 207_350, 518_400), rates),
		brackets.StatusHeadOfHousehold: mustSchedule(amounts(14_100, 53_700, 85_500, 163_300, 207_350, 518_400), rates),
	})
}

// californiaProfile builds the California state schedule per status.
func californiaProfile() *brackets.Profile {
	rates := ratios(10000, 110, 220, 440, 660, 880, 1023, 1133, 1243, 1353, 1463)
	return brackets.NewProfile(map[brackets.FilingStatus]*brackets.Schedule{
		brackets.StatusSingle:          mustSchedule(amounts(8_809, 20_883, 32_960, 45_753, 57_824, 295_373, 354_445, 590_742, 1_000_000), rates),
		brackets.StatusJoint:           mustSchedule(amounts(17_618, 41_766, 65_920, 91_506, 115_648, 590_746, 708_890, 1_000_000, 1_181_484), rates),
		brackets.StatusSeparate:        mustSchedule(amounts(8_809, 20_883, 32_960, 45_753, 57_824, 295_373, 354_445, 590_742, 1_000_000), rates),
		brackets.StatusHeadOfHousehold: mustSchedule(amounts(17_629, 41_768, 53_843, 66_636, 78_710, 401_705, 482_047, 803_410, 1_000_000), rates),
	})
}

// amounts converts whole-dollar separators to rationals.
func amounts(vals ...int64) []*big.Rat {
	out := make([]*big.Rat, len(vals))
	for i, v := range vals {
		out[i] = big.NewRat(v, 1)
	}
	return out
}

// ratios converts numerators over a shared denominator to rationals.
func ratios(den int64, nums ...int64) []*big.Rat {
	out := make([]*big.Rat, len(nums))
	for i, n := range nums {
		out[i] = big.NewRat(n, den)
	}
	return out
}

// The must helpers guard only the compiled-in tables above: a failure
// here is a bad literal in this file, caught by the package tests.

func mustSchedule(separators, rates []*big.Rat) *brackets.Schedule {
	s, err := brackets.NewSchedule(separators, rates)
	if err != nil {
		panic(err)
	}
	return s
}

func mustFlatProfile(rate *big.Rat) *brackets.Profile {
	p, err := brackets.FlatProfile(rate)
	if err != nil {
		panic(err)
	}
	return p
}
