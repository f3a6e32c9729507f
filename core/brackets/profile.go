package brackets

import (
	"math/big"

	"relocation-cost/internal/errors"
)

// FilingStatus is a tax filing category.
type FilingStatus string

const (
	StatusSingle          FilingStatus = "single"
	StatusJoint           FilingStatus = "joint"
	StatusSeparate        FilingStatus = "separate"
	StatusHeadOfHousehold FilingStatus = "head_of_household"
)

// AllStatuses lists every filing status, in a stable order.
var AllStatuses = []FilingStatus{
	StatusSingle,
	StatusJoint,
	StatusSeparate,
	StatusHeadOfHousehold,
}

// ParseFilingStatus resolves a user-supplied status string.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch s {
	case "single":
		return StatusSingle, nil
	case "joint", "married":
		return StatusJoint, nil
	case "separate":
		return StatusSeparate, nil
	case "head", "head_of_household":
		return StatusHeadOfHousehold, nil
	}
	return "", errors.Newf(errors.TypeInput, "unknown filing status %q", s)
}

// String returns the canonical spelling.
func (s FilingStatus) String() string {
	return string(s)
}

// Profile maps filing statuses to schedules for one tax jurisdiction.
// A status with no schedule means the jurisdiction defines no tax for
// it: queries treat that as a zero-tax identity, not an error.
type Profile struct {
	schedules map[FilingStatus]*Schedule
}

// NewProfile builds a profile from per-status schedules.
func NewProfile(schedules map[FilingStatus]*Schedule) *Profile {
	m := make(map[FilingStatus]*Schedule, len(schedules))
	for status, sched := range schedules {
		m[status] = sched
	}
	return &Profile{schedules: m}
}

// FlatProfile builds a profile taxing every status at the same flat
// rate. City-level taxes are typically defined this way.
func FlatProfile(rate *big.Rat) (*Profile, error) {
	sched, err := Flat(rate)
	if err != nil {
		return nil, err
	}
	m := make(map[FilingStatus]*Schedule, len(AllStatuses))
	for _, status := range AllStatuses {
		m[status] = sched
	}
	return &Profile{schedules: m}, nil
}

// Schedule returns the schedule for a status, if one is defined.
func (p *Profile) Schedule(status FilingStatus) (*Schedule, bool) {
	sched, ok := p.schedules[status]
	return sched, ok
}

// CalcTaxes returns the tax owed on a gross income for a status, or
// zero when the profile defines no schedule for it.
func (p *Profile) CalcTaxes(gross *big.Rat, status FilingStatus) (*big.Rat, error) {
	sched, ok := p.schedules[status]
	if !ok {
		return new(big.Rat), nil
	}
	return sched.CalcTaxes(gross)
}

// CalcNet returns the net income for a status, or the gross unchanged
// when no schedule is defined.
func (p *Profile) CalcNet(gross *big.Rat, status FilingStatus) (*big.Rat, error) {
	sched, ok := p.schedules[status]
	if !ok {
		return new(big.Rat).Set(gross), nil
	}
	return sched.CalcNet(gross)
}

// CalcGross inverts CalcNet for a status, or returns the net unchanged
// when no schedule is defined.
func (p *Profile) CalcGross(net *big.Rat, status FilingStatus) (*big.Rat, error) {
	sched, ok := p.schedules[status]
	if !ok {
		return new(big.Rat).Set(net), nil
	}
	return sched.CalcGross(net)
}

// MergeProfiles combines two profiles status by status. The result
// covers the union of statuses: a status present on one side only is
// carried through unchanged, and a status present on both is merged
// with Merge.
func MergeProfiles(lhs, rhs *Profile) (*Profile, error) {
	merged := make(map[FilingStatus]*Schedule)
	for _, status := range AllStatuses {
		l, lok := lhs.schedules[status]
		r, rok := rhs.schedules[status]
		switch {
		case lok && rok:
			m, err := Merge(l, r)
			if err != nil {
				return nil, err
			}
			merged[status] = m
		case lok:
			merged[status] = l
		case rok:
			merged[status] = r
		}
	}
	return &Profile{schedules: merged}, nil
}
