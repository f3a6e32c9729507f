// Package estimator answers the headline question: what gross income at
// the target location preserves the position a gross income buys at the
// source location.
package estimator

import (
	"math/big"

	"go.uber.org/zap"

	"relocation-cost/core/brackets"
	"relocation-cost/core/location"
	"relocation-cost/internal/errors"
	"relocation-cost/internal/logging"
)

// Mode selects how incomes are equated between locations.
type Mode string

const (
	// ModePostTax equates post-tax income: taxes are inverted and
	// nothing else is adjusted.
	ModePostTax Mode = "post_tax"

	// ModeDisposable additionally normalizes by the locations'
	// cost-of-living ratio, holding fixed recurring expenses out of
	// the scaling.
	ModeDisposable Mode = "disposable"
)

// ParseMode resolves a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "post_tax":
		return ModePostTax, nil
	case "disposable":
		return ModeDisposable, nil
	}
	return "", errors.Newf(errors.TypeInput, "unknown analysis mode %q", s)
}

// String returns the canonical spelling.
func (m Mode) String() string {
	return string(m)
}

// Request describes one estimation.
type Request struct {
	// Income is the gross income at the source location. Non-negative.
	Income *big.Rat

	// Status is the filing status at both locations.
	Status brackets.FilingStatus

	// Source and Target are the two jurisdictions.
	Source location.Key
	Target location.Key

	// Mode selects the equivalence being solved for.
	Mode Mode

	// FixedExpenses are recurring post-tax costs that do not scale
	// with local prices (debt service, remote tuition). Only used by
	// ModeDisposable; nil means none.
	FixedExpenses *big.Rat
}

// Result is the outcome of one estimation. All amounts are exact.
type Result struct {
	// EquivalentIncome is the gross income needed at the target.
	EquivalentIncome *big.Rat

	// SourceNet is the post-tax income at the source.
	SourceNet *big.Rat

	// SourceTaxes and TargetTaxes are the tax owed on the source
	// income at the source, and on the equivalent income at the
	// target.
	SourceTaxes *big.Rat
	TargetTaxes *big.Rat
}

// Estimator resolves jurisdictions and runs estimations.
type Estimator struct {
	resolver *location.Resolver
}

// New creates an estimator over a resolver.
func New(resolver *location.Resolver) *Estimator {
	return &Estimator{resolver: resolver}
}

// Estimate computes the equivalent income for a request.
//
// The source profile maps the income to net; ModeDisposable then
// rescales the cost-sensitive part of that net by the target/source
// living-cost ratio; the target profile's inverse maps the adjusted net
// back to gross.
func (e *Estimator) Estimate(req Request) (*Result, error) {
	if req.Income == nil || req.Income.Sign() < 0 {
		return nil, errors.Input("income must be a non-negative amount")
	}

	source, err := e.resolver.Profile(req.Source)
	if err != nil {
		return nil, err
	}
	target, err := e.resolver.Profile(req.Target)
	if err != nil {
		return nil, err
	}

	sourceTaxes, err := source.CalcTaxes(req.Income, req.Status)
	if err != nil {
		return nil, err
	}
	net, err := source.CalcNet(req.Income, req.Status)
	if err != nil {
		return nil, err
	}
	logging.Debug("source net computed",
		zap.String("location", req.Source.String()),
		zap.String("net", net.RatString()))

	targetNet := net
	if req.Mode == ModeDisposable {
		targetNet, err = e.adjustForLivingCosts(req, net)
		if err != nil {
			return nil, err
		}
	}

	equivalent, err := target.CalcGross(targetNet, req.Status)
	if err != nil {
		return nil, err
	}
	targetTaxes, err := target.CalcTaxes(equivalent, req.Status)
	if err != nil {
		return nil, err
	}

	return &Result{
		EquivalentIncome: equivalent,
		SourceNet:        net,
		SourceTaxes:      sourceTaxes,
		TargetTaxes:      targetTaxes,
	}, nil
}

// adjustForLivingCosts rescales net income for ModeDisposable. Fixed
// expenses are subtracted before scaling and added back after: they
// cost the same in either location, so only the remainder tracks local
// prices.
func (e *Estimator) adjustForLivingCosts(req Request, net *big.Rat) (*big.Rat, error) {
	sourceCost, ok := e.resolver.LivingCost(req.Source)
	if !ok {
		return nil, errors.NotSupported("living costs unknown for " + req.Source.String())
	}
	targetCost, ok := e.resolver.LivingCost(req.Target)
	if !ok {
		return nil, errors.NotSupported("living costs unknown for " + req.Target.String())
	}

	expenses := req.FixedExpenses
	if expenses == nil {
		expenses = new(big.Rat)
	}
	if expenses.Sign() < 0 {
		return nil, errors.Input("fixed expenses must not be negative")
	}

	disposable := new(big.Rat).Sub(net, expenses)
	if disposable.Sign() < 0 {
		return nil, errors.Input("fixed expenses exceed net income at the source location")
	}

	ratio := new(big.Rat).Quo(targetCost, sourceCost)
	logging.Debug("scaling disposable income",
		zap.String("ratio", ratio.RatString()),
		zap.String("disposable", disposable.RatString()))

	adjusted := disposable.Mul(disposable, ratio)
	return adjusted.Add(adjusted, expenses), nil
}
