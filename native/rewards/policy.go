package rewards

import (
	"fmt"
	"math/big"
)

// Policy controls the behaviour of the rewards engine.
//
// All monetary values are expressed in the smallest denomination of the
// native asset (i.e. wei-style integers).
type Policy struct {
	// MinQualifyingAmount is the anti-dust floor: swaps spending strictly
	// less than this earn nothing.
	MinQualifyingAmount *big.Int
	// DailyCap is the maximum points a single trader may accrue within one
	// day index.
	DailyCap *big.Int
}

// Clone produces a deep copy of the policy.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	clone := &Policy{}
	if p.MinQualifyingAmount != nil {
		clone.MinQualifyingAmount = new(big.Int).Set(p.MinQualifyingAmount)
	}
	if p.DailyCap != nil {
		clone.DailyCap = new(big.Int).Set(p.DailyCap)
	}
	return clone
}

// Normalize ensures all pointer fields are non-nil for ease of use. The
// method returns the receiver to allow chaining.
func (p *Policy) Normalize() *Policy {
	if p == nil {
		return nil
	}
	if p.MinQualifyingAmount == nil {
		p.MinQualifyingAmount = big.NewInt(0)
	}
	if p.DailyCap == nil {
		p.DailyCap = big.NewInt(0)
	}
	return p
}

// Validate performs static validation of the policy. Both values must be
// strictly positive once initialized.
func (p *Policy) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil policy", ErrInvalidPolicy)
	}
	if p.MinQualifyingAmount == nil || p.MinQualifyingAmount.Sign() <= 0 {
		return fmt.Errorf("%w: minQualifyingAmount must be positive", ErrInvalidPolicy)
	}
	if p.DailyCap == nil || p.DailyCap.Sign() <= 0 {
		return fmt.Errorf("%w: dailyCap must be positive", ErrInvalidPolicy)
	}
	return nil
}
