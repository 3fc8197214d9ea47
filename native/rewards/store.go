package rewards

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swaprewards/events"
)

// ParamStoreState captures the subset of state manager capabilities required
// by the parameter surface.
type ParamStoreState interface {
	RewardsPolicy() (*Policy, error)
	SetRewardsPolicy(*Policy) error
	DailyAccrued(trader common.Address, day uint64) (*big.Int, error)
}

// ParamStore provides the authorized mutation surface for the two tunable
// policy values. All mutations are gated on the owning administrator
// identity fixed at construction.
type ParamStore struct {
	st      ParamStoreState
	owner   common.Address
	emitter events.Emitter
}

// NewParamStore constructs a parameter store bound to the provided state
// backend and administrator address.
func NewParamStore(st ParamStoreState, owner common.Address) *ParamStore {
	return &ParamStore{st: st, owner: owner, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter used to broadcast parameter
// changes. Passing nil resets the emitter to a no-op implementation.
func (s *ParamStore) SetEmitter(emitter events.Emitter) {
	if s == nil {
		return
	}
	if emitter == nil {
		s.emitter = events.NoopEmitter{}
		return
	}
	s.emitter = emitter
}

// Owner returns the administrator address fixed at construction.
func (s *ParamStore) Owner() common.Address {
	if s == nil {
		return common.Address{}
	}
	return s.owner
}

func (s *ParamStore) authorize(caller common.Address) error {
	if s == nil || s.st == nil {
		return fmt.Errorf("rewards: param store not configured")
	}
	if caller != s.owner {
		return ErrUnauthorized
	}
	return nil
}

// Policy returns the currently stored policy.
func (s *ParamStore) Policy() (*Policy, error) {
	if s == nil || s.st == nil {
		return nil, fmt.Errorf("rewards: param store not configured")
	}
	policy, err := s.st.RewardsPolicy()
	if err != nil {
		return nil, err
	}
	return policy.Clone().Normalize(), nil
}

// SetMinQualifyingAmount replaces the anti-dust floor. The caller must be the
// administrator and the value must be strictly positive.
func (s *ParamStore) SetMinQualifyingAmount(caller common.Address, value *big.Int) error {
	if err := s.authorize(caller); err != nil {
		return err
	}
	if value == nil || value.Sign() <= 0 {
		return fmt.Errorf("%w: minQualifyingAmount must be positive", ErrInvalidParameter)
	}
	policy, err := s.st.RewardsPolicy()
	if err != nil {
		return err
	}
	policy = policy.Clone().Normalize()
	policy.MinQualifyingAmount = new(big.Int).Set(value)
	if err := s.st.SetRewardsPolicy(policy); err != nil {
		return err
	}
	s.emitter.Emit(events.RewardsMinSpendUpdated{Value: new(big.Int).Set(value)})
	return nil
}

// SetDailyCap replaces the per-trader daily earning ceiling. The caller must
// be the administrator and the value must be strictly positive. Meter entries
// already above a lowered cap are not retroactively truncated; only forward
// writes are bounded by the new value.
func (s *ParamStore) SetDailyCap(caller common.Address, value *big.Int) error {
	if err := s.authorize(caller); err != nil {
		return err
	}
	if value == nil || value.Sign() <= 0 {
		return fmt.Errorf("%w: dailyCap must be positive", ErrInvalidParameter)
	}
	policy, err := s.st.RewardsPolicy()
	if err != nil {
		return err
	}
	policy = policy.Clone().Normalize()
	previous := new(big.Int).Set(policy.DailyCap)
	policy.DailyCap = new(big.Int).Set(value)
	if err := s.st.SetRewardsPolicy(policy); err != nil {
		return err
	}
	s.emitter.Emit(events.RewardsDailyCapUpdated{Previous: previous, Updated: new(big.Int).Set(value)})
	return nil
}

// RemainingAllowance returns how many points the trader may still accrue
// today, floored at zero. Lowering the cap below an already-accrued value is
// visible here as a zero allowance.
func (s *ParamStore) RemainingAllowance(trader common.Address, now time.Time) (*big.Int, error) {
	if s == nil || s.st == nil {
		return nil, fmt.Errorf("rewards: param store not configured")
	}
	policy, err := s.st.RewardsPolicy()
	if err != nil {
		return nil, err
	}
	policy = policy.Clone().Normalize()
	earned, err := s.st.DailyAccrued(trader, DayIndex(now))
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(policy.DailyCap, earned)
	if remaining.Sign() < 0 {
		return big.NewInt(0), nil
	}
	return remaining, nil
}
