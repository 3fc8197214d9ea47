package rewards

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swaprewards/events"
)

// SwapState describes the minimal functionality the rewards engine needs from
// the surrounding state implementation. The read-check-write sequence on the
// daily meter is performed within a single synchronous invocation; callers
// must not deliver concurrent invocations for the same trader-day key.
type SwapState interface {
	RewardsPolicy() (*Policy, error)
	DailyAccrued(trader common.Address, day uint64) (*big.Int, error)
	SetDailyAccrued(trader common.Address, day uint64, amount *big.Int) error
	TotalAccrued(trader common.Address) (*big.Int, error)
	SetTotalAccrued(trader common.Address, amount *big.Int) error
	// Credit increases the trader's point balance under the pool partition.
	// The engine never calls it with a zero amount.
	Credit(pool PairKey, account common.Address, amount *big.Int) error
}

func noPoints() *PointsDecision {
	return &PointsDecision{
		Qualifies:      false,
		RawEntitlement: big.NewInt(0),
		Credited:       big.NewInt(0),
	}
}

func (e *Engine) skip(ctx *SwapContext, reason string) (*PointsDecision, error) {
	e.emit(events.RewardsSwapSkipped{Pool: ctx.Pool.ID(), Reason: reason})
	return noPoints(), nil
}

// OnSwapCompleted is called by the settlement engine once per finalized swap.
// It computes the trader's entitlement, enforces the daily cap and credits
// the result. Swaps that earn nothing (wrong pair orientation, wrong
// direction, sub-minimum spend, missing or zero trader opt-in) are valid
// inputs that return a non-qualifying decision with a nil error; they must
// never abort the enclosing swap.
func (e *Engine) OnSwapCompleted(st SwapState, ctx *SwapContext) (*PointsDecision, error) {
	if e == nil || st == nil || ctx == nil {
		return noPoints(), nil
	}
	if !ctx.Pool.BaseIsNative() {
		return e.skip(ctx, "pair_not_native")
	}
	if ctx.Direction != DirectionBaseForQuote {
		return e.skip(ctx, "direction_not_qualifying")
	}
	// The raw delta convention encodes the spend for both exact-input and
	// exact-output swaps; negating is all that is needed.
	spend := ctx.spend()
	if spend.Sign() <= 0 {
		return e.skip(ctx, "spend_not_positive")
	}
	policy, err := st.RewardsPolicy()
	if err != nil {
		return nil, err
	}
	policy = policy.Clone().Normalize()
	if spend.Cmp(policy.MinQualifyingAmount) < 0 {
		return e.skip(ctx, "below_min_spend")
	}

	raw := new(big.Int).Mul(spend, big.NewInt(PointsRateBps))
	raw.Quo(raw, big.NewInt(BpsDenominator))

	trader, ok := DecodeTrader(ctx.TraderPayload)
	if !ok {
		return e.skip(ctx, "no_trader_opt_in")
	}

	day := DayIndex(ctx.Timestamp)
	earned, err := st.DailyAccrued(trader, day)
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(policy.DailyCap, earned)
	if remaining.Sign() <= 0 {
		e.emit(events.RewardsDailyCapReached{Trader: trader, Day: day, Credited: big.NewInt(0)})
		return &PointsDecision{
			Qualifies:      true,
			RawEntitlement: raw,
			Credited:       big.NewInt(0),
			Capped:         true,
		}, nil
	}
	if raw.Sign() == 0 {
		// Qualifying spend too small to mint a whole point.
		e.emit(events.RewardsSwapSkipped{Pool: ctx.Pool.ID(), Reason: "entitlement_zero"})
		return &PointsDecision{Qualifies: true, RawEntitlement: big.NewInt(0), Credited: big.NewInt(0)}, nil
	}

	credited := new(big.Int).Set(raw)
	capped := false
	if credited.Cmp(remaining) > 0 {
		credited = new(big.Int).Set(remaining)
		capped = true
	}

	// Meter writes precede the balance credit; an interrupted sequence may
	// under-credit but can never breach the daily cap.
	if err := st.SetDailyAccrued(trader, day, new(big.Int).Add(earned, credited)); err != nil {
		return nil, err
	}
	total, err := st.TotalAccrued(trader)
	if err != nil {
		return nil, err
	}
	if err := st.SetTotalAccrued(trader, new(big.Int).Add(total, credited)); err != nil {
		return nil, err
	}
	if err := st.Credit(ctx.Pool, trader, credited); err != nil {
		return nil, err
	}

	if capped {
		e.emit(events.RewardsDailyCapReached{Trader: trader, Day: day, Credited: new(big.Int).Set(credited)})
	}
	e.emit(events.RewardsPointsAccrued{
		Pool:     ctx.Pool.ID(),
		Trader:   trader,
		Day:      day,
		Spend:    spend,
		Credited: new(big.Int).Set(credited),
	})
	return &PointsDecision{
		Qualifies:      true,
		RawEntitlement: raw,
		Credited:       credited,
		Capped:         capped,
	}, nil
}
