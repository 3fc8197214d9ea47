package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// TypeRewardsMinSpendUpdated is emitted when the minimum qualifying swap
	// size is changed by the administrator.
	TypeRewardsMinSpendUpdated = "rewards.policy.min_spend.updated"
	// TypeRewardsDailyCapUpdated is emitted when the per-trader daily cap is
	// changed by the administrator.
	TypeRewardsDailyCapUpdated = "rewards.policy.daily_cap.updated"
	// TypeRewardsDailyCapReached is emitted whenever a swap's entitlement is
	// truncated by the daily cap, including the fully-exhausted case where
	// nothing is credited.
	TypeRewardsDailyCapReached = "rewards.daily_cap.reached"
	// TypeRewardsPointsAccrued is emitted after points are credited for a
	// qualifying swap.
	TypeRewardsPointsAccrued = "rewards.points.accrued"
	// TypeRewardsSwapSkipped is emitted when a completed swap produces no
	// points. Skips are expected for the common case of swaps without a
	// reward opt-in and never abort the enclosing swap.
	TypeRewardsSwapSkipped = "rewards.swap.skipped"
)

// RewardsMinSpendUpdated carries the new minimum qualifying amount.
type RewardsMinSpendUpdated struct {
	Value *big.Int
}

// EventType implements the Event interface.
func (RewardsMinSpendUpdated) EventType() string { return TypeRewardsMinSpendUpdated }

// RewardsDailyCapUpdated carries the previous and updated daily cap.
type RewardsDailyCapUpdated struct {
	Previous *big.Int
	Updated  *big.Int
}

// EventType implements the Event interface.
func (RewardsDailyCapUpdated) EventType() string { return TypeRewardsDailyCapUpdated }

// RewardsDailyCapReached records a trader hitting the per-day earning ceiling.
// Credited is the amount actually paid out by the capped accrual, which is
// zero when the allowance was already exhausted.
type RewardsDailyCapReached struct {
	Trader   common.Address
	Day      uint64
	Credited *big.Int
}

// EventType implements the Event interface.
func (RewardsDailyCapReached) EventType() string { return TypeRewardsDailyCapReached }

// RewardsPointsAccrued records a successful credit of points to a trader.
type RewardsPointsAccrued struct {
	Pool     string
	Trader   common.Address
	Day      uint64
	Spend    *big.Int
	Credited *big.Int
}

// EventType implements the Event interface.
func (RewardsPointsAccrued) EventType() string { return TypeRewardsPointsAccrued }

// RewardsSwapSkipped records a swap that earned nothing, with the reason.
type RewardsSwapSkipped struct {
	Pool   string
	Reason string
}

// EventType implements the Event interface.
func (RewardsSwapSkipped) EventType() string { return TypeRewardsSwapSkipped }
