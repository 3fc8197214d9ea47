package state

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"swaprewards/native/rewards"
	"swaprewards/storage"
)

var policyKey = []byte("rewards/policy")

func meterDayKey(trader common.Address, day uint64) []byte {
	return []byte(fmt.Sprintf("rewards/meter/day/%d/%x", day, trader.Bytes()))
}

func meterTotalKey(trader common.Address) []byte {
	return []byte(fmt.Sprintf("rewards/meter/total/%x", trader.Bytes()))
}

func balanceKey(pool rewards.PairKey, account common.Address) []byte {
	return []byte(fmt.Sprintf("rewards/balance/%s/%x", pool.ID(), account.Bytes()))
}

// Manager provides typed access to the rewards module state on top of a raw
// key-value database. Values are RLP encoded.
type Manager struct {
	db storage.Database
}

// NewManager constructs a state manager bound to the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// kvPut stores the provided value under the supplied key using RLP encoding.
func (m *Manager) kvPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.db.Put(key, encoded)
}

// kvGet retrieves the value stored under the supplied key and decodes it into
// out. The boolean return reports whether the key was present.
func (m *Manager) kvGet(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Manager) loadBigInt(key []byte) (*big.Int, error) {
	amount := new(big.Int)
	found, err := m.kvGet(key, amount)
	if err != nil {
		return nil, err
	}
	if !found {
		return big.NewInt(0), nil
	}
	return amount, nil
}

type storedPolicy struct {
	MinQualifyingAmount *big.Int
	DailyCap            *big.Int
}

// RewardsPolicy loads the persisted policy. ErrPolicyNotFound is returned
// when the module has not been seeded yet.
func (m *Manager) RewardsPolicy() (*rewards.Policy, error) {
	stored := new(storedPolicy)
	found, err := m.kvGet(policyKey, stored)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, rewards.ErrPolicyNotFound
	}
	return (&rewards.Policy{
		MinQualifyingAmount: stored.MinQualifyingAmount,
		DailyCap:            stored.DailyCap,
	}).Normalize(), nil
}

// SetRewardsPolicy validates and persists the supplied policy.
func (m *Manager) SetRewardsPolicy(policy *rewards.Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	return m.kvPut(policyKey, &storedPolicy{
		MinQualifyingAmount: policy.MinQualifyingAmount,
		DailyCap:            policy.DailyCap,
	})
}

// DailyAccrued returns the points the trader has already earned within the
// given day index, defaulting to zero when the meter is absent.
func (m *Manager) DailyAccrued(trader common.Address, day uint64) (*big.Int, error) {
	return m.loadBigInt(meterDayKey(trader, day))
}

// SetDailyAccrued writes the trader's meter for the given day index.
func (m *Manager) SetDailyAccrued(trader common.Address, day uint64, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("state: daily meter must be non-negative")
	}
	return m.kvPut(meterDayKey(trader, day), amount)
}

// TotalAccrued returns the trader's lifetime accrued points.
func (m *Manager) TotalAccrued(trader common.Address) (*big.Int, error) {
	return m.loadBigInt(meterTotalKey(trader))
}

// SetTotalAccrued writes the trader's lifetime meter.
func (m *Manager) SetTotalAccrued(trader common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("state: total meter must be non-negative")
	}
	return m.kvPut(meterTotalKey(trader), amount)
}

// Credit increases the account's point balance under the pool partition by
// exactly amount. Balances only ever grow through this path.
func (m *Manager) Credit(pool rewards.PairKey, account common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("state: credit amount must be positive")
	}
	key := balanceKey(pool, account)
	balance, err := m.loadBigInt(key)
	if err != nil {
		return err
	}
	return m.kvPut(key, new(big.Int).Add(balance, amount))
}

// Balance returns the account's point balance under the pool partition.
func (m *Manager) Balance(pool rewards.PairKey, account common.Address) (*big.Int, error) {
	return m.loadBigInt(balanceKey(pool, account))
}
