package rewards

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swaprewards/events"
)

var (
	owner    = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	intruder = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

func newTestStore(t *testing.T) (*ParamStore, *mockState, *recordingEmitter) {
	t.Helper()
	st := newMockState(100, 1000)
	store := NewParamStore(st, owner)
	emitter := &recordingEmitter{}
	store.SetEmitter(emitter)
	return store, st, emitter
}

func TestSetMinQualifyingAmount(t *testing.T) {
	store, st, emitter := newTestStore(t)

	if err := store.SetMinQualifyingAmount(intruder, big.NewInt(50)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if st.policy.MinQualifyingAmount.Int64() != 100 {
		t.Fatal("policy must not change on unauthorized mutation")
	}

	if err := store.SetMinQualifyingAmount(owner, big.NewInt(0)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for zero, got %v", err)
	}
	if err := store.SetMinQualifyingAmount(owner, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for nil, got %v", err)
	}

	if err := store.SetMinQualifyingAmount(owner, big.NewInt(250)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.policy.MinQualifyingAmount.Int64() != 250 {
		t.Fatalf("expected min 250, got %s", st.policy.MinQualifyingAmount)
	}
	if st.policy.DailyCap.Int64() != 1000 {
		t.Fatal("daily cap must be untouched")
	}

	if len(emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(emitter.events))
	}
	evt, ok := emitter.events[0].(events.RewardsMinSpendUpdated)
	if !ok || evt.Value.Int64() != 250 {
		t.Fatalf("unexpected event: %+v", emitter.events[0])
	}
}

func TestSetDailyCap(t *testing.T) {
	store, st, emitter := newTestStore(t)

	if err := store.SetDailyCap(intruder, big.NewInt(5)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := store.SetDailyCap(owner, big.NewInt(0)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if st.policy.DailyCap.Int64() != 1000 {
		t.Fatal("cap must be unchanged after rejected mutations")
	}

	if err := store.SetDailyCap(owner, big.NewInt(500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.policy.DailyCap.Int64() != 500 {
		t.Fatalf("expected cap 500, got %s", st.policy.DailyCap)
	}

	evt, ok := emitter.events[len(emitter.events)-1].(events.RewardsDailyCapUpdated)
	if !ok {
		t.Fatalf("expected cap update event, got %+v", emitter.events)
	}
	if evt.Previous.Int64() != 1000 || evt.Updated.Int64() != 500 {
		t.Fatalf("expected old 1000 new 500, got %+v", evt)
	}
}

func TestRemainingAllowance(t *testing.T) {
	store, st, _ := newTestStore(t)
	now := time.Unix(1_700_000_000, 0)
	day := DayIndex(now)

	remaining, err := store.RemainingAllowance(trader, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining.Int64() != 1000 {
		t.Fatalf("expected full allowance, got %s", remaining)
	}

	if err := st.SetDailyAccrued(trader, day, big.NewInt(400)); err != nil {
		t.Fatalf("seed meter: %v", err)
	}
	remaining, _ = store.RemainingAllowance(trader, now)
	if remaining.Int64() != 600 {
		t.Fatalf("expected 600, got %s", remaining)
	}

	// Lowering the cap below the accrued value floors the allowance at zero
	// without touching the stored meter.
	if err := store.SetDailyCap(owner, big.NewInt(300)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remaining, _ = store.RemainingAllowance(trader, now)
	if remaining.Sign() != 0 {
		t.Fatalf("expected floored allowance 0, got %s", remaining)
	}
	if accrued, _ := st.DailyAccrued(trader, day); accrued.Int64() != 400 {
		t.Fatalf("stored meter must not be truncated, got %s", accrued)
	}
}
