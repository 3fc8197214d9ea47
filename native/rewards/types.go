package rewards

import (
	"encoding/hex"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PairKey identifies a trading pair. Base is the position-0 asset of the
// pair ordering; the zero address denotes the chain-native asset.
type PairKey struct {
	Base  common.Address
	Quote common.Address
}

// BaseIsNative reports whether the pair is denominated in the native asset.
func (k PairKey) BaseIsNative() bool {
	return k.Base == (common.Address{})
}

// ID returns the canonical partition key used when crediting balances.
func (k PairKey) ID() string {
	buf := make([]byte, 0, 2*common.AddressLength)
	buf = append(buf, k.Base.Bytes()...)
	buf = append(buf, k.Quote.Bytes()...)
	return hex.EncodeToString(buf)
}

// Direction describes which side of the pair the trader sold.
type Direction uint8

const (
	DirectionUnknown Direction = iota
	// DirectionBaseForQuote is the canonical qualifying direction: the
	// trader spends the base (native) asset to acquire the quote asset.
	DirectionBaseForQuote
	// DirectionQuoteForBase moves value the other way and never earns.
	DirectionQuoteForBase
)

// SwapContext captures the outcome of a settled swap as reported by the
// surrounding exchange engine.
type SwapContext struct {
	Pool PairKey
	// Direction of the trade relative to the pair ordering.
	Direction Direction
	// BaseDelta is the signed net movement of the base asset observed for
	// the trade leg; negative means the trader spent it.
	BaseDelta *big.Int
	// TraderPayload is the opaque reward opt-in supplied alongside the
	// swap. It is expected to encode the crediting account.
	TraderPayload []byte
	// Timestamp is the settlement time used to derive the day index.
	Timestamp time.Time
}

func (ctx *SwapContext) spend() *big.Int {
	if ctx == nil || ctx.BaseDelta == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Neg(ctx.BaseDelta)
}

// PointsDecision is the outcome of evaluating one swap.
type PointsDecision struct {
	// Qualifies reports whether the swap met the pair, direction, opt-in
	// and anti-dust conditions.
	Qualifies bool
	// RawEntitlement is the points computed before capping.
	RawEntitlement *big.Int
	// Credited is the points actually credited, bounded by the remaining
	// daily allowance.
	Credited *big.Int
	// Capped is true iff Credited < RawEntitlement due to the daily cap.
	Capped bool
}

// DecodeTrader extracts the crediting account from the opaque swap payload.
// An absent payload, a payload that is not exactly one address wide, or a
// payload decoding to the zero address all mean the swap opted out of
// rewards; ok is false in each of those cases.
func DecodeTrader(payload []byte) (common.Address, bool) {
	if len(payload) != common.AddressLength {
		return common.Address{}, false
	}
	addr := common.BytesToAddress(payload)
	if addr == (common.Address{}) {
		return common.Address{}, false
	}
	return addr, true
}
