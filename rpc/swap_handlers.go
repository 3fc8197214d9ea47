package rpc

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swaprewards/native/rewards"
)

type swapCompletedParams struct {
	Pool      pairParams `json:"pool"`
	Direction string     `json:"direction"`
	BaseDelta string     `json:"baseDelta"`
	// TraderPayload is the hex-encoded reward opt-in; absent or malformed
	// payloads are valid and simply earn nothing.
	TraderPayload string `json:"traderPayload,omitempty"`
	// Timestamp is the settlement time as unix seconds; defaults to the
	// server clock when omitted.
	Timestamp int64 `json:"timestamp,omitempty"`
}

type swapDecisionResult struct {
	Qualifies      bool   `json:"qualifies"`
	RawEntitlement string `json:"rawEntitlement"`
	Credited       string `json:"credited"`
	Capped         bool   `json:"capped"`
}

func parseDirection(raw string) (rewards.Direction, bool) {
	switch raw {
	case "base_for_quote":
		return rewards.DirectionBaseForQuote, true
	case "quote_for_base":
		return rewards.DirectionQuoteForBase, true
	default:
		return rewards.DirectionUnknown, false
	}
}

// handleSwapCompleted is the settlement engine's inbound hook, invoked once
// per finalized swap.
func (s *Server) handleSwapCompleted(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if !s.requireAuth(w, r, req) {
		return
	}
	var params swapCompletedParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	pool, err := parsePair(params.Pool)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	direction, ok := parseDirection(params.Direction)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "direction must be base_for_quote or quote_for_base", params.Direction)
		return
	}
	delta, err := parseAmount("baseDelta", params.BaseDelta)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	timestamp := s.now()
	if params.Timestamp > 0 {
		timestamp = time.Unix(params.Timestamp, 0).UTC()
	}

	ctx := &rewards.SwapContext{
		Pool:          pool,
		Direction:     direction,
		BaseDelta:     delta,
		TraderPayload: common.FromHex(params.TraderPayload),
		Timestamp:     timestamp,
	}
	decision, err := s.engine.OnSwapCompleted(s.state, ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "accrual failed", err.Error())
		return
	}
	writeResult(w, req.ID, swapDecisionResult{
		Qualifies:      decision.Qualifies,
		RawEntitlement: decision.RawEntitlement.String(),
		Credited:       decision.Credited.String(),
		Capped:         decision.Capped,
	})
}
