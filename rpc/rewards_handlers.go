package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"swaprewards/native/rewards"
)

type setAmountParams struct {
	Caller string `json:"caller"`
	Value  string `json:"value"`
}

type traderParams struct {
	Trader string  `json:"trader"`
	Day    *uint64 `json:"day,omitempty"`
}

type balanceParams struct {
	Pool   pairParams `json:"pool"`
	Trader string     `json:"trader"`
}

type pairParams struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

type policyResult struct {
	MinQualifyingAmount string `json:"minQualifyingAmount"`
	DailyCap            string `json:"dailyCap"`
}

func decodeSingleParam(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return errors.New("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

func parseHexAddress(field, raw string) (common.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("%s must be a hex address", field)
	}
	return common.HexToAddress(trimmed), nil
}

// parsePairAddress accepts an empty string as shorthand for the native (zero)
// asset.
func parsePairAddress(field, raw string) (common.Address, error) {
	if strings.TrimSpace(raw) == "" {
		return common.Address{}, nil
	}
	return parseHexAddress(field, raw)
}

func parseAmount(field, raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, fmt.Errorf("%s must be a base-10 integer", field)
	}
	return value, nil
}

func parsePair(params pairParams) (rewards.PairKey, error) {
	base, err := parsePairAddress("pool.base", params.Base)
	if err != nil {
		return rewards.PairKey{}, err
	}
	quote, err := parsePairAddress("pool.quote", params.Quote)
	if err != nil {
		return rewards.PairKey{}, err
	}
	return rewards.PairKey{Base: base, Quote: quote}, nil
}

func writeStoreError(w http.ResponseWriter, req *RPCRequest, err error) {
	switch {
	case errors.Is(err, rewards.ErrUnauthorized):
		writeError(w, http.StatusForbidden, req.ID, codeUnauthorized, "caller not authorized", nil)
	case errors.Is(err, rewards.ErrInvalidParameter), errors.Is(err, rewards.ErrInvalidPolicy):
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "parameter update failed", err.Error())
	}
}

func (s *Server) handleSetMinQualifyingAmount(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if !s.requireAuth(w, r, req) {
		return
	}
	var params setAmountParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := parseHexAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	value, err := parseAmount("value", params.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.store.SetMinQualifyingAmount(caller, value); err != nil {
		writeStoreError(w, req, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleSetDailyCap(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if !s.requireAuth(w, r, req) {
		return
	}
	var params setAmountParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := parseHexAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	value, err := parseAmount("value", params.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.store.SetDailyCap(caller, value); err != nil {
		writeStoreError(w, req, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleGetRemainingAllowance(w http.ResponseWriter, req *RPCRequest) {
	var params traderParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	trader, err := parseHexAddress("trader", params.Trader)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	remaining, err := s.store.RemainingAllowance(trader, s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load allowance", err.Error())
		return
	}
	writeResult(w, req.ID, remaining.String())
}

func (s *Server) handleGetDailyAccrued(w http.ResponseWriter, req *RPCRequest) {
	var params traderParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	trader, err := parseHexAddress("trader", params.Trader)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	day := rewards.DayIndex(s.now())
	if params.Day != nil {
		day = *params.Day
	}
	accrued, err := s.state.DailyAccrued(trader, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load meter", err.Error())
		return
	}
	writeResult(w, req.ID, accrued.String())
}

func (s *Server) handleGetTotalAccrued(w http.ResponseWriter, req *RPCRequest) {
	var params traderParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	trader, err := parseHexAddress("trader", params.Trader)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	total, err := s.state.TotalAccrued(trader)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load meter", err.Error())
		return
	}
	writeResult(w, req.ID, total.String())
}

func (s *Server) handleGetBalance(w http.ResponseWriter, req *RPCRequest) {
	var params balanceParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	pool, err := parsePair(params.Pool)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	trader, err := parseHexAddress("trader", params.Trader)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	balance, err := s.state.Balance(pool, trader)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load balance", err.Error())
		return
	}
	writeResult(w, req.ID, balance.String())
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, req *RPCRequest) {
	policy, err := s.store.Policy()
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load policy", err.Error())
		return
	}
	writeResult(w, req.ID, policyResult{
		MinQualifyingAmount: policy.MinQualifyingAmount.String(),
		DailyCap:            policy.DailyCap.String(),
	})
}
