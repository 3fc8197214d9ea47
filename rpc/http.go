package rpc

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"swaprewards/native/rewards"
	"swaprewards/state"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
)

type Server struct {
	engine  *rewards.Engine
	store   *rewards.ParamStore
	state   *state.Manager
	auth    *Authenticator
	limiter *RateLimiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewServer wires the rewards module behind a JSON-RPC surface. The auth
// argument gates mutating methods; pass a disabled authenticator for tests.
func NewServer(engine *rewards.Engine, store *rewards.ParamStore, st *state.Manager, auth *Authenticator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if auth == nil {
		auth = NewAuthenticator(AuthConfig{})
	}
	return &Server{
		engine: engine,
		store:  store,
		state:  st,
		auth:   auth,
		logger: logger,
		now:    time.Now,
	}
}

// SetRateLimiter attaches a per-client limiter to the JSON-RPC route. Must be
// called before Router.
func (s *Server) SetRateLimiter(limiter *RateLimiter) {
	s.limiter = limiter
}

// Router builds the HTTP handler serving the JSON-RPC endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.limiter != nil {
		r.With(s.limiter.Middleware()).Post("/", s.handle)
	} else {
		r.Post("/", s.handle)
	}
	return r
}

// Start serves the JSON-RPC endpoint until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request, req *RPCRequest) bool {
	if err := s.auth.Authorize(r); err != nil {
		writeError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, "unauthorized", err.Error())
		return false
	}
	return true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "failed to read request body", err.Error())
		return
	}
	if len(body) > maxRequestBytes {
		writeError(w, http.StatusRequestEntityTooLarge, nil, codeInvalidRequest, "request body too large", nil)
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON request", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}

	switch req.Method {
	case "rewards_setMinQualifyingAmount":
		s.handleSetMinQualifyingAmount(w, r, &req)
	case "rewards_setDailyCap":
		s.handleSetDailyCap(w, r, &req)
	case "rewards_getRemainingAllowance":
		s.handleGetRemainingAllowance(w, &req)
	case "rewards_getDailyAccrued":
		s.handleGetDailyAccrued(w, &req)
	case "rewards_getTotalAccrued":
		s.handleGetTotalAccrued(w, &req)
	case "rewards_getBalance":
		s.handleGetBalance(w, &req)
	case "rewards_getPolicy":
		s.handleGetPolicy(w, &req)
	case "swap_completed":
		s.handleSwapCompleted(w, r, &req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", req.Method)
	}
}
