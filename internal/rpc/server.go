// Package rpc provides the JSON-RPC 2.0 and WebSocket bridge the wallet UI
// talks to.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odinxorg/odinx-wallet/internal/backend"
	"github.com/odinxorg/odinx-wallet/internal/odin"
	"github.com/odinxorg/odinx-wallet/internal/service"
	"github.com/odinxorg/odinx-wallet/internal/store"
	"github.com/odinxorg/odinx-wallet/pkg/format"
	"github.com/odinxorg/odinx-wallet/pkg/logging"
)

// Config wires the server to the wallet store and swap service.
type Config struct {
	Store     *store.Store
	Service   *service.Service
	Backends  *backend.Registry
	Explorers backend.Explorers
	Clipboard *format.Clipboard

	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer

	// AllowedOrigins restricts CORS and WebSocket origins; empty allows any.
	AllowedOrigins []string
}

// Server is a JSON-RPC 2.0 server.
type Server struct {
	store     *store.Store
	sdk       *service.Service
	backends  *backend.Registry
	explorers backend.Explorers
	clipboard *format.Clipboard
	gatherer  prometheus.Gatherer
	origins   map[string]bool
	log       *logging.Logger
	wsHub     *WSHub

	server   *http.Server
	listener net.Listener

	handlers map[string]Handler
	mu       sync.RWMutex

	hubOnce     sync.Once
	unsubscribe []func()
}

// Handler is a JSON-RPC method handler.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard error codes.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603

	// TradeAPIError is returned when the trade backend rejects a call.
	TradeAPIError = -32000
)

// paramsError marks a handler error as the caller's fault.
type paramsError struct{ err error }

func (e *paramsError) Error() string { return e.err.Error() }
func (e *paramsError) Unwrap() error { return e.err }

func invalidParams(msg string, args ...interface{}) error {
	return &paramsError{err: fmt.Errorf(msg, args...)}
}

// NewServer creates a new JSON-RPC server.
func NewServer(cfg Config) *Server {
	s := &Server{
		store:     cfg.Store,
		sdk:       cfg.Service,
		backends:  cfg.Backends,
		explorers: cfg.Explorers,
		clipboard: cfg.Clipboard,
		gatherer:  cfg.Gatherer,
		origins:   make(map[string]bool),
		log:       logging.GetDefault().Component("rpc"),
		wsHub:     NewWSHub(),
		handlers:  make(map[string]Handler),
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = true
	}

	s.registerHandlers()
	return s
}

// registerHandlers registers all JSON-RPC method handlers.
func (s *Server) registerHandlers() {
	// Wallet store
	s.handlers["wallet_state"] = s.walletState
	s.handlers["wallet_connect"] = s.walletConnect
	s.handlers["wallet_check"] = s.walletCheck
	s.handlers["wallet_reset"] = s.walletReset
	s.handlers["wallet_balances"] = s.walletBalances

	// Formatting helpers
	s.handlers["wallet_copyAddress"] = s.walletCopyAddress
	s.handlers["wallet_truncateAddress"] = s.walletTruncateAddress
	s.handlers["wallet_formatBalance"] = s.walletFormatBalance

	// Swap service
	s.handlers["swap_details"] = s.swapDetails
	s.handlers["swap_maxAmountOut"] = s.swapMaxAmountOut
	s.handlers["swap_create"] = s.swapCreate
	s.handlers["swap_confirm"] = s.swapConfirm
	s.handlers["swap_createHtlc"] = s.swapCreateHtlc
	s.handlers["swap_confirmHtlc"] = s.swapConfirmHtlc
	s.handlers["swap_status"] = s.swapStatus
	s.handlers["swap_history"] = s.swapHistory

	s.handlers["explorer_links"] = s.explorerLinks
}

// Handler returns the HTTP handler and starts event forwarding on first use.
func (s *Server) Handler() http.Handler {
	s.hubOnce.Do(s.startHub)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /", s.handleRPC)
	mux.HandleFunc("OPTIONS /", s.handleCORS)
	mux.HandleFunc("GET /ws", s.handleWS)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return s.corsMiddleware(mux)
}

// startHub runs the WebSocket hub and forwards store and clipboard changes to it.
func (s *Server) startHub() {
	go s.wsHub.Run()

	if s.store != nil {
		s.unsubscribe = append(s.unsubscribe, s.store.Subscribe(func(state store.State) {
			snap := s.walletSnapshot()
			snap.State = state
			s.wsHub.Broadcast(EventWalletState, snap)
		}))
	}
	if s.clipboard != nil {
		s.unsubscribe = append(s.unsubscribe, s.clipboard.Subscribe(func(label string) {
			s.wsHub.Broadcast(EventClipboardLabel, ClipboardLabelResult{Label: label})
		}))
	}
}

// Start starts the RPC server.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("RPC server error", "error", err)
		}
	}()

	s.log.Info("RPC server started", "addr", listener.Addr().String(), "ws", "ws://"+listener.Addr().String()+"/ws")
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop stops the RPC server and the WebSocket hub.
func (s *Server) Stop() error {
	for _, cancel := range s.unsubscribe {
		cancel()
	}
	s.unsubscribe = nil
	s.wsHub.Stop()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleRPC handles incoming JSON-RPC requests.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, nil, ParseError, "Parse error", nil)
		return
	}

	if req.JSONRPC != "2.0" {
		s.writeError(w, req.ID, InvalidRequest, "Invalid Request", nil)
		return
	}

	s.mu.RLock()
	handler, ok := s.handlers[req.Method]
	s.mu.RUnlock()

	if !ok {
		s.writeError(w, req.ID, MethodNotFound, "Method not found", req.Method)
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		code, data := errorCode(err)
		if code == InternalError {
			s.log.With("method", req.Method).Debug("RPC handler failed", "error", err)
		}
		s.writeError(w, req.ID, code, err.Error(), data)
		return
	}

	s.writeResult(w, req.ID, result)
}

func errorCode(err error) (int, interface{}) {
	var perr *paramsError
	if errors.As(err, &perr) {
		return InvalidParams, nil
	}
	var apiErr *odin.APIError
	if errors.As(err, &apiErr) {
		return TradeAPIError, map[string]interface{}{"status": apiErr.StatusCode, "requestId": apiErr.RequestID}
	}
	return InternalError, nil
}

// writeResult writes a successful response.
func (s *Server) writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	resp := Response{
		JSONRPC: "2.0",
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *WSHub {
	return s.wsHub
}

// handleCORS handles CORS preflight requests.
func (s *Server) handleCORS(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) originAllowed(origin string) bool {
	return len(s.origins) == 0 || origin == "" || s.origins[origin]
}

// corsMiddleware adds CORS headers to all responses.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !s.originAllowed(origin) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400") // Cache preflight for 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
