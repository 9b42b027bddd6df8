package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"librarian/internal/app"
	"librarian/internal/ratelimit"
	"librarian/internal/util"
	"librarian/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                       *app.App
	RedisAddr                 string
	RedisPassword             string
	BorrowRateLimitPerMinute  int
	PaymentRateLimitPerMinute int
}

// Server exposes the circulation API over HTTP.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	borrowLimiter  *ratelimit.FixedWindowLimiter
	paymentLimiter *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	borrowLimit := cfg.BorrowRateLimitPerMinute
	if borrowLimit <= 0 {
		borrowLimit = 30
	}
	paymentLimit := cfg.PaymentRateLimitPerMinute
	if paymentLimit <= 0 {
		paymentLimit = 10
	}
	newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
		prefix := "librarian:ratelimit:" + name
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	borrowLimiter, err := newLimiter("borrow", borrowLimit)
	if err != nil {
		return nil, err
	}
	paymentLimiter, err := newLimiter("payment", paymentLimit)
	if err != nil {
		return nil, err
	}
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		borrowLimiter:  borrowLimiter,
		paymentLimiter: paymentLimiter,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler with request middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("librarian", s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/books", s.handleBooks)
	s.mux.HandleFunc("/api/borrow", s.handleBorrow)
	s.mux.HandleFunc("/api/return", s.handleReturn)
	s.mux.HandleFunc("/api/fees", s.handleFee)
	s.mux.HandleFunc("/api/patrons/", s.handlePatronStatus)
	s.mux.HandleFunc("/api/payments", s.handlePayment)
	s.mux.HandleFunc("/api/refunds", s.handleRefund)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		books, err := s.app.Search(r.URL.Query().Get("q"), r.URL.Query().Get("type"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to search catalog")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"books": books})
	case http.MethodPost:
		var req addBookRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res := s.app.AddBook(req.Title, req.Author, req.ISBN, req.TotalCopies)
		writeJSON(w, statusForResult(res, http.StatusCreated), res)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.borrowLimiter, "too many borrow requests") {
		return
	}
	var req loanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := s.app.Borrow(req.PatronID, req.BookID)
	writeJSON(w, statusForResult(res, http.StatusOK), res)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := s.app.Return(req.PatronID, req.BookID)
	writeJSON(w, statusForResult(res.OpResult, http.StatusOK), res)
}

func (s *Server) handleFee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	bookID, err := strconv.ParseInt(r.URL.Query().Get("book_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "book_id must be an integer")
		return
	}
	fee := s.app.LateFee(r.URL.Query().Get("patron_id"), bookID)
	switch fee.Status {
	case domain.FeeInvalidPatron:
		writeJSON(w, http.StatusBadRequest, fee)
	case domain.FeeBookNotFound:
		writeJSON(w, http.StatusNotFound, fee)
	default:
		writeJSON(w, http.StatusOK, fee)
	}
}

func (s *Server) handlePatronStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/patrons/")
	patronID, ok := strings.CutSuffix(rest, "/status")
	if !ok || strings.Contains(patronID, "/") {
		http.NotFound(w, r)
		return
	}
	report, err := s.app.PatronStatus(patronID)
	if err != nil {
		if errors.Is(err, app.ErrInvalidPatronID) {
			writeError(w, http.StatusBadRequest, "Invalid patron ID. Must be exactly 6 digits.")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build patron report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.paymentLimiter, "too many payment requests") {
		return
	}
	var req loanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := s.app.PayLateFee(req.PatronID, req.BookID)
	status := http.StatusOK
	if !res.Succeeded {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.paymentLimiter, "too many payment requests") {
		return
	}
	var req refundRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := s.app.RefundLateFee(req.TransactionID, req.Amount)
	status := http.StatusOK
	if !res.Succeeded {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

type addBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"total_copies"`
}

type loanRequest struct {
	PatronID string `json:"patron_id"`
	BookID   int64  `json:"book_id"`
}

type refundRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

func statusForResult(res domain.OpResult, success int) int {
	switch res.Outcome {
	case domain.OutcomeSuccess:
		return success
	case domain.OutcomePartial:
		// The primary write landed; the response body carries the partial
		// outcome for the caller to act on.
		return http.StatusOK
	}
	switch res.Code {
	case domain.CodeInvalidPatron, domain.CodeInvalidBook:
		return http.StatusBadRequest
	case domain.CodeBookNotFound, domain.CodeNoActiveBorrow:
		return http.StatusNotFound
	case domain.CodeNotAvailable, domain.CodeLimitExceeded, domain.CodeDuplicateISBN:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	key := r.URL.Path + "|" + util.ClientIP(r)
	if limiter.Allow(key) {
		return true
	}
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
