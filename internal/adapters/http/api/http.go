// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/shootout/internal/adapters/http/swagger"
	"github.com/okian/shootout/internal/adapters/ledger"
	service "github.com/okian/shootout/internal/app"
	"github.com/okian/shootout/internal/domain/model"
	"github.com/okian/shootout/internal/domain/probability"
	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/pkg/logger"
	"github.com/okian/shootout/pkg/metrics"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	FulfilOrder(ctx context.Context, req service.OrderRequest) (service.OrderResult, error)
	DrawOdds(ctx context.Context, division string, owned []string) (map[string]float64, error)

	Penalty(ctx context.Context, req service.PenaltyRequest) (service.PenaltyResult, error)
	Chance(ctx context.Context, v stats.Vector, division string) (int, error)
	Recommend(ctx context.Context, v stats.Vector) (probability.Recommendation, error)
	GenerateStats(ctx context.Context, req service.GenerateRequest) (service.GeneratedStats, error)

	QuoteReward(ctx context.Context, division string, r reward.MatchResult) (reward.Payout, error)
	SubmitSettlement(ctx context.Context, req service.SettleRequest) (string, error)
	Balance(ctx context.Context, playerID string) (model.Balance, error)
	Rank(ctx context.Context, playerID string) (ledger.Entry, error)
	TopN(ctx context.Context, n int) ([]ledger.Entry, error)

	Tiers() []tier.Row
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps        Dependencies
	stats       StatsProvider
	maxTopLimit int
	logger      logger.Logger
}

// NewServer creates a new API server. maxTopLimit caps GET /ledger/top.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxTopLimit int) *Server {
	if maxTopLimit < 1 {
		maxTopLimit = 100
	}
	return &Server{
		deps:        deps,
		stats:       statsProvider,
		maxTopLimit: maxTopLimit,
		logger:      logger.Get().Named("api"),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.requestLogger)

	r.Get("/healthz", MetricsMiddleware(handleHealth, "healthz"))
	r.Method(http.MethodGet, "/metrics", promhttpHandler())
	r.Get("/stats", MetricsMiddleware(s.handleStats, "stats"))
	r.Get("/tiers", MetricsMiddleware(s.handleTiers, "tiers"))
	swagger.Register(r)

	r.Post("/orders", MetricsMiddleware(s.handlePostOrder, "orders"))
	r.Get("/orders/odds", MetricsMiddleware(s.handleGetOdds, "orders_odds"))

	r.Post("/penalties", MetricsMiddleware(s.handlePostPenalty, "penalties"))
	r.Post("/chance", MetricsMiddleware(s.handlePostChance, "chance"))
	r.Post("/chance/recommend", MetricsMiddleware(s.handlePostRecommend, "chance_recommend"))
	r.Post("/stats/generate", MetricsMiddleware(s.handlePostGenerate, "stats_generate"))

	r.Post("/rewards/quote", MetricsMiddleware(s.handlePostQuote, "rewards_quote"))
	r.Post("/matches/settle", MetricsMiddleware(s.handlePostSettle, "matches_settle"))
	r.Get("/ledger/top", MetricsMiddleware(s.handleGetTop, "ledger_top"))
	r.Get("/ledger/{playerID}", MetricsMiddleware(s.handleGetBalance, "ledger_balance"))
	r.Get("/ledger/{playerID}/rank", MetricsMiddleware(s.handleGetRank, "ledger_rank"))

	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status its kind maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		metrics.RecordErrorByComponent("api", code)
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
	}
	writeError(w, status, code, err)
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, op string, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
