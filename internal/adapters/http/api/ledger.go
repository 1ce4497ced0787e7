package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/shootout/internal/app"
	"github.com/okian/shootout/internal/domain/reward"
)

type quoteRequest struct {
	Division string             `json:"division"`
	Result   reward.MatchResult `json:"result"`
}

// handlePostQuote handles POST /rewards/quote.
func (s *Server) handlePostQuote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_quote"
	var req quoteRequest
	if err := decode(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.deps.QuoteReward(r.Context(), req.Division, req.Result)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type ackResponse struct {
	Status  string `json:"status"`
	MatchID string `json:"match_id"`
}

// handlePostSettle handles POST /matches/settle. Payment happens
// asynchronously; the balance shows it once a worker has credited the match.
func (s *Server) handlePostSettle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_settle"
	var req service.SettleRequest
	if err := decode(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.deps.SubmitSettlement(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", MatchID: id})
}

// handleGetTop handles GET /ledger/top?limit=N. limit defaults to 10.
func (s *Server) handleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	n := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			s.fail(w, r, NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > s.maxTopLimit {
		s.fail(w, r, NewKind(op, ErrLimitExceeded))
		return
	}
	entries, err := s.deps.TopN(r.Context(), n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleGetBalance handles GET /ledger/{playerID}.
func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.Balance(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleGetRank handles GET /ledger/{playerID}/rank.
func (s *Server) handleGetRank(w http.ResponseWriter, r *http.Request) {
	e, err := s.deps.Rank(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
