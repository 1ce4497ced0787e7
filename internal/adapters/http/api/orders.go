package api

import (
	"net/http"
	"strings"

	service "github.com/okian/shootout/internal/app"
)

// handlePostOrder handles POST /orders.
func (s *Server) handlePostOrder(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_order"
	var req service.OrderRequest
	if err := decode(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.FulfilOrder(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type oddsResponse struct {
	Division string             `json:"division"`
	Odds     map[string]float64 `json:"odds"`
}

// handleGetOdds handles GET /orders/odds?division=D&owned=a,b.
func (s *Server) handleGetOdds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var owned []string
	for _, id := range strings.Split(q.Get("owned"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			owned = append(owned, id)
		}
	}
	odds, err := s.deps.DrawOdds(r.Context(), q.Get("division"), owned)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, oddsResponse{Division: strings.ToLower(q.Get("division")), Odds: odds})
}
