package api

import (
	"net/http"

	service "github.com/okian/shootout/internal/app"
	"github.com/okian/shootout/internal/domain/stats"
)

// handlePostPenalty handles POST /penalties.
func (s *Server) handlePostPenalty(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_penalty"
	var req service.PenaltyRequest
	if err := decode(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.Penalty(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type chanceRequest struct {
	Division string        `json:"division"`
	Stats    *stats.Vector `json:"stats"`
}

type chanceResponse struct {
	Division string `json:"division"`
	Sum      int    `json:"sum"`
	Chance   int    `json:"chance"`
}

// handlePostChance handles POST /chance.
func (s *Server) handlePostChance(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_chance"
	var req chanceRequest
	if err := decode(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Stats == nil {
		s.fail(w, r, NewKind(op, ErrBadRequest))
		return
	}
	chance, err := s.deps.Chance(r.Context(), *req.Stats, req.Division)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chanceResponse{Division: req.Division, Sum: req.Stats.Sum(), Chance: chance})
}

// handlePostRecommend handles POST /chance/recommend.
func (s *Server) handlePostRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recommend"
	var req chanceRequest
	if err := decode(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Stats == nil {
		s.fail(w, r, NewKind(op, ErrBadRequest))
		return
	}
	rec, err := s.deps.Recommend(r.Context(), *req.Stats)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handlePostGenerate handles POST /stats/generate.
func (s *Server) handlePostGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_generate"
	var req service.GenerateRequest
	if err := decode(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	gen, err := s.deps.GenerateStats(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}
