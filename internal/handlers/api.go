package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/spainrp/awards/internal/auth"
	"github.com/spainrp/awards/internal/services"
)

// handleRoot is the unauthenticated welcome document
func (h *Handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RootResponse{
		Message: "🏆 " + h.opts.EventName + " API",
		Status:  "Online",
		Version: Version,
	})
}

func (h *Handlers) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Config.Current())
}

func (h *Handlers) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Awards == nil && req.Colors == nil {
		respondError(w, BadRequest("Nada que actualizar: envía awards o colors"))
		return
	}

	cfg, warnings, err := h.Config.Update(r.Context(), services.ConfigUpdate{Awards: req.Awards, Colors: req.Colors})
	if err != nil {
		h.fail(w, err)
		return
	}
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		h.Log.Info("Config updated from dashboard", "user", claims.ID, "categories", len(cfg.Awards))
	}
	respondOK(w, ConfigResponse{AwardConfig: cfg, Warnings: warnings})
}

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Results.Stats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleGetMyVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, ErrUnauthorized)
		return
	}

	vote, err := h.Votes.GetMine(r.Context(), claims.ID)
	if stderrors.Is(err, services.ErrNoPriorVote) {
		respondOK(w, MyVoteResponse{Found: false})
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	respondOK(w, MyVoteResponse{Found: true, Vote: vote})
}

// handleUpdateMyVote applies a partial re-vote limited to the editable
// categories and to candidates that exist in the current config.
func (h *Handlers) handleUpdateMyVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, ErrUnauthorized)
		return
	}

	var req VoteUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if len(req.Votes) == 0 {
		respondError(w, BadRequest("No hay votos que actualizar"))
		return
	}
	if err := h.checkEditable(req.Votes); err != nil {
		respondError(w, err)
		return
	}

	vote, err := h.Votes.UpdateSelections(r.Context(), claims.ID, req.Votes)
	if stderrors.Is(err, services.ErrNoPriorVote) {
		respondError(w, NotFound("No se encontró tu voto previo. Por favor vota desde cero si es tu primera vez."))
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}

	h.Log.Info("Vote updated from dashboard", "user", claims.ID, "votes", req.Votes)
	respondOK(w, VoteUpdateResponse{Success: true, Vote: vote})
}

func (h *Handlers) checkEditable(votes map[string]string) error {
	cfg := h.Config.Current()

	keys := make([]string, 0, len(votes))
	for k := range votes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, catID := range keys {
		if !h.editable[catID] {
			return Validation(fmt.Sprintf("La categoría %q no se puede modificar", catID))
		}
		cat, ok := cfg.Category(catID)
		if !ok {
			return Validation(fmt.Sprintf("Categoría desconocida %q", catID))
		}
		if _, ok := cat.Candidate(votes[catID]); !ok {
			return Validation(fmt.Sprintf("Candidato desconocido %q en %q", votes[catID], catID))
		}
	}
	return nil
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Health.Check(r.Context()))
}
