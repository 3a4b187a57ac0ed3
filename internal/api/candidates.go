package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Locus/internal/store"
)

type CandidatesHandler struct {
	store store.Store
}

func NewCandidatesHandler(s store.Store) *CandidatesHandler {
	return &CandidatesHandler{store: s}
}

// List returns raw candidates, paged.
// GET /api/v1/candidates?codes=a,b&limit=50&offset=0
func (h *CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.CandidateFilter{}
	if v := q.Get("codes"); v != "" {
		filter.Codes = strings.Split(v, ",")
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	cands, err := h.store.ListCandidates(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cands == nil {
		cands = []store.Candidate{}
	}
	writeJSON(w, http.StatusOK, cands)
}

// Get returns one candidate with its raw attributes.
// GET /api/v1/candidates/{code}
func (h *CandidatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCandidate(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "candidate not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}
