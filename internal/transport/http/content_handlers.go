package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"mathquest/internal/domain"
)

func (s *Server) kindParam(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	raw := chi.URLParam(r, "kind")
	kind := domain.ParseKind(raw)
	if kind == domain.KindUnknown {
		respondError(w, http.StatusNotFound, "unknown_kind", "unknown content kind "+raw)
		return kind, false
	}
	return kind, true
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	items := s.deps.Content.List(kind)
	if items == nil {
		items = []domain.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}
	item, found := s.deps.Content.Get(kind, id)
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "no such item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	patch := domain.NewPatch(kind)
	if err := decodeBody(r, patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	id, err := s.deps.Content.Upsert(r.Context(), kind, nil, patch)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	item, _ := s.deps.Content.Get(kind, id)
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}
	patch := domain.NewPatch(kind)
	if err := decodeBody(r, patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	affected, err := s.deps.Content.Upsert(r.Context(), kind, &id, patch)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not_found", "no such item")
		return
	}
	item, _ := s.deps.Content.Get(kind, affected)
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	id, ok := pathInt(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}
	affected, err := s.deps.Content.Upsert(r.Context(), kind, &id, nil)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "not_found", "no such item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
