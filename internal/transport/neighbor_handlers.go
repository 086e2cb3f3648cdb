package transport

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
)

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=board list"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type openFormRequest struct {
	ID string `json:"id,omitempty"`
}

type fieldsRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"required,max=32"`
}

type boardResponse struct {
	Mode    registry.ViewMode `json:"mode"`
	Buckets []registry.Bucket `json:"buckets"`
}

type listResponse struct {
	Neighbors []neighbor.Neighbor `json:"neighbors"`
	Count     int                 `json:"count"`
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.controller.SetMode(registry.ViewMode(req.Mode)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleDismissError(w http.ResponseWriter, _ *http.Request) {
	s.controller.DismissError()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBoard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, boardResponse{
		Mode:    s.controller.Snapshot().Mode,
		Buckets: s.controller.Board(),
	})
}

func (s *Server) handleListNeighbors(w http.ResponseWriter, r *http.Request) {
	q := registry.ListQuery{
		Text: r.URL.Query().Get("q"),
		Sort: registry.SortKey(r.URL.Query().Get("sort")),
	}
	switch q.Sort {
	case registry.SortNone, registry.SortName, registry.SortCreated:
	default:
		writeError(w, http.StatusUnprocessableEntity, "invalid sort key")
		return
	}

	list := s.controller.List(q)
	writeJSON(w, http.StatusOK, listResponse{Neighbors: list, Count: len(list)})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Load(r.Context()); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	status, err := neighbor.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.controller.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteNeighbor(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOpenForm(w http.ResponseWriter, r *http.Request) {
	var req openFormRequest
	// The id is optional, so an empty body opens the create form.
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.ID == "" {
		s.controller.OpenCreateForm()
	} else if !s.controller.OpenEditForm(req.ID) {
		writeError(w, http.StatusNotFound, neighbor.ErrNeighborNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleCancelForm(w http.ResponseWriter, _ *http.Request) {
	s.controller.CancelForm()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	var req fieldsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	fields := neighbor.Fields{Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := neighbor.ValidateFields(fields); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.controller.Submit(r.Context(), fields.Normalize())
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleShowDetails(w http.ResponseWriter, r *http.Request) {
	if !s.controller.ShowDetails(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, neighbor.ErrNeighborNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleCloseDetails(w http.ResponseWriter, _ *http.Request) {
	s.controller.CloseDetails()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	opts := activity.ListOptions{}
	if id := r.URL.Query().Get("neighbor_id"); id != "" {
		opts.NeighborID = &id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusUnprocessableEntity, "invalid limit")
			return
		}
		opts.Limit = limit
	}

	entries, err := s.activity.Recent(r.Context(), opts)
	if err != nil {
		s.logger.Error("listing activity failed", "error", err)
		writeError(w, http.StatusInternalServerError, "listing activity failed")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
