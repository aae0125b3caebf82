package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"go-life-planner/internal/model"
	"go-life-planner/internal/registry"
	"go-life-planner/internal/service"
	"go-life-planner/pkg/apierror"
)

const maxBodyBytes = 1 << 20

type RecycleHandler struct {
	service *service.RecycleService
}

func NewRecycleHandler(service *service.RecycleService) *RecycleHandler {
	return &RecycleHandler{service: service}
}

func (h *RecycleHandler) Archive(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ArchiveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		writeError(w, apierror.New("BAD_REQUEST", "data is required", "data", http.StatusBadRequest))
		return
	}

	kind, err := registry.ParseKind(payload.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	var parentType model.Kind
	if strings.TrimSpace(payload.ParentType) != "" {
		parentType, err = registry.ParseKind(payload.ParentType)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	item, err := h.service.Archive(r.Context(), service.ArchiveInput{
		OwnerID:          ownerID,
		Type:             kind,
		EntityID:         payload.EntityID,
		Snapshot:         payload.Data,
		ParentID:         payload.ParentID,
		ParentType:       parentType,
		OriginalLocation: payload.OriginalLocation,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, item, nil)
}

func (h *RecycleHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var kind model.Kind
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		kind, err = registry.ParseKind(raw)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	items, err := h.service.List(r.Context(), ownerID, kind)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RecycleListData{Items: items}, &model.Meta{Total: len(items)})
}

func (h *RecycleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *RecycleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Restore(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *RecycleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"id": id, "deleted": true}, nil)
}

// Clear empties the bin. With olderThan only records archived longer ago
// than the given duration are removed.
func (h *RecycleHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var count int64
	if raw := strings.TrimSpace(r.URL.Query().Get("olderThan")); raw != "" {
		age, parseErr := time.ParseDuration(raw)
		if parseErr != nil {
			writeError(w, apierror.Wrap(parseErr, "BAD_REQUEST", "olderThan must be a duration such as 720h", http.StatusBadRequest))
			return
		}
		count, err = h.service.PurgeOlderThan(r.Context(), ownerID, age)
	} else {
		count, err = h.service.Clear(r.Context(), ownerID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ClearResult{DeletedCount: count}, nil)
}
