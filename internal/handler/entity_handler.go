package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-life-planner/internal/model"
	"go-life-planner/internal/registry"
	"go-life-planner/internal/service"
	"go-life-planner/pkg/apierror"
)

type EntityHandler struct {
	service *service.EntityService
}

func NewEntityHandler(service *service.EntityService) *EntityHandler {
	return &EntityHandler{service: service}
}

func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	ownerID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "request body too large", "", http.StatusBadRequest))
		return
	}

	doc, err := model.DecodeDocument(raw)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	created, err := h.service.Create(r.Context(), ownerID, kind, doc)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, created, nil)
}

func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}

	docs, err := h.service.List(r.Context(), ownerID, kind)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.EntityListData{Type: kind, Items: docs}, &model.Meta{Total: len(docs)})
}

func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}

	doc, err := h.service.Get(r.Context(), ownerID, kind, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, doc, nil)
}

// Delete moves the entity into the recycle bin.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, kind, ok := h.scope(w, r)
	if !ok {
		return
	}

	item, err := h.service.Delete(r.Context(), ownerID, kind, chi.URLParam(r, "id"), r.URL.Query().Get("location"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *EntityHandler) scope(w http.ResponseWriter, r *http.Request) (string, model.Kind, bool) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, err)
		return "", "", false
	}

	kind, err := registry.ParseKind(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, err)
		return "", "", false
	}

	return ownerID, kind, true
}
