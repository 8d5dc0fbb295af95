package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeops-br/catalog-admin-api/internal/app/dto"
	"github.com/storeops-br/catalog-admin-api/internal/app/service"
	"github.com/storeops-br/catalog-admin-api/internal/app/workflow"
	"github.com/storeops-br/catalog-admin-api/internal/domain"
	"github.com/storeops-br/catalog-admin-api/internal/infrastructure/http/response"
)

// SessionHeader carries the viewer's session id. The service issues one on
// first contact and the handler echoes it on every response.
const SessionHeader = "X-Session-ID"

// StoreHandler handles HTTP requests for the storefront admin screen
type StoreHandler struct {
	service *service.StoreService
	logger  *slog.Logger
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(service *service.StoreService, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products
func (h *StoreHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// GetSession handles GET /session
func (h *StoreHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := h.service.Identity(r.Context(), r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.SessionID)
	response.JSON(w, http.StatusOK, sess)
}

// SwitchIdentity handles PUT /session/identity
func (h *StoreHandler) SwitchIdentity(w http.ResponseWriter, r *http.Request) {
	var req dto.SwitchIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err, "")
		return
	}

	sess, err := h.service.SwitchIdentity(r.Context(), r.Header.Get(SessionHeader), req.Identity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set(SessionHeader, sess.SessionID)
	response.JSON(w, http.StatusOK, sess)
}

// OpenEditor handles POST /products/{id}/editor
func (h *StoreHandler) OpenEditor(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	editor, err := h.service.OpenEditor(r.Context(), r.Header.Get(SessionHeader), productID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set(SessionHeader, editor.SessionID)
	response.JSON(w, http.StatusCreated, editor)
}

// SetDraft handles PUT /products/{id}/editor/draft
func (h *StoreHandler) SetDraft(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req dto.SetDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err, "")
		return
	}

	editor, err := h.service.SetDraft(r.Context(), r.Header.Get(SessionHeader), productID, req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set(SessionHeader, editor.SessionID)
	response.JSON(w, http.StatusOK, editor)
}

// Submit handles POST /products/{id}/editor/submit
func (h *StoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), r.Header.Get(SessionHeader), productID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set(SessionHeader, result.SessionID)
	response.JSON(w, http.StatusOK, result)
}

// CancelEdit handles DELETE /products/{id}/editor
func (h *StoreHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelEdit(r.Context(), r.Header.Get(SessionHeader), productID); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, domain.ErrProductNotFound, "invalid product id")
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to status codes. Validation and
// authorization failures carry their exact user-facing strings.
func (h *StoreHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		response.Error(w, http.StatusForbidden, err, workflow.MsgUnauthorized)
	case errors.Is(err, domain.ErrNonNumeric):
		response.Error(w, http.StatusUnprocessableEntity, err, workflow.MsgNonNumeric)
	case errors.Is(err, domain.ErrTooLarge):
		response.Error(w, http.StatusUnprocessableEntity, err, workflow.MsgTooLarge)
	case errors.Is(err, domain.ErrInvalidIdentity):
		response.Error(w, http.StatusBadRequest, err, "")
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrNoEditor):
		response.Error(w, http.StatusNotFound, err, "")
	case errors.Is(err, domain.ErrEditorClosed):
		response.Error(w, http.StatusConflict, err, "")
	case errors.Is(err, domain.ErrSourceUnavailable):
		response.Error(w, http.StatusBadGateway, err, "")
	default:
		response.Error(w, http.StatusInternalServerError, err, "")
	}
}
