package notifications

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrNotificationNotFound, Status: http.StatusNotFound, Message: "Notification not found."},
	{Error: ErrNotificationNotOwned, Status: http.StatusForbidden, Message: httputil.MsgInsufficientAccess},
	{Error: ErrRecipientNotFound, Status: http.StatusBadRequest, Message: "User not found."},
}

// Handler handles HTTP requests for the notifications module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new notifications handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers routes on the caller's own notifications.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListNotifications)
	r.Put("/{id}/read", h.MarkRead)
	r.Delete("/{id}", h.DeleteNotification)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Send)
}

// SendRequest is the body of POST /api/notifications.
type SendRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Title   string `json:"title" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=2000"`
}

// ListNotifications handles GET /api/notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	items, err := h.service.ListNotifications(r.Context(), httputil.GetUserID(r.Context()), unreadOnly)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	if items == nil {
		items = []*domain.Notification{}
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"notifications": items})
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MarkRead(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Notification marked as read.", map[string]interface{}{"notification": n})
}

// DeleteNotification handles DELETE /api/notifications/{id}.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteNotification(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Notification deleted successfully.", nil)
}

// Send handles POST /api/notifications.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	n, err := h.service.Send(r.Context(), SendInput(req))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusCreated, "Notification sent successfully.", map[string]interface{}{"notification": n})
}
