package payments

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrPaymentNotFound, Status: http.StatusNotFound, Message: "Payment not found."},
	{Error: ErrPaymentNotOwned, Status: http.StatusForbidden, Message: httputil.MsgInsufficientAccess},
	{Error: ErrRoomNotFound, Status: http.StatusBadRequest, Message: "Room not found."},
	{Error: ErrPayerNotFound, Status: http.StatusNotFound, Message: "User not found."},
	{Error: ErrInvalidTransition, Status: http.StatusBadRequest, Message: "Only pending payments can change status."},
	{Error: ErrInvalidStatus, Status: http.StatusBadRequest, Message: "Invalid payment status."},
}

// Handler handles HTTP requests for the payments module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new payments handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers routes for any authenticated user.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListPayments)
	r.Post("/", h.CreatePayment)
	r.Get("/{id}", h.GetPayment)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.DeletePayment)
}

// CreatePaymentRequest is the body of POST /api/payments.
type CreatePaymentRequest struct {
	RoomID string `json:"room_id" validate:"required,uuid"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Period string `json:"period" validate:"required,datetime=2006-01"`
	Method string `json:"method" validate:"required,oneof=transfer cash ewallet"`
	Note   string `json:"note" validate:"max=1000"`
}

// UpdateStatusRequest is the body of PUT /api/payments/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid rejected"`
	Note   string `json:"note" validate:"max=1000"`
}

func viewer(r *http.Request) Viewer {
	return Viewer{
		UserID: httputil.GetUserID(r.Context()),
		Role:   httputil.GetRole(r.Context()),
	}
}

// ListPayments handles GET /api/payments.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := PaymentFilter{
		UserID: query.Get("user_id"),
		Status: domain.PaymentStatus(query.Get("status")),
	}

	payments, err := h.service.ListPayments(r.Context(), viewer(r), filter)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	if payments == nil {
		payments = []*domain.Payment{}
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// GetPayment handles GET /api/payments/{id}.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.GetPayment(r.Context(), viewer(r), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"payment": payment})
}

// CreatePayment handles POST /api/payments.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	payment, err := h.service.CreatePayment(r.Context(), httputil.GetUserID(r.Context()), CreatePaymentInput{
		RoomID: req.RoomID,
		Amount: req.Amount,
		Period: req.Period,
		Method: domain.PaymentMethod(req.Method),
		Note:   req.Note,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusCreated, "Payment submitted successfully.", map[string]interface{}{"payment": payment})
}

// UpdateStatus handles PUT /api/payments/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	payment, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), UpdateStatusInput{
		Status: domain.PaymentStatus(req.Status),
		Note:   req.Note,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Payment status updated.", map[string]interface{}{"payment": payment})
}

// DeletePayment handles DELETE /api/payments/{id}.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Payment deleted successfully.", nil)
}
