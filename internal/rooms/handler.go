package rooms

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/httputil"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrRoomNotFound, Status: http.StatusNotFound, Message: "Room not found."},
	{Error: ErrRoomNumberExists, Status: http.StatusBadRequest, Message: "Room number already exists."},
	{Error: ErrOccupantRequired, Status: http.StatusBadRequest, Message: "An occupied room requires occupant_id."},
	{Error: ErrOccupantNotFound, Status: http.StatusBadRequest, Message: "Occupant not found."},
	{Error: ErrRoomHasPayments, Status: http.StatusBadRequest, Message: "Room still has payments."},
	{Error: ErrInvalidRoomStatus, Status: http.StatusBadRequest, Message: "Invalid room status."},
}

// Handler handles HTTP requests for the rooms module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new rooms handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers read routes for any authenticated user.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListRooms)
	r.Get("/{id}", h.GetRoom)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.CreateRoom)
	r.Put("/{id}", h.UpdateRoom)
	r.Delete("/{id}", h.DeleteRoom)
}

// RoomRequest is the body of create and update requests.
type RoomRequest struct {
	Number      string  `json:"number" validate:"required,max=50"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Price       int64   `json:"price" validate:"required,gt=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	OccupantID  *string `json:"occupant_id" validate:"omitempty,uuid"`
}

func (r RoomRequest) toInput() RoomInput {
	return RoomInput{
		Number:      r.Number,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Status:      domain.RoomStatus(r.Status),
		OccupantID:  r.OccupantID,
	}
}

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	filter := RoomFilter{Status: domain.RoomStatus(r.URL.Query().Get("status"))}

	rooms, err := h.service.ListRooms(r.Context(), filter)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	if rooms == nil {
		rooms = []*domain.Room{}
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"rooms": rooms})
}

// GetRoom handles GET /api/rooms/{id}.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{"room": room})
}

// CreateRoom handles POST /api/rooms.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	room, err := h.service.CreateRoom(r.Context(), req.toInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusCreated, "Room created successfully.", map[string]interface{}{"room": room})
}

// UpdateRoom handles PUT /api/rooms/{id}.
func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Room updated successfully.", map[string]interface{}{"room": room})
}

// DeleteRoom handles DELETE /api/rooms/{id}.
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Message(w, http.StatusOK, "Room deleted successfully.", nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (RoomRequest, bool) {
	var req RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return req, false
	}
	return req, true
}
