package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/userapi/userapi/internal/handler/dto"
	"github.com/userapi/userapi/internal/metrics"
	"github.com/userapi/userapi/internal/middleware"
	"github.com/userapi/userapi/internal/model"
	"github.com/userapi/userapi/internal/service"
)

// operation names an endpoint for logs, metrics and its 500 message.
type operation struct {
	name    string
	message string
}

var (
	opCreate = operation{"create", "Failed to create user"}
	opList   = operation{"list", "Failed to get users"}
	opGet    = operation{"get", "Failed to get user"}
	opUpdate = operation{"update", "Failed to update user"}
	opDelete = operation{"delete", "Failed to delete user"}
)

// sampleUser backs GET /test-mappings.
var sampleUser = model.User{
	ID:    "123",
	Name:  "John Doe",
	Email: "john@doe.com",
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc     *service.UserService
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, recorder metrics.Recorder) *UserHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserHandler{
		svc:     svc,
		logger:  logger,
		metrics: recorder,
	}
}

// Routes registers the user endpoints on r.
// /test-mappings is a static segment and wins over /{id}.
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/test-mappings", h.TestMappings)
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Create handles POST /.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.svc.CreateUser(r.Context(), service.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Email already exists"})
			return
		}
		h.fail(w, r, opCreate, err)
		return
	}

	h.logger.Info("user_created",
		"user_id", user.ID,
		"email_hash", user.EmailFingerprint(),
	)

	writeJSON(w, http.StatusCreated, dto.ToUserView(user))
}

// List handles GET /.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, opList, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserViews(users))
}

// Get handles GET /{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		h.fail(w, r, opGet, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserView(user))
}

// Update handles PUT /{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), service.UpdateUserInput{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		case errors.Is(err, service.ErrEmailExists):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Email already exists"})
		default:
			h.fail(w, r, opUpdate, err)
		}
		return
	}

	h.logger.Info("user_updated",
		"user_id", user.ID,
		"name_changed", req.Name != nil,
		"email_changed", req.Email != nil,
	)

	writeJSON(w, http.StatusOK, dto.ToUserView(user))
}

// Delete handles DELETE /{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.MessageResponse{
				Message: fmt.Sprintf("User with id: %s not found", id),
			})
			return
		}
		h.fail(w, r, opDelete, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User with id: %s has been deleted", id),
	})
}

// TestMappings handles GET /test-mappings.
// It projects a fixed sample user so the response shape can be checked without a database.
func (h *UserHandler) TestMappings(w http.ResponseWriter, r *http.Request) {
	user := sampleUser
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	writeJSON(w, http.StatusOK, dto.ToUserView(&user))
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decode reads an optional JSON body into dst.
// The body must be empty or hold exactly one JSON value; an empty body leaves dst untouched.
// On failure the response is written and false returned.
func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		_, err = dec.Token()
		if err == nil {
			err = errTrailingData
		}
	}
	if errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "Request body too large"})
		return false
	}

	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
	return false
}

// fail logs an unexpected error and writes the 500 response for op.
func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, op operation, err error) {
	h.logger.Error(op.message,
		"operation", op.name,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	h.metrics.IncOperationFailed(op.name)

	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
		Error:   op.message,
		Details: err.Error(),
	})
}
