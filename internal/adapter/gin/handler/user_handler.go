package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-api/internal/adapter/gin/middleware"
	"users-api/internal/usecase/user"
	pkgerrors "users-api/pkg/errors"
	"users-api/pkg/i18n"
	"users-api/pkg/logger"
	"users-api/pkg/metrics"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	tr  *i18n.Translator
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, tr *i18n.Translator, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		tr:  tr,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Omitted fields keep their stored value.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUser handles POST /
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := bindBody(c, &req); err != nil {
		h.handleError(c, err)
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(resp.User))
}

// ListUsers handles GET /
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{})
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toResponse(u)
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /:id
func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: c.Param("id")})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

// UpdateUser handles PUT /:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := bindBody(c, &req); err != nil {
		h.handleError(c, err)
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    c.Param("id"),
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

// DeleteUser handles DELETE /:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if _, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: c.Param("id")}); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindBody decodes the JSON body into req. An empty body decodes as {}.
func bindBody(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return pkgerrors.NewInternalError("malformed request body", err)
	}
	return nil
}

// handleError converts usecase errors to localized HTTP responses.
// Untyped errors become 500 without detail.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	appErr, typed := pkgerrors.As(err)
	code := appErr.Code()

	log := logger.WithContext(c.Request.Context(), h.log)
	if !typed || code == pkgerrors.CodeInternal {
		log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.String("code", code), zap.Error(err))
	}
	metrics.DomainErrorsTotal.WithLabelValues(code).Inc()

	middleware.AbortWithError(c, h.tr, appErr.HTTPStatus(), code, messageFor(code))
}

func messageFor(code string) string {
	switch code {
	case pkgerrors.CodeNotFound:
		return i18n.MsgUserNotFound
	case pkgerrors.CodeAlreadyExists:
		return i18n.MsgEmailExists
	case pkgerrors.CodeRateLimited:
		return i18n.MsgRateLimited
	default:
		return i18n.MsgInternal
	}
}
