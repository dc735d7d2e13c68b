package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-service/internal/usecase/account"
	apperrors "user-account-service/pkg/errors"
	"user-account-service/pkg/logger"
	"user-account-service/pkg/response"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	uc  account.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(uc account.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

// RegisterRequest is the HTTP body for member registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
}

// LoginRequest is the HTTP body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IDRequest is the HTTP body for id-keyed operations.
type IDRequest struct {
	ID string `json:"id"`
}

// FilterByNameRequest is the HTTP body for the name search.
type FilterByNameRequest struct {
	Name string `json:"name"`
}

// EditProfileRequest is the HTTP body for profile editing. Absent
// fields leave the corresponding attribute untouched.
type EditProfileRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender"`
	Password *string `json:"password"`
	Profile  *string `json:"profile"`
}

// Register handles POST /user/memberRegister.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	resp, err := h.uc.Register(c.Request.Context(), account.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
		Gender:   req.Gender,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated,
		response.WithData(http.StatusCreated, "Member registered successfully", resp))
}

// Login handles POST /user/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), account.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.WithData(http.StatusOK, "Login successful", resp))
}

// ListUsers handles GET /user/getUsers.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.WithData(http.StatusOK, "Success", users))
}

// GetSingleUser handles POST /user/getSingleUser.
func (h *UserHandler) GetSingleUser(c *gin.Context) {
	var req IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	user, err := h.uc.GetByID(c.Request.Context(), account.GetUserRequest{ID: req.ID})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.WithData(http.StatusOK, "Success", user))
}

// FilterByName handles POST /user/filterByName.
func (h *UserHandler) FilterByName(c *gin.Context) {
	var req FilterByNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	users, err := h.uc.SearchByName(c.Request.Context(), account.SearchByNameRequest{Name: req.Name})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.WithData(http.StatusOK, "Success", users))
}

// EditProfile handles POST /user/edit_profile.
func (h *UserHandler) EditProfile(c *gin.Context) {
	var req EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	user, err := h.uc.EditProfile(c.Request.Context(), account.EditProfileRequest{
		ID:       req.ID,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Password: req.Password,
		Profile:  req.Profile,
		Scheme:   requestScheme(c),
		Host:     c.Request.Host,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK,
		response.WithData(http.StatusOK, "Profile updated successfully", user))
}

// DeleteAccount handles POST /user/delete-account.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	var req IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	if err := h.uc.DeleteAccount(c.Request.Context(), account.DeleteAccountRequest{ID: req.ID}); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.New(http.StatusOK, "Account deleted successfully"))
}

// badBody rejects a request whose body does not match the endpoint's
// schema before any domain call is constructed.
func (h *UserHandler) badBody(c *gin.Context, err error) {
	h.log.Warn("invalid request body",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusBadRequest, response.New(http.StatusBadRequest, "Invalid request body"))
}

// handleError translates a domain error into the response envelope.
// Unexpected errors are logged and reported generically.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status, env := response.FromError(err)
	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context(), h.log).Error("operation failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("code", apperrors.FromError(err).Code),
			zap.Error(err),
		)
	}
	c.JSON(status, env)
}

// requestScheme derives the originating scheme for building absolute
// asset URLs.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
