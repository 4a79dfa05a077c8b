package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Olatundeawo/ordora/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a new user --> POST /register
func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	req := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	user, tokens, err := h.userService.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return errJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":    user,
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

// Login logs in a user --> POST /login
func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	user, tokens, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return errJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

// Refresh exchanges a refresh token for a new access token --> POST /token/refresh
func (h *UserHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	req := struct {
		Refresh string `json:"refresh"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	access, err := h.userService.Refresh(ctx, req.Refresh)
	if err != nil {
		return errJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"access": access})
}

// GetUserByID retrieves a user by ID --> GET /users/:id
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return errJSON(c, err)
	}

	return c.JSON(http.StatusOK, user)
}
