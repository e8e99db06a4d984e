package rest

import (
	"net/http"
	"steezestore/pkg/config"
	"steezestore/pkg/logger"
	"steezestore/pkg/utils"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type AuthHandler struct {
	validate *validator.Validate
	admin    config.AdminConfig
}

func NewAuthHandler(admin config.AdminConfig) *AuthHandler {
	return &AuthHandler{
		validate: validator.New(),
		admin:    admin,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks the env-configured admin account and issues a bearer token
// for the dashboard.
func (h *AuthHandler) Login(c echo.Context) error {
	var req AdminLoginRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate admin login", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.Username != h.admin.Username || !utils.CheckPassword(req.Password, h.admin.HashedPassword) {
		logger.Warn("Rejected admin login", "username", req.Username)
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid credentials"})
	}

	token, err := utils.GenerateJWT("admin", "admin")
	if err != nil {
		logger.Error("Failed to generate admin token", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to generate token"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"token": token,
		"user":  map[string]string{"username": req.Username},
	}))
}

// Me reports the authenticated session back to the dashboard.
func (h *AuthHandler) Me(c echo.Context) error {
	role, _ := c.Get("role").(string)
	userID, _ := c.Get("user_id").(string)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{
		"username": userID,
		"role":     role,
	}))
}
