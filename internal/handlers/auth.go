package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/condomarket/backend/internal/hash"
	"github.com/condomarket/backend/internal/logging"
	"github.com/condomarket/backend/internal/models"
	"github.com/condomarket/backend/internal/mykafka"
	"github.com/condomarket/backend/internal/service/token"
	"github.com/condomarket/backend/internal/store"
)

type AuthHandler struct {
	Users    store.Users
	Tokens   *token.Service
	Producer *mykafka.Producer
}

// publicUser is the profile returned next to the token; the password hash
// never leaves the store layer.
type publicUser struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Condominio string `json:"condominio"`
}

func profile(u *models.User) publicUser {
	return publicUser{ID: u.ID, Email: u.Email, Name: u.Name, Condominio: u.Condominio}
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userId"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cuerpo de petición inválido"})
	}

	// unknown email and wrong password answer identically
	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Error("login_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al iniciar sesión"})
		}
		l.Warn("login_error", "status", 401, "reason", "bad credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Email o contraseña incorrectos"})
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_error", "status", 401, "reason", "bad credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Email o contraseña incorrectos"})
	}

	signed, err := h.Tokens.Sign(user)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al iniciar sesión"})
	}

	h.publish(c, map[string]any{
		"type":   "user_logged_in",
		"userId": user.ID,
		"email":  user.Email,
	})

	l.Info("login_success", "userId", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"token": signed,
		"user":  profile(user),
	})
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		Condominio string `json:"condominio"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cuerpo de petición inválido"})
	}
	if req.Email == "" || req.Password == "" {
		l.Warn("register_error", "status", 400, "reason", "missing credentials")
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email y contraseña son obligatorios"})
	}

	if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		l.Warn("register_error", "status", 409, "reason", "duplicate email")
		return c.JSON(http.StatusConflict, echo.Map{"message": "El email ya está registrado"})
	} else if !errors.Is(err, store.ErrNotFound) {
		l.Error("register_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al registrar el usuario"})
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash password", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al registrar el usuario"})
	}

	user := &models.User{
		ID:           newID(),
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
		Condominio:   req.Condominio,
	}
	if err := h.Users.Insert(ctx, user); err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot insert user", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al registrar el usuario"})
	}

	signed, err := h.Tokens.Sign(user)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot sign token", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al registrar el usuario"})
	}

	h.publish(c, map[string]any{
		"type":   "user_registered",
		"userId": user.ID,
		"email":  user.Email,
	})

	l.Info("register_success", "userId", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"token": signed,
		"user":  profile(user),
	})
}
