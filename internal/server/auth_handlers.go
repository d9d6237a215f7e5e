package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/server/service"
	"github.com/mdouchement/medvault/internal/server/session"
)

// auth contains all authentication handlers.
type auth struct {
	db       database.Client
	sessions session.Manager
}

///// Register
////
//

// Register handler is used to register the user.
func (h *auth) Register(c echo.Context) error {
	// Filter params
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		c.Logger().Warn("Could not get parameters: ", err)
		return c.JSON(http.StatusBadRequest, mverror.New(mverror.Rejected, "Could not get user's params."))
	}
	params.UserAgent = c.Request().UserAgent()

	if strings.TrimSpace(params.Email) == "" {
		return c.JSON(http.StatusBadRequest, mverror.New(mverror.Rejected, "No email provided."))
	}
	if params.Password == "" {
		return c.JSON(http.StatusBadRequest, mverror.New(mverror.Rejected, "No password provided."))
	}

	service := service.NewUser(h.db, h.sessions)
	register, err := service.Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, register)
}

///// Login
////
//

// Login authenticates a user and returns an opaque access token.
func (h *auth) Login(c echo.Context) error {
	// Filter params
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		c.Logger().Warn("Could not get parameters: ", err)
		return c.JSON(http.StatusBadRequest, mverror.New(mverror.Rejected, "Could not get credentials."))
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Username == "" || params.Password == "" {
		return c.JSON(http.StatusBadRequest, mverror.New(mverror.Rejected, "No email or password provided."))
	}

	service := service.NewUser(h.db, h.sessions)
	login, err := service.Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}

///// Logout
////
//

// Logout terminates the current session.
func (h *auth) Logout(c echo.Context) error {
	if session := currentSession(c); session != nil {
		if err := h.sessions.Revoke(session); err != nil {
			return err
		}
	}

	return c.NoContent(http.StatusNoContent)
}
