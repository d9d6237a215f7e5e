package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/pkg/errors"
)

// HTTPErrorHandler is a middleware that formats rendered errors as `{"message": "..."}`.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		if herr.Internal != nil {
			c.Logger().Errorf("Error [ECHO]: %s", herr.Internal)
		}
		_ = c.JSON(herr.Code, echo.Map{
			"message": fmt.Sprint(herr.Message),
		})
		return
	}

	var mverr *mverror.Error
	if errors.As(err, &mverr) {
		if status := mverror.StatusCode(mverr); status < 500 {
			_ = c.JSON(status, mverr)
			return
		}
	}

	internal(err, c)
}

func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	c.Logger().Errorf("Error [%s]: %+v", id, err)

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"message": fmt.Sprintf("Unexpected error (id: %s)", id),
	})
}
