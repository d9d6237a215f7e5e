package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/server/serializer"
	"github.com/mdouchement/medvault/internal/server/service"
)

// record contains all medical record handlers.
type record struct {
	db      database.Client
	service service.RecordService
	prefix  string
}

///// Create
////
//

// Create stores a new record and its attachments sent as multipart/form-data.
func (h *record) Create(c echo.Context) error {
	user := currentUser(c)

	// Filter params
	var params service.CreateRecordParams
	if err := c.Bind(&params); err != nil {
		c.Logger().Warn("Could not get parameters: ", err)
		return c.JSON(http.StatusBadRequest, mverror.New(mverror.Rejected, "Could not get record's params."))
	}
	params.UserAgent = c.Request().UserAgent()
	params.Session = currentSession(c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, mverror.New(mverror.Rejected, "Could not read multipart form."))
	}

	record, err := h.service.Create(user, params, form.File["files"])
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Global(serializer.Record(h.prefix, record)))
}

///// List
////
//

// List returns the records of the current user, newest first.
func (h *record) List(c echo.Context) error {
	user := currentUser(c)

	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = user.ID
	}

	records, err := h.service.List(user, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Global(serializer.Records(h.prefix, records)))
}

///// File
////
//

// File sends the content of an attachment.
func (h *record) File(c echo.Context) error {
	user := currentUser(c)

	record, err := h.db.FindRecordByUserID(c.Param("id"), user.ID)
	if err != nil {
		if h.db.IsNotFound(err) {
			return mverror.NewWithCode(http.StatusNotFound, "Record not found.")
		}
		return err
	}

	file, ok := record.File(c.Param("file_id"))
	if !ok {
		return mverror.NewWithCode(http.StatusNotFound, "File not found.")
	}

	c.Response().Header().Set(echo.HeaderContentType, file.MimeType)
	return c.Attachment(file.Path, file.OriginalName)
}
