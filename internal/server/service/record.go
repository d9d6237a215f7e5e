package service

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/model"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/pkg/errors"
)

type (
	// A RecordService handles the medical records.
	RecordService interface {
		Create(user *model.User, params CreateRecordParams, files []*multipart.FileHeader) (*model.Record, error)
		List(user *model.User, userID string) ([]*model.Record, error)
	}

	// CreateRecordParams are the multipart fields used to create a record.
	CreateRecordParams struct {
		Params
		UserID        string `form:"user_id"`
		Title         string `form:"title"`
		Category      string `form:"category"`
		Date          string `form:"date"`
		Doctor        string `form:"doctor"`
		Hospital      string `form:"hospital"`
		Location      string `form:"location"`
		Symptoms      string `form:"symptoms"`
		Diagnosis     string `form:"diagnosis"`
		Prescription  string `form:"prescription"`
		BloodPressure string `form:"bp"`
		Weight        string `form:"weight"`
		FollowUpDate  string `form:"followUpDate"`
		Notes         string `form:"notes"`
	}

	recordService struct {
		db        database.Client
		filesPath string
	}
)

// NewRecord returns a new RecordService storing attachments in filesPath.
func NewRecord(db database.Client, filesPath string) RecordService {
	return &recordService{
		db:        db,
		filesPath: filesPath,
	}
}

func (s *recordService) Create(user *model.User, params CreateRecordParams, files []*multipart.FileHeader) (*model.Record, error) {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Category) == "" {
		return nil, mverror.NewWithCode(http.StatusBadRequest, "Title and Category are required.")
	}
	if err := owner(user, params.UserID); err != nil {
		return nil, err
	}

	record := &model.Record{
		UserID:        user.ID,
		Title:         params.Title,
		Category:      params.Category,
		Date:          params.Date,
		Doctor:        params.Doctor,
		Hospital:      params.Hospital,
		Location:      params.Location,
		Symptoms:      params.Symptoms,
		Diagnosis:     params.Diagnosis,
		Prescription:  params.Prescription,
		BloodPressure: params.BloodPressure,
		Weight:        params.Weight,
		FollowUpDate:  params.FollowUpDate,
		Notes:         params.Notes,
	}

	for _, fh := range files {
		f, err := s.store(user, fh)
		if err != nil {
			s.cleanup(record)
			return nil, err
		}
		record.Files = append(record.Files, f)
	}

	// Persist the model
	if err := s.db.Save(record); err != nil {
		s.cleanup(record)
		return nil, errors.Wrap(err, "could not persist record")
	}
	return record, nil
}

func (s *recordService) List(user *model.User, userID string) ([]*model.Record, error) {
	if err := owner(user, userID); err != nil {
		return nil, err
	}
	return s.db.FindRecordsByUserID(user.ID)
}

func (s *recordService) store(user *model.User, fh *multipart.FileHeader) (model.File, error) {
	f := model.File{
		ID:           uuid.Must(uuid.NewV4()).String(),
		OriginalName: filepath.Base(fh.Filename),
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         fh.Size,
	}
	if f.MimeType == "" {
		f.MimeType = "application/octet-stream"
	}
	f.Path = filepath.Join(s.filesPath, user.ID, f.ID)

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return f, errors.Wrap(err, "could not create files directory")
	}

	src, err := fh.Open()
	if err != nil {
		return f, errors.Wrapf(err, "could not open %s", f.OriginalName)
	}
	defer src.Close()

	return f, errors.Wrapf(write(f.Path, src), "could not store %s", f.OriginalName)
}

// write copies src into a new file at path.
// A partially written file is removed.
func write(path string, src io.Reader) (err error) {
	dst, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create file")
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return errors.Wrap(err, "could not copy file")
	}
	return errors.Wrap(dst.Sync(), "could not sync file")
}

func (s *recordService) cleanup(record *model.Record) {
	for _, f := range record.Files {
		os.Remove(f.Path)
	}
}

func owner(user *model.User, userID string) error {
	if userID != user.ID {
		return mverror.NewWithCode(http.StatusForbidden, "You can only access your own records.")
	}
	return nil
}
