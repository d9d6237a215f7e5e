package serializer

import (
	"path"

	"github.com/mdouchement/medvault/internal/model"
)

// Record serializes the render of a record.
// prefix is the route prefix of the records used to build the files' URL.
func Record(prefix string, m *model.Record) map[string]any {
	files := make([]map[string]any, len(m.Files))
	for i, f := range m.Files {
		files[i] = map[string]any{
			"_id":          f.ID,
			"originalname": f.OriginalName,
			"mimetype":     f.MimeType,
			"size":         f.Size,
			"url":          path.Join(prefix, m.ID, "files", f.ID),
		}
	}

	return map[string]any{
		"_id":          m.ID,
		"createdAt":    m.CreatedAt.UTC(),
		"user_id":      m.UserID,
		"title":        m.Title,
		"category":     m.Category,
		"date":         m.Date,
		"doctor":       m.Doctor,
		"hospital":     m.Hospital,
		"location":     m.Location,
		"symptoms":     m.Symptoms,
		"diagnosis":    m.Diagnosis,
		"prescription": m.Prescription,
		"bp":           m.BloodPressure,
		"weight":       m.Weight,
		"followUpDate": m.FollowUpDate,
		"notes":        m.Notes,
		"files":        files,
	}
}

// Records serializes the render of records.
func Records(prefix string, m []*model.Record) []map[string]any {
	records := make([]map[string]any, len(m))
	for i, r := range m {
		records[i] = Record(prefix, r)
	}
	return records
}
