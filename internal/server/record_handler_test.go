package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/mdouchement/medvault/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func multipartRecord(t *testing.T, draft vault.Record, userID string) (string, gofight.H) {
	payload, err := vault.NewBuilder(nil).Build(draft, userID)
	require.NoError(t, err)

	return payload.Body.String(), gofight.H{
		"Content-Type": payload.ContentType,
	}
}

func TestRequestCreateRecord(t *testing.T) {
	engine, ctrl, r := setup(t)
	user, session := createUserWithSession(t, ctrl, time.Hour)

	scan := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(scan, []byte("%PDF-1.4"), 0o600))

	draft := vault.Record{Title: "MRI", Category: "Imaging", BloodPressure: "120/80"}
	draft.Attach(vault.AttachmentRef{URI: scan, MimeType: "application/pdf", DisplayName: "scan.pdf"})
	body, headers := multipartRecord(t, draft, user.ID)

	r.POST("/documents/medvault/med_records/").SetHeader(headers).SetBody(body).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})

	headers["Authorization"] = "Bearer " + session.AccessToken
	var fileURL string
	r.POST("/documents/medvault/med_records/").SetHeader(headers).SetBody(body).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)

		assert.NotEmpty(t, v.GetStringBytes("data", "_id"))
		assert.Equal(t, user.ID, string(v.GetStringBytes("data", "user_id")))
		assert.Equal(t, "MRI", string(v.GetStringBytes("data", "title")))
		assert.Equal(t, "120/80", string(v.GetStringBytes("data", "bp")))
		assert.Equal(t, "scan.pdf", string(v.GetStringBytes("data", "files", "0", "originalname")))
		assert.Equal(t, "application/pdf", string(v.GetStringBytes("data", "files", "0", "mimetype")))
		assert.Equal(t, 8, v.GetInt("data", "files", "0", "size"))
		fileURL = string(v.GetStringBytes("data", "files", "0", "url"))
	})

	r.GET(fileURL).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.Equal(t, "%PDF-1.4", r.Body.String())
		assert.Equal(t, "application/pdf", (*httptest.ResponseRecorder)(r).Header().Get("Content-Type"))
	})
}

func TestRequestCreateRecord_Invalid(t *testing.T) {
	engine, ctrl, r := setup(t)
	user, session := createUserWithSession(t, ctrl, time.Hour)

	body, headers := multipartRecord(t, vault.Record{Title: "MRI", Category: "Imaging"}, "someone-else")
	headers["Authorization"] = "Bearer " + session.AccessToken
	r.POST("/documents/medvault/med_records/").SetHeader(headers).SetBody(body).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusForbidden, r.Code)
		assert.JSONEq(t, `{"message":"You can only access your own records."}`, r.Body.String())
	})

	// Built by hand since the client refuses blank titles.
	body = "--xyz\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\n  \r\n" +
		"--xyz\r\nContent-Disposition: form-data; name=\"category\"\r\n\r\nLab\r\n" +
		"--xyz\r\nContent-Disposition: form-data; name=\"user_id\"\r\n\r\n" + user.ID + "\r\n--xyz--\r\n"
	headers["Content-Type"] = "multipart/form-data; boundary=xyz"
	r.POST("/documents/medvault/med_records/").SetHeader(headers).SetBody(body).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"message":"Title and Category are required."}`, r.Body.String())
	})
}

func TestRequestCreateRecord_Expired(t *testing.T) {
	engine, ctrl, r := setup(t)
	user, session := createUserWithSession(t, ctrl, -time.Minute)

	body, headers := multipartRecord(t, vault.Record{Title: "MRI", Category: "Imaging"}, user.ID)
	headers["Authorization"] = "Bearer " + session.AccessToken
	r.POST("/documents/medvault/med_records/").SetHeader(headers).SetBody(body).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, 498, r.Code)
		assert.JSONEq(t, `{"message":"The provided access token has expired."}`, r.Body.String())
	})
}

func TestRequestListRecords(t *testing.T) {
	engine, ctrl, r := setup(t)
	user, session := createUserWithSession(t, ctrl, time.Hour)

	r.GET("/documents/medvault/med_records?user_id="+user.ID).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"data":[]}`, r.Body.String())
	})

	for _, title := range []string{"First", "Second"} {
		body, headers := multipartRecord(t, vault.Record{Title: title, Category: "Lab"}, user.ID)
		headers["Authorization"] = "Bearer " + session.AccessToken
		r.POST("/documents/medvault/med_records/").SetHeader(headers).SetBody(body).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusCreated, r.Code)
		})
		time.Sleep(time.Millisecond)
	}

	r.GET("/documents/medvault/med_records?user_id="+user.ID).SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)

		records := v.GetArray("data")
		require.Len(t, records, 2)
		assert.Equal(t, "Second", string(records[0].GetStringBytes("title")))
		assert.Equal(t, "First", string(records[1].GetStringBytes("title")))
		assert.Empty(t, records[0].GetArray("files"))
	})

	r.GET("/documents/medvault/med_records?user_id=someone-else").SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusForbidden, r.Code)
	})
}
