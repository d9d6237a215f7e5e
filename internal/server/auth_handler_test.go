package server_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/mdouchement/medvault/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestRequestRegistration(t *testing.T) {
	engine, ctrl, r := setup(t)

	params := gofight.H{
		"full_name": "George Abitbol",
	}
	r.POST("/auth/medvault/register").SetForm(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"message":"No email provided."}`, r.Body.String())
	})

	params["email"] = "George.Abitbol@nowhere.lan"
	r.POST("/auth/medvault/register").SetForm(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"message":"No password provided."}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/auth/medvault/register").SetForm(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)

		assert.Equal(t, "Registered", string(v.GetStringBytes("message")))
		assert.Regexp(t, `^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-4[a-fA-F0-9]{3}-[8|9|aA|bB][a-fA-F0-9]{3}-[a-fA-F0-9]{12}$`, string(v.GetStringBytes("user", "id")))
		assert.Equal(t, "george.abitbol@nowhere.lan", string(v.GetStringBytes("user", "email")))
		assert.Equal(t, "George Abitbol", string(v.GetStringBytes("user", "full_name")))
		assert.Nil(t, v.Get("user", "password"))
	})

	user, err := ctrl.Database.FindUserByMail("george.abitbol@nowhere.lan")
	assert.NoError(t, err)
	assert.NotEqual(t, "password42", user.Password)

	r.POST("/auth/medvault/register").SetForm(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusConflict, r.Code)
		assert.JSONEq(t, `{"message":"This email is already registered."}`, r.Body.String())
	})
}

func TestRequestRegistration_Disabled(t *testing.T) {
	_, ctrl, r := setup(t)
	ctrl.NoRegistration = true
	engine := server.EchoEngine(ctrl)

	r.POST("/auth/medvault/register").SetForm(gofight.H{"email": "a@b.c", "password": "pw"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.NotEqual(t, http.StatusCreated, r.Code)
	})
}

func TestRequestLogin(t *testing.T) {
	engine, ctrl, r := setup(t)
	user := createUser(t, ctrl)

	r.POST("/auth/medvault/login").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"message":"Could not get credentials."}`, r.Body.String())
	})

	params := gofight.H{
		"username": "george.abitbol@nowhere.lan",
		"password": "",
	}
	r.POST("/auth/medvault/login").SetForm(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"message":"No email or password provided."}`, r.Body.String())
	})

	params["password"] = "wrong"
	r.POST("/auth/medvault/login").SetForm(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"message":"Invalid email or password."}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/auth/medvault/login").SetForm(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)

		assert.Equal(t, user.ID, string(v.GetStringBytes("user", "id")))
		assert.Equal(t, user.Email, string(v.GetStringBytes("user", "email")))
		assert.Len(t, v.GetStringBytes("access_token"), 32)

		session, err := ctrl.Database.FindSessionByAccessToken(string(v.GetStringBytes("access_token")))
		assert.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpireAt, time.Minute)
	})
}

func TestRequestLogout(t *testing.T) {
	engine, ctrl, r := setup(t)
	_, session := createUserWithSession(t, ctrl, time.Hour)

	r.POST("/auth/medvault/logout").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"message":"Invalid login credentials."}`, r.Body.String())
	})

	r.POST("/auth/medvault/logout").SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	r.POST("/auth/medvault/logout").SetHeader(bearer(session)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})
}
