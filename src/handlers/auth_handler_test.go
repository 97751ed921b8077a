package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"
)

var testIssuer = handlers.TokenIssuer{
	Secret: []byte("0123456789abcdef0123456789abcdef"),
	TTL:    time.Hour,
}

const strongPassword = "Correct$Horse9Battery"

func signup(t *testing.T, users *memUsers, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handlers.Signup(users, testIssuer)(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", stringsReader(body)))
	return rec
}

func TestSignup(t *testing.T) {
	users := newMemUsers()

	rec := signup(t, users, `{"name":"Ada Lovelace","email":" Ada@Example.com ","password":"`+strongPassword+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	claims, err := middleware.ParseTokenFromRequest(req, testIssuer.Secret)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	rec = signup(t, users, `{"name":"Ada Again","email":"ada@example.com","password":"`+strongPassword+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "short name", body: `{"name":"A","email":"a@example.com","password":"` + strongPassword + `"}`},
		{name: "bad email", body: `{"name":"Ada","email":"not-an-email","password":"` + strongPassword + `"}`},
		{name: "weak password", body: `{"name":"Ada","email":"a@example.com","password":"short"}`},
		{name: "malformed", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := signup(t, newMemUsers(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignup_PasswordDetails(t *testing.T) {
	rec := signup(t, newMemUsers(), `{"name":"Ada","email":"a@example.com","password":"alllowercase"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Password does not meet requirements", body["error"])
	assert.Len(t, body["details"], 3)
}

func TestSignin(t *testing.T) {
	users := newMemUsers()
	require.Equal(t, http.StatusCreated, signup(t, users, `{"name":"Ada","email":"ada@example.com","password":"`+strongPassword+`"}`).Code)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"email":"ADA@example.com","password":"` + strongPassword + `"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"email":"ada@example.com","password":"Wrong$Horse9Battery"}`, wantStatus: http.StatusUnauthorized},
		{name: "unknown email", body: `{"email":"bob@example.com","password":"` + strongPassword + `"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing fields", body: `{"email":""}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.Signin(users, testIssuer)(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signin", stringsReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, []int64{1}, users.logins)
}

func TestGetUser(t *testing.T) {
	users := newMemUsers()
	require.Equal(t, http.StatusCreated, signup(t, users, `{"name":"Ada","email":"ada@example.com","password":"`+strongPassword+`"}`).Code)

	rec := httptest.NewRecorder()
	handlers.GetUser(users)(rec, authedRequest(http.MethodGet, "/api/user", "", 1))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	handlers.GetUser(users)(rec, authedRequest(http.MethodGet, "/api/user", "", 99))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
