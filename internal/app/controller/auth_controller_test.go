package controller

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_SignUp_RoutesToVendor(t *testing.T) {
	app := setupApp(t)

	w := app.jsonRequest(http.MethodPost, "/api/v1/auth/signup", "", CredentialsRequest{
		Email:    "new@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Role: vendor. Routing...", body["status"])
	assert.Equal(t, false, body["notice"])
	nav := body["navigation"].(map[string]interface{})
	assert.Equal(t, "/vendor", nav["path"])
	assert.EqualValues(t, 150, nav["fallback_after_ms"])
	assert.NotNil(t, body["session"])
}

func TestAuthController_SignUp_DuplicateEmail(t *testing.T) {
	app := setupApp(t)
	app.signUp(t, "taken@example.com", false)

	w := app.jsonRequest(http.MethodPost, "/api/v1/auth/signup", "", CredentialsRequest{
		Email:    "taken@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_EMAIL_EXISTS", decodeBody(t, w)["error"])
}

func TestAuthController_SignIn(t *testing.T) {
	tests := []struct {
		name       string
		admin      bool
		dropRole   bool
		password   string
		wantCode   int
		wantPath   string
		wantNotice bool
		wantStatus string
	}{
		{
			name:       "admin goes to admin view",
			admin:      true,
			password:   "password123",
			wantCode:   http.StatusOK,
			wantPath:   "/admin",
			wantStatus: "Role: admin. Routing...",
		},
		{
			name:       "vendor goes to vendor view",
			password:   "password123",
			wantCode:   http.StatusOK,
			wantPath:   "/vendor",
			wantStatus: "Role: vendor. Routing...",
		},
		{
			name:       "role lookup failure still routes to vendor view",
			dropRole:   true,
			password:   "password123",
			wantCode:   http.StatusOK,
			wantPath:   "/vendor",
			wantNotice: true,
			wantStatus: "Role lookup failed (record not found). Sending to Vendor Intake...",
		},
		{
			name:     "wrong password",
			password: "wrong-password",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(t)
			userID, _ := app.signUp(t, "user@example.com", tt.admin)
			if tt.dropRole {
				app.dropProfile(t, userID)
			}

			w := app.jsonRequest(http.MethodPost, "/api/v1/auth/signin", "", CredentialsRequest{
				Email:    "user@example.com",
				Password: tt.password,
			})

			require.Equal(t, tt.wantCode, w.Code)
			body := decodeBody(t, w)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, "AUTH_INVALID_CREDENTIALS", body["error"])
				return
			}
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, tt.wantNotice, body["notice"])
			assert.Equal(t, tt.wantPath, body["navigation"].(map[string]interface{})["path"])
		})
	}
}

func TestAuthController_SignOut_RevokesSession(t *testing.T) {
	app := setupApp(t)
	_, token := app.signUp(t, "user@example.com", false)

	w := app.jsonRequest(http.MethodGet, "/api/v1/auth/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decodeBody(t, w)["session"].(map[string]interface{})
	assert.Equal(t, "user@example.com", session["email"])

	w = app.jsonRequest(http.MethodPost, "/api/v1/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login", decodeBody(t, w)["navigation"].(map[string]interface{})["path"])

	w = app.jsonRequest(http.MethodGet, "/api/v1/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_TOKEN_REVOKED", decodeBody(t, w)["error"])
}

func TestAuthController_LoginSubmit_RedirectsAndSetsCookie(t *testing.T) {
	app := setupApp(t)
	app.signUp(t, "admin@example.com", true)

	w := app.formRequest("/login", "", url.Values{
		"action":   {"signin"},
		"email":    {"admin@example.com"},
		"password": {"password123"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthController_LoginSubmit_RoleLookupNotice(t *testing.T) {
	app := setupApp(t)
	userID, _ := app.signUp(t, "user@example.com", false)
	app.dropProfile(t, userID)

	w := app.formRequest("/login", "", url.Values{
		"action":   {"signin"},
		"email":    {"user@example.com"},
		"password": {"password123"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Role lookup failed (record not found). Sending to Vendor Intake...")
	assert.Contains(t, w.Body.String(), `content="0.15;url=/vendor"`)
}

func TestAuthController_LoginSubmit_Error(t *testing.T) {
	app := setupApp(t)

	w := app.formRequest("/login", "", url.Values{
		"action":   {"signin"},
		"email":    {"nobody@example.com"},
		"password": {"password123"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Error: ")
}

func TestAuthController_LoginPage(t *testing.T) {
	app := setupApp(t)
	_, token := app.signUp(t, "user@example.com", false)

	w := app.pageRequest("/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<form")

	w = app.pageRequest("/login", token)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/vendor", w.Header().Get("Location"))

	w = app.pageRequest("/login", "stale-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Session error")
}

func TestAuthController_Logout(t *testing.T) {
	app := setupApp(t)
	_, token := app.signUp(t, "user@example.com", false)

	w := app.formRequest("/logout", token, url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = app.pageRequest("/vendor", token)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
