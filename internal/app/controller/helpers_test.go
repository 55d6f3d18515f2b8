package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	"github.com/cuckooblock/vendor-portal/internal/db"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/cuckooblock/vendor-portal/internal/web"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/cuckooblock/vendor-portal/pkg/redis"
	"github.com/cuckooblock/vendor-portal/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecret = "controller-test-secret"
	testCookie = "vendor_portal_session"
)

func init() {
	util.PasswordCost = bcrypt.MinCost
}

type countingVendorRepo struct {
	repository.VendorRepository
	mu        sync.Mutex
	listCalls int
}

func (r *countingVendorRepo) List(ctx context.Context, filter repository.VendorFilter) ([]model.VendorProfile, error) {
	r.mu.Lock()
	r.listCalls++
	r.mu.Unlock()
	return r.VendorRepository.List(ctx, filter)
}

func (r *countingVendorRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

type capturedEvents struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *capturedEvents) PublishToUser(_ string, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturedEvents) PublishToAdmins(event websocket.Event) {
	p.PublishToUser("", event)
}

type testApp struct {
	engine  *gin.Engine
	db      *gorm.DB
	auth    service.AuthService
	access  service.AccessService
	vendors *countingVendorRepo
	events  *capturedEvents
	mw      *middleware.AuthMiddleware
}

// setupApp wires the real services against an in-memory database and mounts
// the vendor, admin and login routes the way the server does.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	accounts := repository.NewAccountRepository(testDB)
	profiles := repository.NewProfileRepository(testDB)
	vendors := &countingVendorRepo{VendorRepository: repository.NewVendorRepository(testDB)}
	events := &capturedEvents{}

	authService := service.NewAuthService(accounts, profiles, redis.NewMemoryTokenStore(), testSecret, time.Hour)
	accessService := service.NewAccessService(profiles)
	vendorService := service.NewVendorService(vendors, events)
	reviewService := service.NewReviewService(vendors, accessService, events)

	authCtrl := NewAuthController(authService, accessService, CookieSettings{Name: testCookie})
	vendorCtrl := NewVendorController(vendorService)
	adminCtrl := NewAdminController(accessService, reviewService)
	mw := middleware.NewAuthMiddleware(authService, testCookie)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.GET("/login", mw.OptionalAuthenticate(), authCtrl.LoginPage)
	router.POST("/login", authCtrl.LoginSubmit)
	router.POST("/logout", mw.OptionalAuthenticate(), authCtrl.Logout)

	vendor := router.Group("/vendor", mw.RequirePageSession())
	vendor.GET("", vendorCtrl.Page)
	vendor.POST("/draft", vendorCtrl.SaveDraftPage)
	vendor.POST("/submit", vendorCtrl.SubmitPage)

	admin := router.Group("/admin", mw.RequirePageSession())
	admin.GET("", adminCtrl.Page)
	admin.POST("/vendors/:id/status", adminCtrl.SetStatusPage)

	api := router.Group("/api/v1")
	api.POST("/auth/signup", authCtrl.SignUp)
	api.POST("/auth/signin", authCtrl.SignIn)
	api.GET("/auth/session", mw.Authenticate(), authCtrl.GetSession)
	api.POST("/auth/signout", mw.Authenticate(), authCtrl.SignOut)

	vendorAPI := api.Group("/vendor", mw.Authenticate())
	vendorAPI.GET("/profile", vendorCtrl.GetProfile)
	vendorAPI.PUT("/profile/draft", vendorCtrl.SaveDraft)
	vendorAPI.POST("/profile/submit", vendorCtrl.Submit)

	adminAPI := api.Group("/admin", mw.Authenticate())
	adminAPI.GET("/vendors", adminCtrl.ListVendors)
	adminAPI.GET("/vendors/export", adminCtrl.ExportVendors)
	adminAPI.PUT("/vendors/:id/status", adminCtrl.UpdateStatus)

	return &testApp{
		engine:  router,
		db:      testDB,
		auth:    authService,
		access:  accessService,
		vendors: vendors,
		events:  events,
		mw:      mw,
	}
}

// signUp creates an account and returns its id and session token.
func (a *testApp) signUp(t *testing.T, email string, admin bool) (string, string) {
	t.Helper()
	account, token, err := a.auth.SignUp(context.Background(), email, "password123")
	require.NoError(t, err)
	if admin {
		require.NoError(t, a.access.PromoteToAdmin(context.Background(), account.ID))
	}
	return account.ID, token.AccessToken
}

func (a *testApp) dropProfile(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, a.db.Where("id = ?", userID).Delete(&model.UserProfile{}).Error)
}

func (a *testApp) seedVendor(t *testing.T, ownerID, legalName string, status workflow.Status) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, a.db.Create(&model.VendorProfile{
		ID:          ownerID,
		OwnerUserID: ownerID,
		LegalName:   legalName,
		Status:      string(status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error)
}

func (a *testApp) jsonRequest(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) formRequest(path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) pageRequest(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
