package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/app/view"
	apperrors "github.com/cuckooblock/vendor-portal/internal/errors"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/cuckooblock/vendor-portal/pkg/util"
	"github.com/gin-gonic/gin"
)

// CookieSettings controls the session cookie set by the HTML login flow.
type CookieSettings struct {
	Name   string
	Secure bool
}

type AuthController struct {
	authService   service.AuthService
	accessService service.AccessService
	cookie        CookieSettings
}

func NewAuthController(authService service.AuthService, accessService service.AccessService, cookie CookieSettings) *AuthController {
	return &AuthController{
		authService:   authService,
		accessService: accessService,
		cookie:        cookie,
	}
}

type CredentialsRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// routeByRole looks up the caller's role and sets the navigation target.
// A failed lookup still routes, to the vendor view, with a notice.
func (ctrl *AuthController) routeByRole(ctx context.Context, state view.LoginState, userID string) view.LoginState {
	role, err := ctrl.accessService.ResolveRole(ctx, userID)
	if err != nil {
		return view.ReduceLogin(state, view.RoleRouteFailed{Err: err.Error()})
	}
	return view.ReduceLogin(state, view.RoleRouted{Role: role})
}

// authenticate runs sign-in or sign-up and routes the result.
func (ctrl *AuthController) authenticate(ctx context.Context, signUp bool, req CredentialsRequest) (view.LoginState, *model.Account, *util.SessionToken, error) {
	var (
		account *model.Account
		token   *util.SessionToken
		err     error
	)

	state := view.NewLoginState()
	if signUp {
		state = view.ReduceLogin(state, view.SignUpStarted{Email: req.Email})
		account, token, err = ctrl.authService.SignUp(ctx, req.Email, req.Password)
	} else {
		state = view.ReduceLogin(state, view.SignInStarted{Email: req.Email})
		account, token, err = ctrl.authService.SignIn(ctx, req.Email, req.Password)
	}
	if err != nil {
		return view.ReduceLogin(state, view.AuthFailed{Err: err.Error()}), nil, nil, err
	}

	if signUp {
		state = view.ReduceLogin(state, view.SignedUp{UserID: account.ID})
	} else {
		state = view.ReduceLogin(state, view.SignedIn{UserID: account.ID})
	}
	if state.Failed || account.ID == "" {
		return state, account, token, nil
	}
	return ctrl.routeByRole(ctx, state, account.ID), account, token, nil
}

func respondAuthError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, message)
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, message)
	case errors.Is(err, util.ErrWeakPassword):
		apperrors.BadRequest(c, apperrors.AuthWeakPassword, message)
	case errors.Is(err, service.ErrInvalidEmail):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, message)
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "authenticate")
	}
}

func (ctrl *AuthController) handleCredentials(c *gin.Context, signUp bool) {
	log := middleware.GetLoggerFromContext(c)

	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid credentials request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	state, account, token, err := ctrl.authenticate(c.Request.Context(), signUp, req)
	if err != nil {
		respondAuthError(c, err, state.Status)
		return
	}

	status := http.StatusOK
	if signUp {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"user": gin.H{
			"id":    account.ID,
			"email": account.Email,
		},
		"session":    token,
		"status":     state.Status,
		"notice":     state.Notice,
		"navigation": state.Navigation,
	})
}

// SignUp creates an account and a session
// POST /api/v1/auth/signup
func (ctrl *AuthController) SignUp(c *gin.Context) {
	ctrl.handleCredentials(c, true)
}

// SignIn exchanges email and password for a session
// POST /api/v1/auth/signin
func (ctrl *AuthController) SignIn(c *gin.Context) {
	ctrl.handleCredentials(c, false)
}

// GetSession returns the current session
// GET /api/v1/auth/session
func (ctrl *AuthController) GetSession(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SignOut revokes the current session
// POST /api/v1/auth/signout
func (ctrl *AuthController) SignOut(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.authService.SignOut(c.Request.Context(), middleware.GetSessionToken(c)); err != nil {
		log.Error("Failed to sign out", err)
		apperrors.InternalError(c, "Failed to sign out")
		return
	}
	ctrl.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message":    "Signed out",
		"navigation": view.Navigation{Path: "/login", FallbackAfterMs: view.NavigationFallbackMs},
	})
}

func (ctrl *AuthController) setCookie(c *gin.Context, token *util.SessionToken) {
	maxAge := int(time.Until(token.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookie.Name, token.AccessToken, maxAge, "/", "", ctrl.cookie.Secure, true)
}

func (ctrl *AuthController) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.cookie.Name, "", -1, "/", "", ctrl.cookie.Secure, true)
}

// isStaleToken is true for tokens that are simply no longer usable, as
// opposed to a failure looking them up.
func isStaleToken(err error) bool {
	return errors.Is(err, util.ErrInvalidToken) ||
		errors.Is(err, util.ErrExpiredToken) ||
		errors.Is(err, service.ErrSessionRevoked)
}

// renderNavigation redirects straight away unless the state carries a
// notice, in which case the notice is shown with a delayed fallback.
func renderNavigation(c *gin.Context, state view.LoginState) {
	if state.Navigation == nil {
		c.HTML(http.StatusOK, "login.html", state)
		return
	}
	if state.Notice {
		c.HTML(http.StatusOK, "redirect.html", state)
		return
	}
	c.Redirect(http.StatusSeeOther, state.Navigation.Path)
}

// LoginPage renders the login form, or routes a live session by role
// GET /login
func (ctrl *AuthController) LoginPage(c *gin.Context) {
	state := view.NewLoginState()
	if err := middleware.GetSessionError(c); err != nil && !isStaleToken(err) {
		state = view.ReduceLogin(state, view.SessionLookupFailed{Err: err.Error()})
	}
	if userID, ok := middleware.GetUserID(c); ok {
		state = ctrl.routeByRole(c.Request.Context(), state, userID)
	}
	renderNavigation(c, state)
}

// LoginSubmit handles the login form; action selects signin or signup
// POST /login
func (ctrl *AuthController) LoginSubmit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	req := CredentialsRequest{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	signUp := c.PostForm("action") == "signup"

	state, _, token, err := ctrl.authenticate(c.Request.Context(), signUp, req)
	if err != nil {
		log.Warn("Login form rejected", map[string]interface{}{
			"email":  req.Email,
			"signup": signUp,
			"error":  err.Error(),
		})
		c.HTML(http.StatusOK, "login.html", state)
		return
	}
	if token != nil {
		ctrl.setCookie(c, token)
	}
	renderNavigation(c, state)
}

// Logout revokes the session cookie and returns to the login page
// POST /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	if token := middleware.GetSessionToken(c); token != "" {
		if err := ctrl.authService.SignOut(c.Request.Context(), token); err != nil {
			middleware.GetLoggerFromContext(c).Error("Failed to sign out", err)
		}
	}
	ctrl.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
