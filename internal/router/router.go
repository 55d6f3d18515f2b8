package router

import (
	"fmt"

	"github.com/cuckooblock/vendor-portal/config"
	"github.com/cuckooblock/vendor-portal/internal/app/controller"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	"github.com/cuckooblock/vendor-portal/internal/metrics"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/cuckooblock/vendor-portal/internal/web"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController       *controller.AuthController
	vendorController     *controller.VendorController
	adminController      *controller.AdminController
	intakeController     *controller.IntakeController
	attachmentController *controller.AttachmentController
	websocketController  *controller.WebSocketController
	pageController       *controller.PageController
	authMiddleware       *middleware.AuthMiddleware
	roles                middleware.RoleResolver
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	vendorController *controller.VendorController,
	adminController *controller.AdminController,
	intakeController *controller.IntakeController,
	attachmentController *controller.AttachmentController,
	websocketController *controller.WebSocketController,
	pageController *controller.PageController,
	authMiddleware *middleware.AuthMiddleware,
	roles middleware.RoleResolver,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		vendorController:     vendorController,
		adminController:      adminController,
		intakeController:     intakeController,
		attachmentController: attachmentController,
		websocketController:  websocketController,
		pageController:       pageController,
		authMiddleware:       authMiddleware,
		roles:                roles,
		config:               cfg,
	}
}

func (r *Router) Setup() (*gin.Engine, error) {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", r.pageController.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Pages
	router.GET("/", r.pageController.Home)
	router.GET("/test", r.authMiddleware.OptionalAuthenticate(), r.pageController.Diagnostics)
	router.GET("/intake", r.intakeController.Page)

	router.GET("/login", r.authMiddleware.OptionalAuthenticate(), r.authController.LoginPage)
	router.POST("/login", r.authController.LoginSubmit)
	router.POST("/logout", r.authMiddleware.OptionalAuthenticate(), r.authController.Logout)

	vendor := router.Group("/vendor")
	vendor.Use(r.authMiddleware.RequirePageSession())
	{
		vendor.GET("", r.vendorController.Page)
		vendor.POST("/draft", r.vendorController.SaveDraftPage)
		vendor.POST("/submit", r.vendorController.SubmitPage)
	}

	admin := router.Group("/admin")
	admin.Use(r.authMiddleware.RequirePageSession())
	{
		admin.GET("", r.adminController.Page)
		admin.POST("/vendors/:id/status", r.adminController.SetStatusPage)
	}

	// Public intake endpoint posted to by the landing page form
	router.POST("/api/intake", r.intakeController.Submit)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.authController.SignUp)
			auth.POST("/signin", r.authController.SignIn)
			auth.GET("/session", r.authMiddleware.Authenticate(), r.authController.GetSession)
			auth.POST("/signout", r.authMiddleware.Authenticate(), r.authController.SignOut)
		}

		vendorAPI := v1.Group("/vendor")
		vendorAPI.Use(r.authMiddleware.Authenticate())
		{
			vendorAPI.GET("/profile", r.vendorController.GetProfile)
			vendorAPI.PUT("/profile/draft", r.vendorController.SaveDraft)
			vendorAPI.POST("/profile/submit", r.vendorController.Submit)
			vendorAPI.POST("/attachments", r.attachmentController.PresignUpload)
		}

		adminAPI := v1.Group("/admin")
		adminAPI.Use(
			r.authMiddleware.Authenticate(),
			middleware.RequireRole(r.roles, workflow.RoleAdmin),
		)
		{
			adminAPI.GET("/vendors", r.adminController.ListVendors)
			adminAPI.GET("/vendors/export", r.adminController.ExportVendors)
			adminAPI.PUT("/vendors/:id/status", r.adminController.UpdateStatus)
		}

		v1.GET("/ws", r.authMiddleware.Authenticate(), r.websocketController.Connect)
	}

	return router, nil
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
