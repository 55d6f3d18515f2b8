package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Pinger checks the record store is reachable.
type Pinger func(ctx context.Context) error

type PageController struct {
	ping Pinger
}

func NewPageController(ping Pinger) *PageController {
	return &PageController{ping: ping}
}

// Home renders the landing page
// GET /
func (ctrl *PageController) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

type diagnostics struct {
	Status string `json:"status"`
	Email  string `json:"email,omitempty"`
}

// Diagnostics fetches the current session, if any, and pings the store
// GET /test
func (ctrl *PageController) Diagnostics(c *gin.Context) {
	d := diagnostics{Status: "Connected. Session fetched."}

	if err := middleware.GetSessionError(c); err != nil {
		d.Status = err.Error()
	} else if email, ok := middleware.GetUserEmail(c); ok {
		d.Email = email
	}

	if d.Status == "Connected. Session fetched." {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := ctrl.ping(ctx); err != nil {
			middleware.GetLoggerFromContext(c).Error("Store ping failed", err)
			d.Status = err.Error()
		}
	}

	c.HTML(http.StatusOK, "test.html", d)
}

// Health reports liveness
// GET /health
func (ctrl *PageController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Vendor portal is running",
	})
}
