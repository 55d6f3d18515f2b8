package controller

import (
	"net/http"

	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

type IntakeController struct {
	intakeService service.IntakeService
}

func NewIntakeController(intakeService service.IntakeService) *IntakeController {
	return &IntakeController{intakeService: intakeService}
}

// Submit accepts the public intake form. Missing or unreadable fields are
// treated as empty strings.
// POST /api/intake
func (ctrl *IntakeController) Submit(c *gin.Context) {
	var input service.IntakeInput
	if err := c.ShouldBind(&input); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Intake form could not be fully parsed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	payload := ctrl.intakeService.Submit(c.Request.Context(), input)
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"payload": payload,
	})
}

// Page renders the public intake form
// GET /intake
func (ctrl *IntakeController) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "intake.html", nil)
}
