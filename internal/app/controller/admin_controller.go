package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/app/view"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	apperrors "github.com/cuckooblock/vendor-portal/internal/errors"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	accessService service.AccessService
	reviewService service.ReviewService
}

func NewAdminController(accessService service.AccessService, reviewService service.ReviewService) *AdminController {
	return &AdminController{
		accessService: accessService,
		reviewService: reviewService,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

// load builds the admin page state. The vendor list is only requested once
// the caller's role resolved to admin.
func (ctrl *AdminController) load(c *gin.Context, state view.AdminState) view.AdminState {
	log := middleware.GetLoggerFromContext(c)
	ctx := c.Request.Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return view.ReduceAdmin(state, view.AdminSessionMissing{})
	}
	email, _ := middleware.GetUserEmail(c)

	role, err := ctrl.accessService.ResolveRole(ctx, userID)
	if err != nil {
		log.Warn("Admin role lookup failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return view.ReduceAdmin(state, view.RoleLookupFailed{Email: email, Err: err.Error()})
	}

	state = view.ReduceAdmin(state, view.RoleResolved{Email: email, Role: role})
	if !state.Authorized {
		return state
	}

	vendors, err := ctrl.reviewService.ListVendors(ctx, userID)
	if err != nil {
		log.Error("Failed to list vendors", err)
		return view.ReduceAdmin(state, view.VendorsLoadFailed{Err: apperrors.ParseError(err, "list vendors").Message})
	}
	return view.ReduceAdmin(state, view.VendorsLoaded{Vendors: vendors})
}

// applyStatus records a review decision and returns the admin message for it.
func (ctrl *AdminController) applyStatus(c *gin.Context, vendorID, status string) (string, error) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	state := view.NewAdminState()
	vendor, err := ctrl.reviewService.SetStatus(c.Request.Context(), userID, vendorID, status)
	if err != nil {
		log.Warn("Vendor status update failed", map[string]interface{}{
			"vendor_id": vendorID,
			"status":    status,
			"error":     err.Error(),
		})
		state = view.ReduceAdmin(state, view.StatusUpdateFailed{Err: apperrors.ParseError(err, "update vendor status").Message})
	} else {
		state = view.ReduceAdmin(state, view.StatusUpdated{VendorID: vendor.ID, Status: workflow.Status(vendor.Status)})
	}
	return state.Message, err
}

// setStatus applies a review decision and reloads the list from the store.
func (ctrl *AdminController) setStatus(c *gin.Context, vendorID, status string) (view.AdminState, error) {
	message, err := ctrl.applyStatus(c, vendorID, status)
	reloaded := ctrl.load(c, view.NewAdminState())
	if reloaded.Authorized && reloaded.Message == "" {
		reloaded.Message = message
	}
	return reloaded, err
}

// Page renders the admin review page
// GET /admin
func (ctrl *AdminController) Page(c *gin.Context) {
	state := ctrl.load(c, view.NewAdminState())
	if state.Redirect != "" {
		c.Redirect(http.StatusSeeOther, state.Redirect)
		return
	}
	if flash := c.Query("flash"); flash != "" && state.Authorized && state.Message == "" {
		state.Message = flash
	}
	c.HTML(http.StatusOK, "admin.html", state)
}

// SetStatusPage handles an approve / needs-changes / reject button and
// redirects back to the admin page so a reload never repeats the decision.
// POST /admin/vendors/:id/status
func (ctrl *AdminController) SetStatusPage(c *gin.Context) {
	message, _ := ctrl.applyStatus(c, c.Param("id"), c.PostForm("status"))
	c.Redirect(http.StatusSeeOther, "/admin?flash="+url.QueryEscape(message))
}

// ListVendors returns every vendor profile, newest first
// GET /api/v1/admin/vendors
func (ctrl *AdminController) ListVendors(c *gin.Context) {
	state := ctrl.load(c, view.NewAdminState())
	if !state.Authorized {
		respondAccess(c, state.Message)
		return
	}
	if state.Message != "" {
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalDatabaseError, state.Message)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vendors": state.Rows,
		"count":   len(state.Rows),
	})
}

// respondAccess maps a denied admin state to a 403.
func respondAccess(c *gin.Context, message string) {
	if message == view.MsgAccessDenied {
		apperrors.Forbidden(c, apperrors.AuthzAdminOnly, message)
		return
	}
	apperrors.Forbidden(c, apperrors.AuthzRoleLookupFailed, message)
}

// UpdateStatus records a review decision
// PUT /api/v1/admin/vendors/:id/status
func (ctrl *AdminController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid status update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}

	vendorID := c.Param("id")
	state, err := ctrl.setStatus(c, vendorID, req.Status)
	if err != nil {
		message := fmt.Sprintf("Update error: %s", apperrors.ParseError(err, "update vendor status").Message)
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			apperrors.Forbidden(c, apperrors.AuthzAdminOnly, view.MsgAccessDenied)
		case errors.Is(err, service.ErrRoleLookup):
			apperrors.Forbidden(c, apperrors.AuthzRoleLookupFailed, fmt.Sprintf("Profile error: %s", err.Error()))
		case errors.Is(err, service.ErrInvalidStatus):
			apperrors.BadRequest(c, apperrors.VendorInvalidStatus, message)
		case errors.Is(err, service.ErrProfileNotFound):
			apperrors.NotFound(c, apperrors.VendorNotFound, message)
		default:
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalDatabaseError, message)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": state.Message,
		"vendors": state.Rows,
	})
}

// ExportVendors downloads every vendor profile as a spreadsheet
// GET /api/v1/admin/vendors/export
func (ctrl *AdminController) ExportVendors(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	data, err := ctrl.reviewService.ExportVendors(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			apperrors.Forbidden(c, apperrors.AuthzAdminOnly, view.MsgAccessDenied)
		case errors.Is(err, service.ErrRoleLookup):
			apperrors.Forbidden(c, apperrors.AuthzRoleLookupFailed, fmt.Sprintf("Profile error: %s", err.Error()))
		default:
			log.Error("Failed to export vendors", err)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export vendors")
		}
		return
	}

	filename := fmt.Sprintf("vendors-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
