package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/app/view"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	apperrors "github.com/cuckooblock/vendor-portal/internal/errors"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

type VendorController struct {
	vendorService service.VendorService
}

func NewVendorController(vendorService service.VendorService) *VendorController {
	return &VendorController{vendorService: vendorService}
}

// vendorResponse is the JSON form of the vendor page.
type vendorResponse struct {
	view.VendorState
	CanSubmit  bool   `json:"can_submit"`
	SubmitHint string `json:"submit_hint,omitempty"`
}

func newVendorResponse(s view.VendorState) vendorResponse {
	return vendorResponse{VendorState: s, CanSubmit: s.CanSubmit(), SubmitHint: s.SubmitHint()}
}

// load builds the page state for the current session.
func (ctrl *VendorController) load(c *gin.Context) (view.VendorState, error) {
	state := view.NewVendorState()
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return view.ReduceVendor(state, view.SessionMissing{}), nil
	}
	email, _ := middleware.GetUserEmail(c)

	profile, err := ctrl.vendorService.Load(c.Request.Context(), userID)
	if err != nil {
		state.UserID = userID
		state.Email = email
		info := apperrors.ParseError(err, "load vendor profile")
		return view.ReduceVendor(state, view.LoadFailed{Err: info.Message}), err
	}
	return view.ReduceVendor(state, view.ProfileLoaded{UserID: userID, Email: email, Profile: profile}), nil
}

// save applies a save request to state. The form the user typed stays in
// state when the write fails.
func (ctrl *VendorController) save(ctx context.Context, state view.VendorState, form model.VendorForm, target workflow.Status) (view.VendorState, error) {
	state.Form = form
	state = view.ReduceVendor(state, view.SaveRequested{Target: target})
	if !state.Saving {
		return state, service.ErrLegalNameRequired
	}

	var (
		saved *model.VendorProfile
		err   error
	)
	if target == workflow.StatusSubmitted {
		saved, err = ctrl.vendorService.Submit(ctx, state.UserID, form)
	} else {
		saved, err = ctrl.vendorService.SaveDraft(ctx, state.UserID, form)
	}
	if err != nil {
		info := apperrors.ParseError(err, "save vendor profile")
		return view.ReduceVendor(state, view.SaveFailed{Err: info.Message}), err
	}
	return view.ReduceVendor(state, view.SaveSucceeded{Profile: saved}), nil
}

// GetProfile returns the caller's own profile as an editable form
// GET /api/v1/vendor/profile
func (ctrl *VendorController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	state, err := ctrl.load(c)
	if state.Redirect != "" {
		apperrors.Unauthorized(c, "")
		return
	}
	if err != nil {
		log.Error("Failed to load vendor profile", err, map[string]interface{}{
			"user_id": state.UserID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalDatabaseError, state.Message)
		return
	}
	c.JSON(http.StatusOK, newVendorResponse(state))
}

func (ctrl *VendorController) saveJSON(c *gin.Context, target workflow.Status) {
	log := middleware.GetLoggerFromContext(c)

	var form model.VendorForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Warn("Invalid vendor form", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid vendor form")
		return
	}

	userID, _ := middleware.GetUserID(c)
	email, _ := middleware.GetUserEmail(c)
	state := view.NewVendorState()
	state.UserID = userID
	state.Email = email
	state.Loading = false

	state, err := ctrl.save(c.Request.Context(), state, form, target)
	if err != nil {
		if errors.Is(err, service.ErrLegalNameRequired) {
			apperrors.BadRequest(c, apperrors.VendorLegalNameRequired, view.MsgLegalNameRequired)
			return
		}
		log.Error("Failed to save vendor profile", err, map[string]interface{}{
			"user_id": userID,
			"status":  target,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalDatabaseError, state.Message)
		return
	}

	c.JSON(http.StatusOK, newVendorResponse(state))
}

// SaveDraft writes the form with status draft
// PUT /api/v1/vendor/profile/draft
func (ctrl *VendorController) SaveDraft(c *gin.Context) {
	ctrl.saveJSON(c, workflow.StatusDraft)
}

// Submit writes the form with status submitted
// POST /api/v1/vendor/profile/submit
func (ctrl *VendorController) Submit(c *gin.Context) {
	ctrl.saveJSON(c, workflow.StatusSubmitted)
}

// Page renders the vendor workflow page
// GET /vendor
func (ctrl *VendorController) Page(c *gin.Context) {
	state, err := ctrl.load(c)
	if state.Redirect != "" {
		c.Redirect(http.StatusSeeOther, state.Redirect)
		return
	}
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load vendor profile", err)
	}
	c.HTML(http.StatusOK, "vendor.html", state)
}

func (ctrl *VendorController) savePage(c *gin.Context, target workflow.Status) {
	var form model.VendorForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid vendor form", map[string]interface{}{
			"error": err.Error(),
		})
	}

	userID, _ := middleware.GetUserID(c)
	email, _ := middleware.GetUserEmail(c)

	// current status for the badge when the save does not go through
	state, _ := ctrl.load(c)
	if state.Redirect != "" {
		c.Redirect(http.StatusSeeOther, state.Redirect)
		return
	}
	state.UserID = userID
	state.Email = email
	state.Message = ""

	state, err := ctrl.save(c.Request.Context(), state, form, target)
	if err != nil && !errors.Is(err, service.ErrLegalNameRequired) {
		middleware.GetLoggerFromContext(c).Error("Failed to save vendor profile", err, map[string]interface{}{
			"user_id": userID,
			"status":  target,
		})
	}
	c.HTML(http.StatusOK, "vendor.html", state)
}

// SaveDraftPage handles the Save draft button
// POST /vendor/draft
func (ctrl *VendorController) SaveDraftPage(c *gin.Context) {
	ctrl.savePage(c, workflow.StatusDraft)
}

// SubmitPage handles the Submit for review button
// POST /vendor/submit
func (ctrl *VendorController) SubmitPage(c *gin.Context) {
	ctrl.savePage(c, workflow.StatusSubmitted)
}
