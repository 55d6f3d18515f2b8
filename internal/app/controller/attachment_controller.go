package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/cuckooblock/vendor-portal/internal/errors"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/cuckooblock/vendor-portal/internal/storage"
	"github.com/gin-gonic/gin"
)

type AttachmentController struct {
	storage storage.AttachmentStore
}

func NewAttachmentController(store storage.AttachmentStore) *AttachmentController {
	return &AttachmentController{storage: store}
}

type PresignAttachmentRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// PresignUpload returns an upload URL for a supporting document of the
// caller's own vendor profile
// POST /api/v1/vendor/attachments
func (ctrl *AttachmentController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid attachment request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "filename, content_type and size are required")
		return
	}

	userID, _ := middleware.GetUserID(c)
	resp, err := ctrl.storage.PresignVendorUpload(c.Request.Context(), userID, req.Filename, req.ContentType, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrContentTypeNotAllowed), errors.Is(err, storage.ErrFileTooLarge):
			log.Warn("Attachment rejected", map[string]interface{}{
				"content_type": req.ContentType,
				"size":         req.Size,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only PDF, PNG or JPEG files up to 10 MB are allowed")
		default:
			log.Error("Failed to presign attachment upload", err)
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
