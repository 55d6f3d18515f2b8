package service

import (
	"context"
	"errors"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	"github.com/cuckooblock/vendor-portal/internal/metrics"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
)

var (
	ErrLegalNameRequired = workflow.ErrLegalNameRequired
	ErrInvalidStatus     = workflow.ErrInvalidStatus
	ErrProfileNotFound   = errors.New("vendor profile not found")
)

type VendorService interface {
	// Load returns the caller's own profile, or nil when none has been saved.
	Load(ctx context.Context, userID string) (*model.VendorProfile, error)
	SaveDraft(ctx context.Context, userID string, form model.VendorForm) (*model.VendorProfile, error)
	Submit(ctx context.Context, userID string, form model.VendorForm) (*model.VendorProfile, error)
}

type vendorService struct {
	vendorRepo repository.VendorRepository
	events     EventPublisher
	now        func() time.Time
}

func NewVendorService(vendorRepo repository.VendorRepository, events EventPublisher) VendorService {
	return &vendorService{
		vendorRepo: vendorRepo,
		events:     publisherOrNoop(events),
		now:        time.Now,
	}
}

func (s *vendorService) Load(ctx context.Context, userID string) (*model.VendorProfile, error) {
	return s.vendorRepo.FindByID(ctx, userID)
}

func (s *vendorService) SaveDraft(ctx context.Context, userID string, form model.VendorForm) (*model.VendorProfile, error) {
	return s.save(ctx, userID, form, workflow.StatusDraft)
}

func (s *vendorService) Submit(ctx context.Context, userID string, form model.VendorForm) (*model.VendorProfile, error) {
	return s.save(ctx, userID, form, workflow.StatusSubmitted)
}

// save writes every form field plus target status, whatever the prior
// status was, and returns the row as stored.
func (s *vendorService) save(ctx context.Context, userID string, form model.VendorForm, target workflow.Status) (*model.VendorProfile, error) {
	if err := workflow.ValidateVendorTransition(target, form.LegalName); err != nil {
		logger.Warn("Vendor save rejected", map[string]interface{}{
			"user_id": userID,
			"status":  target,
			"error":   err.Error(),
		})
		return nil, err
	}

	now := s.now()
	vendor := form.ToProfile(userID, string(target))
	vendor.CreatedAt = now
	vendor.UpdatedAt = now

	if err := s.vendorRepo.Upsert(ctx, vendor); err != nil {
		return nil, err
	}

	saved, err := s.vendorRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrProfileNotFound
	}

	logger.Info("Vendor profile saved", map[string]interface{}{
		"vendor_id": userID,
		"status":    target,
	})
	metrics.RecordTransition("vendor", string(target))

	if target == workflow.StatusSubmitted {
		s.events.PublishToAdmins(websocket.Event{
			Type:      websocket.EventVendorSubmitted,
			VendorID:  saved.ID,
			LegalName: saved.LegalName,
			Status:    saved.Status,
			At:        now,
		})
	}
	return saved, nil
}
