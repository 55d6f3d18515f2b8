package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	"github.com/cuckooblock/vendor-portal/internal/metrics"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const exportSheet = "Vendors"

var exportHeaders = []string{
	"ID", "Legal name", "DBA name", "Website",
	"Contact name", "Contact email", "Contact phone",
	"Address line 1", "Address line 2", "City", "State", "Zip",
	"AP email", "Notes", "Status", "Created at", "Updated at",
}

// ReviewService is the admin side of the workflow. Every method that takes a
// callerID checks the caller's role before touching vendor records.
type ReviewService interface {
	ListVendors(ctx context.Context, callerID string) ([]model.VendorProfile, error)
	SetStatus(ctx context.Context, callerID, vendorID, status string) (*model.VendorProfile, error)
	ExportVendors(ctx context.Context, callerID string) ([]byte, error)
	// CountAwaitingReview is unauthenticated; it backs the reminder job.
	CountAwaitingReview(ctx context.Context) (int64, error)
}

type reviewService struct {
	vendorRepo repository.VendorRepository
	access     AccessService
	events     EventPublisher
	now        func() time.Time
}

func NewReviewService(vendorRepo repository.VendorRepository, access AccessService, events EventPublisher) ReviewService {
	return &reviewService{
		vendorRepo: vendorRepo,
		access:     access,
		events:     publisherOrNoop(events),
		now:        time.Now,
	}
}

func (s *reviewService) ListVendors(ctx context.Context, callerID string) ([]model.VendorProfile, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.vendorRepo.List(ctx, repository.VendorFilter{Columns: repository.VendorListColumns})
}

func (s *reviewService) SetStatus(ctx context.Context, callerID, vendorID, status string) (*model.VendorProfile, error) {
	role, err := s.access.ResolveRole(ctx, callerID)
	if err != nil {
		return nil, err
	}

	target, ok := workflow.Parse(status)
	if !ok {
		target = workflow.Status(status)
	}
	if err := workflow.ValidateReviewTransition(role, target); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.vendorRepo.UpdateStatus(ctx, vendorID, string(target), now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrProfileNotFound
	}

	logger.Info("Vendor review decision recorded", map[string]interface{}{
		"vendor_id": vendorID,
		"admin_id":  callerID,
		"status":    target,
	})
	metrics.RecordTransition("admin", string(target))

	event := websocket.Event{
		Type:      websocket.EventVendorStatusChanged,
		VendorID:  vendor.ID,
		LegalName: vendor.LegalName,
		Status:    vendor.Status,
		At:        now,
	}
	s.events.PublishToUser(vendor.OwnerUserID, event)
	s.events.PublishToAdmins(event)

	return vendor, nil
}

func (s *reviewService) ExportVendors(ctx context.Context, callerID string) ([]byte, error) {
	if err := s.access.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	vendors, err := s.vendorRepo.List(ctx, repository.VendorFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i, v := range vendors {
		row := []interface{}{
			v.ID, v.LegalName, v.DBAName, v.Website,
			v.PrimaryContactName, v.PrimaryContactEmail, v.PrimaryContactPhone,
			v.AddressLine1, v.AddressLine2, v.City, v.State, v.Zip,
			v.APEmail, v.Notes, string(workflow.Normalize(v.Status)),
			v.CreatedAt.UTC().Format(time.RFC3339), v.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	logger.Info("Vendor export generated", map[string]interface{}{
		"admin_id": callerID,
		"rows":     len(vendors),
	})
	return bytes.Clone(buf.Bytes()), nil
}

func (s *reviewService) CountAwaitingReview(ctx context.Context) (int64, error) {
	return s.vendorRepo.CountByStatus(ctx, string(workflow.StatusSubmitted))
}
