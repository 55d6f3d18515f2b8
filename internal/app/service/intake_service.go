package service

import (
	"context"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/metrics"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
)

// IntakeInput is the public intake form. Missing fields bind as "".
type IntakeInput struct {
	CompanyName  string `form:"companyName" json:"companyName"`
	Website      string `form:"website" json:"website"`
	ContactName  string `form:"contactName" json:"contactName"`
	ContactEmail string `form:"contactEmail" json:"contactEmail"`
	Capabilities string `form:"capabilities" json:"capabilities"`
}

// IntakePayload is the acknowledged lead with its server timestamp.
type IntakePayload struct {
	IntakeInput
	CreatedAt string `json:"createdAt"`
}

type IntakeService interface {
	// Submit never fails: persistence errors are logged only.
	Submit(ctx context.Context, input IntakeInput) IntakePayload
}

type intakeService struct {
	intakeRepo repository.IntakeRepository
	persist    bool
	now        func() time.Time
}

// NewIntakeService logs every lead and also stores it when persist is set.
func NewIntakeService(intakeRepo repository.IntakeRepository, persist bool) IntakeService {
	return &intakeService{
		intakeRepo: intakeRepo,
		persist:    persist && intakeRepo != nil,
		now:        time.Now,
	}
}

func (s *intakeService) Submit(ctx context.Context, input IntakeInput) IntakePayload {
	at := s.now().UTC()
	payload := IntakePayload{
		IntakeInput: input,
		CreatedAt:   at.Format(time.RFC3339),
	}

	logger.Info("NEW VENDOR INTAKE", map[string]interface{}{
		"companyName":  input.CompanyName,
		"website":      input.Website,
		"contactName":  input.ContactName,
		"contactEmail": input.ContactEmail,
		"capabilities": input.Capabilities,
		"createdAt":    payload.CreatedAt,
	})

	persisted := false
	if s.persist {
		lead := &model.IntakeLead{
			CompanyName:  input.CompanyName,
			Website:      input.Website,
			ContactName:  input.ContactName,
			ContactEmail: input.ContactEmail,
			Capabilities: input.Capabilities,
			SubmittedAt:  at,
		}
		if err := s.intakeRepo.Create(ctx, lead); err != nil {
			logger.Error("Failed to persist intake lead", err, map[string]interface{}{
				"companyName": input.CompanyName,
			})
		} else {
			persisted = true
		}
	}
	metrics.RecordIntakeLead(persisted)

	return payload
}
