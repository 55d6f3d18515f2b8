package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, testRepos, *spyVendorRepo, *recordingPublisher) {
	repos := setupRepos(t)
	spy := &spyVendorRepo{VendorRepository: repos.vendors}
	events := &recordingPublisher{}
	svc := NewReviewService(spy, NewAccessService(repos.profiles), events)

	seedProfile(t, repos, "admin-1", "admin")
	seedProfile(t, repos, "vendor-1", "vendor")
	return svc, repos, spy, events
}

func seedVendor(t *testing.T, repos testRepos, id, legalName, status string, createdAt time.Time) {
	t.Helper()
	v := model.VendorForm{LegalName: legalName}.ToProfile(id, status)
	v.CreatedAt = createdAt
	v.UpdatedAt = createdAt
	require.NoError(t, repos.vendors.Upsert(context.Background(), v))
}

func TestReviewService_ListNewestFirst(t *testing.T) {
	svc, repos, _, _ := setupReviewServiceTest(t)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	seedVendor(t, repos, "v-old", "Old Co", "submitted", base)
	seedVendor(t, repos, "v-new", "New Co", "draft", base.Add(time.Hour))

	vendors, err := svc.ListVendors(context.Background(), "admin-1")
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "v-new", vendors[0].ID)
	assert.Equal(t, "v-old", vendors[1].ID)
	assert.Equal(t, "Old Co", vendors[1].LegalName)
}

func TestReviewService_NonAdminNeverLists(t *testing.T) {
	svc, _, spy, _ := setupReviewServiceTest(t)
	ctx := context.Background()

	_, err := svc.ListVendors(ctx, "vendor-1")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = svc.ListVendors(ctx, "ghost")
	assert.ErrorIs(t, err, ErrRoleLookup)

	_, err = svc.ExportVendors(ctx, "vendor-1")
	assert.ErrorIs(t, err, ErrNotAdmin)

	assert.Zero(t, spy.listCalls)
}

func TestReviewService_SetStatus(t *testing.T) {
	svc, repos, _, events := setupReviewServiceTest(t)
	ctx := context.Background()
	seedVendor(t, repos, "vendor-1", "Acme Co", "submitted", time.Now())

	vendor, err := svc.SetStatus(ctx, "admin-1", "vendor-1", "approved")
	require.NoError(t, err)
	assert.Equal(t, "approved", vendor.Status)
	assert.Equal(t, "Acme Co", vendor.LegalName)

	got := events.all()
	require.Len(t, got, 2)
	assert.Equal(t, "vendor-1", got[0].userID)
	assert.Equal(t, websocket.EventVendorStatusChanged, got[0].event.Type)
	assert.Equal(t, "approved", got[0].event.Status)
	assert.Empty(t, got[1].userID)
}

func TestReviewService_SetStatusErrors(t *testing.T) {
	svc, repos, _, _ := setupReviewServiceTest(t)
	ctx := context.Background()
	seedVendor(t, repos, "vendor-1", "Acme Co", "submitted", time.Now())

	tests := []struct {
		name     string
		callerID string
		vendorID string
		status   string
		wantErr  error
	}{
		{name: "Vendor caller", callerID: "vendor-1", vendorID: "vendor-1", status: "approved", wantErr: ErrNotAdmin},
		{name: "Draft is not a review outcome", callerID: "admin-1", vendorID: "vendor-1", status: "draft", wantErr: ErrInvalidStatus},
		{name: "Unknown status", callerID: "admin-1", vendorID: "vendor-1", status: "archived", wantErr: ErrInvalidStatus},
		{name: "Missing vendor", callerID: "admin-1", vendorID: "nobody", status: "rejected", wantErr: ErrProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetStatus(ctx, tt.callerID, tt.vendorID, tt.status)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	stored, err := repos.vendors.FindByID(ctx, "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, "submitted", stored.Status)
}

func TestReviewService_ExportVendors(t *testing.T) {
	svc, repos, _, _ := setupReviewServiceTest(t)
	seedVendor(t, repos, "vendor-1", "Acme Co", "weird", time.Now())

	data, err := svc.ExportVendors(context.Background(), "admin-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Vendors")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Legal name", rows[0][1])
	assert.Equal(t, "Acme Co", rows[1][1])
	assert.Equal(t, "draft", rows[1][14])
}

func TestReviewService_CountAwaitingReview(t *testing.T) {
	svc, repos, _, _ := setupReviewServiceTest(t)
	seedVendor(t, repos, "v1", "One", "submitted", time.Now())
	seedVendor(t, repos, "v2", "Two", "submitted", time.Now())
	seedVendor(t, repos, "v3", "Three", "approved", time.Now())

	count, err := svc.CountAwaitingReview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
