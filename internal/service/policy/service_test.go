package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	policystore "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/policy"
	"github.com/kkosolapov/SPA-BookingService/internal/service/policy/models"
	"github.com/kkosolapov/SPA-BookingService/pkg/ptr"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type policyRepoStub struct {
	policy   *domain.PolicyConfig
	upserted *domain.PolicyConfig
}

func (s *policyRepoStub) GetBySalonID(ctx context.Context, salonID int64) (*domain.PolicyConfig, error) {
	if s.policy == nil || s.policy.SalonID != salonID {
		return nil, policystore.ErrPolicyNotFound
	}
	return s.policy, nil
}

func (s *policyRepoStub) Upsert(ctx context.Context, p *domain.PolicyConfig) (*domain.PolicyConfig, error) {
	s.upserted = p
	return p, nil
}

var manager = domain.Actor{UserID: 7, Role: domain.RoleManager}

func TestGet_ReturnsStoredPolicy(t *testing.T) {
	stored := domain.DefaultPolicyConfig(1)
	stored.SlotGranularityMinutes = 30
	svc := NewService(&policyRepoStub{policy: stored}, stubLogger{})

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.SalonID)
	assert.Equal(t, 30, resp.SlotGranularityMinutes)
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	svc := NewService(&policyRepoStub{}, stubLogger{})

	resp, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.SalonID)
	assert.Equal(t, domain.DefaultSlotGranularityMinutes, resp.SlotGranularityMinutes)
	assert.False(t, resp.GuestCheckoutEnabled)
	assert.True(t, resp.WaitlistEnabled)
	require.Len(t, resp.CancellationFeeTiers, 2)
}

func TestGet_InvalidSalonID(t *testing.T) {
	svc := NewService(&policyRepoStub{}, stubLogger{})

	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_PartialUpdateOverStored(t *testing.T) {
	stored := domain.DefaultPolicyConfig(1)
	stored.SlotGranularityMinutes = 30
	repo := &policyRepoStub{policy: stored}
	svc := NewService(repo, stubLogger{})

	resp, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{
		AllowSameDay:   ptr.Ptr(false),
		DepositPercent: ptr.Ptr(50.0),
	}, manager)
	require.NoError(t, err)

	// Изменились только переданные поля
	assert.False(t, resp.AllowSameDay)
	assert.Equal(t, 50.0, resp.DepositPercent)
	assert.Equal(t, 30, resp.SlotGranularityMinutes)
	require.NotNil(t, repo.upserted)
}

func TestUpdate_BasesOnDefaultsWhenNoStoredPolicy(t *testing.T) {
	repo := &policyRepoStub{}
	svc := NewService(repo, stubLogger{})

	resp, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{
		GuestCheckoutEnabled: ptr.Ptr(true),
	}, manager)
	require.NoError(t, err)

	assert.True(t, resp.GuestCheckoutEnabled)
	assert.Equal(t, domain.DefaultSlotGranularityMinutes, resp.SlotGranularityMinutes)
}

func TestUpdate_OnlyManagerAllowed(t *testing.T) {
	svc := NewService(&policyRepoStub{}, stubLogger{})

	for _, actor := range []domain.Actor{
		{UserID: 42, Role: domain.RoleCustomer},
		{UserID: 8, Role: domain.RoleStaff, ResourceID: ptr.Ptr(int64(1))},
	} {
		_, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{}, actor)
		assert.ErrorIs(t, err, ErrAccessDenied)
	}
}

func TestUpdate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdatePolicyRequest
	}{
		{
			name: "granularity too small",
			req:  &models.UpdatePolicyRequest{SlotGranularityMinutes: ptr.Ptr(1)},
		},
		{
			name: "negative buffer",
			req:  &models.UpdatePolicyRequest{DefaultBufferMinutes: ptr.Ptr(-5)},
		},
		{
			name: "deposit percent over 100",
			req:  &models.UpdatePolicyRequest{DepositPercent: ptr.Ptr(150.0)},
		},
		{
			name: "no-show fee over limit",
			req:  &models.UpdatePolicyRequest{NoShowFeePercent: ptr.Ptr(200.0)},
		},
		{
			name: "negative tier threshold",
			req: &models.UpdatePolicyRequest{CancellationFeeTiers: &[]models.FeeTier{
				{HoursBefore: -1, FeePercent: 50},
			}},
		},
		{
			name: "advance days over cap",
			req:  &models.UpdatePolicyRequest{MaxAdvanceBookingDays: ptr.Ptr(400)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &policyRepoStub{}
			svc := NewService(repo, stubLogger{})

			_, err := svc.Update(context.Background(), 1, tt.req, manager)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.upserted)
		})
	}
}
