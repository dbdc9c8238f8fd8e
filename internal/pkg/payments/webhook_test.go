package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibhu-thankii/aether-ai/app/models"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/entitlements"
)

const testWebhookSecret = "whsec_dispatcher_test"

// memEntitlementRepo is an in-memory stand-in with the same monotone write
// semantics as the database implementation.
type memEntitlementRepo struct {
	pro      map[uint]bool
	unlocks  map[uint]map[string]bool
	failures int
}

func newMemEntitlementRepo() *memEntitlementRepo {
	return &memEntitlementRepo{
		pro:     make(map[uint]bool),
		unlocks: make(map[uint]map[string]bool),
	}
}

func (m *memEntitlementRepo) SetPro(userID uint) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("storage down")
	}
	m.pro[userID] = true
	return nil
}

func (m *memEntitlementRepo) AddAgentUnlock(userID uint, agentID string) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("storage down")
	}
	if m.unlocks[userID] == nil {
		m.unlocks[userID] = make(map[string]bool)
	}
	m.unlocks[userID][agentID] = true
	return nil
}

func (m *memEntitlementRepo) GetByUserID(userID uint) (*models.Entitlement, error) {
	return &models.Entitlement{UserID: userID, IsPro: m.pro[userID]}, nil
}

func (m *memEntitlementRepo) ListUnlockedAgentIDs(userID uint) ([]string, error) {
	var ids []string
	for id := range m.unlocks[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func newTestDispatcher() (*Dispatcher, *memEntitlementRepo) {
	repo := newMemEntitlementRepo()
	return NewDispatcher(testWebhookSecret, entitlements.NewLedger(repo)), repo
}

func subscriptionChargedBody(t *testing.T, notes map[string]string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": EventSubscriptionCharged,
		"payload": map[string]any{
			"subscription": map[string]any{
				"entity": map[string]any{"id": "sub_1", "notes": notes},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func orderPaidBody(t *testing.T, notes map[string]string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": EventOrderPaid,
		"payload": map[string]any{
			"order": map[string]any{
				"entity": map[string]any{"id": "order_1", "notes": notes},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestHandleSubscriptionCharged(t *testing.T) {
	d, repo := newTestDispatcher()
	body := subscriptionChargedBody(t, map[string]string{"userId": "42", "planId": "pro_monthly"})

	result, err := d.Handle(context.Background(), body, signBody(body, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.True(t, repo.pro[42])
}

func TestHandleReplayIsIdempotent(t *testing.T) {
	d, repo := newTestDispatcher()
	body := subscriptionChargedBody(t, map[string]string{"userId": "42", "planId": "pro_monthly"})
	sig := signBody(body, testWebhookSecret)

	for i := 0; i < 3; i++ {
		result, err := d.Handle(context.Background(), body, sig)
		require.NoError(t, err)
		assert.Equal(t, ResultAccepted, result)
	}
	assert.True(t, repo.pro[42])
	assert.Empty(t, repo.unlocks[42])
}

func TestHandleRejectsBadSignature(t *testing.T) {
	d, repo := newTestDispatcher()
	body := subscriptionChargedBody(t, map[string]string{"userId": "42"})

	result, err := d.Handle(context.Background(), body, signBody(body, "wrong-secret"))
	assert.Equal(t, ResultRejected, result)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.False(t, repo.pro[42])
}

func TestHandleRejectsTamperedBody(t *testing.T) {
	d, repo := newTestDispatcher()
	body := subscriptionChargedBody(t, map[string]string{"userId": "42"})
	sig := signBody(body, testWebhookSecret)

	tampered := subscriptionChargedBody(t, map[string]string{"userId": "43"})
	result, err := d.Handle(context.Background(), tampered, sig)
	assert.Equal(t, ResultRejected, result)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.False(t, repo.pro[43])
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	d, _ := newTestDispatcher()
	body := []byte(`{"event": "subscription.charged", "payload":`)

	result, err := d.Handle(context.Background(), body, signBody(body, testWebhookSecret))
	assert.Equal(t, ResultRejected, result)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestHandleIgnoresUnknownEvent(t *testing.T) {
	d, _ := newTestDispatcher()
	body := []byte(`{"event":"payment.authorized","payload":{}}`)

	result, err := d.Handle(context.Background(), body, signBody(body, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, result)
}

func TestHandleIgnoresMissingUserID(t *testing.T) {
	d, repo := newTestDispatcher()

	for _, notes := range []map[string]string{
		nil,
		{"planId": "pro_monthly"},
		{"userId": "", "planId": "pro_monthly"},
		{"userId": "not-a-number", "planId": "pro_monthly"},
	} {
		body := subscriptionChargedBody(t, notes)
		result, err := d.Handle(context.Background(), body, signBody(body, testWebhookSecret))
		require.NoError(t, err)
		assert.Equal(t, ResultIgnored, result)
	}
	assert.Empty(t, repo.pro)
}

func TestHandleOrderPaidAgentPlan(t *testing.T) {
	d, repo := newTestDispatcher()
	body := orderPaidBody(t, map[string]string{"userId": "7", "planId": "oYxMlLkXbNtZDS3zCikc_monthly"})

	result, err := d.Handle(context.Background(), body, signBody(body, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.False(t, repo.pro[7])
	assert.True(t, repo.unlocks[7]["oYxMlLkXbNtZDS3zCikc"])
}

func TestHandleOrderPaidProPlan(t *testing.T) {
	d, repo := newTestDispatcher()
	body := orderPaidBody(t, map[string]string{"userId": "7", "planId": "pro_annually"})

	result, err := d.Handle(context.Background(), body, signBody(body, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.True(t, repo.pro[7])
	assert.Empty(t, repo.unlocks[7])
}

func TestHandleSubscriptionChargedIgnoresPlanRouting(t *testing.T) {
	// A charged subscription always means pro, whatever plan id rides in
	// the notes.
	d, repo := newTestDispatcher()
	body := subscriptionChargedBody(t, map[string]string{"userId": "9", "planId": "oYxMlLkXbNtZDS3zCikc_monthly"})

	result, err := d.Handle(context.Background(), body, signBody(body, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.True(t, repo.pro[9])
	assert.Empty(t, repo.unlocks[9])
}

func TestHandleStorageFailureStaysUnacknowledged(t *testing.T) {
	d, repo := newTestDispatcher()
	repo.failures = 1
	body := subscriptionChargedBody(t, map[string]string{"userId": "42"})
	sig := signBody(body, testWebhookSecret)

	result, err := d.Handle(context.Background(), body, sig)
	assert.Equal(t, ResultFailed, result)
	assert.ErrorIs(t, err, entitlements.ErrStorageUnavailable)

	// The redelivery succeeds once storage is back.
	result, err = d.Handle(context.Background(), body, sig)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.True(t, repo.pro[42])
}

func TestAgentIDFromPlan(t *testing.T) {
	cases := []struct {
		planID string
		want   string
	}{
		{"pro_monthly", ""},
		{"pro_annually", ""},
		{"oYxMlLkXbNtZDS3zCikc_monthly", "oYxMlLkXbNtZDS3zCikc"},
		{"placeholder-1_onetime", "placeholder-1"},
		{"noseparator", ""},
		{"_leading", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, agentIDFromPlan(c.planID), fmt.Sprintf("planID=%q", c.planID))
	}
}
