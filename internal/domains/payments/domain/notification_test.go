package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverKey = "SB-Mid-server-test"

func TestParseNotificationKeepsNumberText(t *testing.T) {
	n, err := ParseNotification([]byte(`{"order_id":"ORD-1-x","status_code":200,"gross_amount":"15000.00","transaction_status":"settlement"}`))
	require.NoError(t, err)
	require.NotNil(t, n.StatusCode)
	assert.Equal(t, "200", *n.StatusCode)
	assert.Equal(t, "15000.00", *n.GrossAmount)
	assert.Nil(t, n.SignatureKey)
	assert.Nil(t, n.FraudStatus)

	_, err = ParseNotification([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("ORD-1-x", "200", "15000.00", serverKey)
	body := `{"order_id":"ORD-1-x","status_code":"200","gross_amount":"15000.00","signature_key":"` + sig + `"}`
	n, err := ParseNotification([]byte(body))
	require.NoError(t, err)
	assert.True(t, n.VerifySignature(serverKey))
	assert.False(t, n.VerifySignature("other-key"))

	n.GrossAmount = nil
	assert.False(t, n.VerifySignature(serverKey))
}

func TestOutcome(t *testing.T) {
	str := func(s string) *string { return &s }
	cases := []struct {
		name   string
		status *string
		fraud  *string
		want   Status
	}{
		{"settlement", str("settlement"), nil, StatusSuccess},
		{"capture without fraud status", str("capture"), nil, StatusSuccess},
		{"capture accepted", str("capture"), str("accept"), StatusSuccess},
		{"capture challenged", str("capture"), str("challenge"), StatusPending},
		{"deny", str("deny"), nil, StatusFailed},
		{"expire", str("expire"), nil, StatusFailed},
		{"cancel", str("cancel"), nil, StatusFailed},
		{"pending", str("pending"), nil, StatusPending},
		{"missing", nil, nil, StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := Notification{TransactionStatus: tc.status, FraudStatus: tc.fraud}
			assert.Equal(t, tc.want, n.Outcome())
		})
	}
}

func TestTransactionReuseWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tx := NewTransaction(1, decimal.NewFromInt(1000), StatusCreated, now)
	assert.False(t, tx.Reusable(now))

	tx.AttachSnap("tok", "https://redirect", now)
	assert.True(t, tx.Reusable(now.Add(30*time.Second)))
	assert.True(t, tx.Reusable(now.Add(30*time.Second+999*time.Millisecond)))
	assert.False(t, tx.Reusable(now.Add(31*time.Second)))
	assert.Equal(t, []string{"CREATED@2025-01-01T12:00:00Z", "PENDING@2025-01-01T12:00:00Z"}, tx.StatusHistory)

	tx.SetStatus(StatusPending, now)
	assert.Len(t, tx.StatusHistory, 2)
}
