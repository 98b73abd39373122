package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(t *testing.T) *OutboxEntry {
	t.Helper()
	event := NewBaseDomainEvent("SaleVoided", "Sale", uuid.New(), uuid.New())
	return NewOutboxEntry(event.StoreID(), &event, []byte(`{}`))
}

func TestNewOutboxEntry(t *testing.T) {
	entry := newTestEntry(t)

	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, 0, entry.RetryCount)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
	assert.Equal(t, "SaleVoided", entry.EventType)
	assert.Equal(t, "Sale", entry.AggregateType)
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	entry := newTestEntry(t)

	require.NoError(t, entry.MarkProcessing())
	assert.Equal(t, OutboxStatusProcessing, entry.Status)

	// Processing entries cannot be claimed again
	assert.Error(t, entry.MarkProcessing())
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("applies exponential backoff", func(t *testing.T) {
		entry := newTestEntry(t)

		entry.MarkFailed("first failure")
		require.Equal(t, OutboxStatusFailed, entry.Status)
		require.NotNil(t, entry.NextRetryAt)
		firstRetry := *entry.NextRetryAt

		entry.MarkFailed("second failure")
		require.NotNil(t, entry.NextRetryAt)

		// Second backoff (2s) lands later than the first (1s)
		assert.True(t, entry.NextRetryAt.After(firstRetry))
		assert.Equal(t, 2, entry.RetryCount)
		assert.Equal(t, "second failure", entry.LastError)
		assert.True(t, entry.CanRetry())
	})

	t.Run("dead letters after max retries", func(t *testing.T) {
		entry := newTestEntry(t)

		for i := 0; i < DefaultMaxRetries; i++ {
			entry.MarkFailed("persistent failure")
		}

		assert.Equal(t, OutboxStatusDead, entry.Status)
		assert.True(t, entry.IsDead())
		assert.False(t, entry.CanRetry())
	})
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := newTestEntry(t)
	require.NoError(t, entry.MarkProcessing())

	entry.MarkSent()

	assert.Equal(t, OutboxStatusSent, entry.Status)
	require.NotNil(t, entry.ProcessedAt)
	assert.WithinDuration(t, time.Now(), *entry.ProcessedAt, time.Second)
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	entry := newTestEntry(t)

	// Only dead entries can be reset
	assert.Error(t, entry.ResetForRetry())

	for i := 0; i < DefaultMaxRetries; i++ {
		entry.MarkFailed("persistent failure")
	}
	require.True(t, entry.IsDead())

	require.NoError(t, entry.ResetForRetry())
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, 0, entry.RetryCount)
	assert.Empty(t, entry.LastError)
	assert.Nil(t, entry.NextRetryAt)
}
