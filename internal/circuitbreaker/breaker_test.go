package circuitbreaker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsClosed(t *testing.T) {
	cb := New(Config{})
	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.TryAcquire())
}

func TestOpensAfterThresholdFailures(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, Cooldown: 100 * time.Millisecond})

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.TryAcquire())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.TryAcquire())
}

func TestHalfOpenAfterCooldown(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, Cooldown: 100 * time.Millisecond})

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	require.Equal(t, StateOpen, cb.State())
	require.False(t, cb.TryAcquire())

	time.Sleep(120 * time.Millisecond)

	assert.True(t, cb.TryAcquire())
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestHalfOpenSuccessCloses(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, Cooldown: 50 * time.Millisecond})

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	time.Sleep(70 * time.Millisecond)
	require.True(t, cb.TryAcquire())
	require.Equal(t, StateHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0, cb.Failures())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, Cooldown: 50 * time.Millisecond})

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	time.Sleep(70 * time.Millisecond)
	require.True(t, cb.TryAcquire())

	// Failure count is sticky across probes, one failed probe re-opens.
	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.TryAcquire())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Config{FailureThreshold: 3})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	// Two more failures should not reach the threshold again.
	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())
}

func TestDefaults(t *testing.T) {
	cb := New(Config{})
	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	assert.Equal(t, StateClosed, cb.State())
	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
}

func TestConcurrentTransitions(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, Cooldown: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cb.TryAcquire()
			cb.RecordFailure()
			cb.TryAcquire()
		}()
	}
	wg.Wait()

	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.TryAcquire())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
