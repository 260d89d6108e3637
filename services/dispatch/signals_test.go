package dispatch

import (
	"context"
	"testing"
	"time"

	"fixmate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simOffer(contractorID string) models.Offer {
	return models.Offer{
		SessionID:    "s1",
		ContractorID: contractorID,
		Deadline:     time.Now().Add(time.Second),
	}
}

func TestSimulatedResponseSourceReplies(t *testing.T) {
	src := NewSimulatedResponseSource(1, 1.0, time.Millisecond, 2*time.Millisecond)

	ch := src.AwaitResponse(context.Background(), simOffer("c1"))
	select {
	case resp := <-ch:
		assert.Equal(t, "c1", resp.ContractorID)
		assert.True(t, resp.Accepted)
	case <-time.After(time.Second):
		t.Fatal("no simulated response received")
	}
}

func TestSimulatedResponseSourceAlwaysDeclines(t *testing.T) {
	src := NewSimulatedResponseSource(1, 0, time.Millisecond, time.Millisecond)

	ch := src.AwaitResponse(context.Background(), simOffer("c1"))
	select {
	case resp := <-ch:
		assert.False(t, resp.Accepted)
	case <-time.After(time.Second):
		t.Fatal("no simulated response received")
	}
}

func TestSimulatedResponseSourceDeterministicPerSeed(t *testing.T) {
	const draws = 32

	run := func(seed int64) []bool {
		src := NewSimulatedResponseSource(seed, 0.5, time.Millisecond, time.Millisecond)
		out := make([]bool, 0, draws)
		for i := 0; i < draws; i++ {
			resp := <-src.AwaitResponse(context.Background(), simOffer("c1"))
			out = append(out, resp.Accepted)
		}
		return out
	}

	assert.Equal(t, run(42), run(42))
}

func TestSimulatedResponseSourceHonoursContextCancel(t *testing.T) {
	src := NewSimulatedResponseSource(1, 1.0, 50*time.Millisecond, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	ch := src.AwaitResponse(ctx, simOffer("c1"))
	cancel()

	select {
	case resp := <-ch:
		t.Fatalf("unexpected response after cancellation: %+v", resp)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestSimulatedResponseSourceClampsDelayRange(t *testing.T) {
	src := NewSimulatedResponseSource(1, 1.0, 10*time.Millisecond, time.Millisecond)
	assert.Equal(t, src.MinDelay, src.MaxDelay)
}

func TestNewArchiveDefaultTTL(t *testing.T) {
	a := NewArchive(nil, 0)
	assert.Equal(t, 24*time.Hour, a.TTL)

	a = NewArchive(nil, time.Hour)
	assert.Equal(t, time.Hour, a.TTL)
}

func TestDispatchErrorMessage(t *testing.T) {
	err := NewNotFoundError("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), CodeNotFound)
	assert.Contains(t, err.Error(), "abc")
}
