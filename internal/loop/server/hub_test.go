package server

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndUnregister(t *testing.T) {
	h := NewHub()
	a := h.RegisterClient("alice")
	b := h.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, h.Count())

	h.UnregisterClient(a.ID)
	assert.Equal(t, 1, h.Count())
	_, open := <-a.EventsCh
	assert.False(t, open, "events channel closed on unregister")

	h.UnregisterClient(a.ID)
	h.UnregisterClient(999)
	assert.Equal(t, 1, h.Count())
}

func TestUsernameTruncated(t *testing.T) {
	h := NewHub()
	handle := h.RegisterClient(strings.Repeat("x", 40))
	assert.Len(t, handle.Username, 16)
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		handle := h.RegisterClient("viewer")
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev := <-handle.EventsCh
			assert.Equal(t, EventServerShutdown, ev.Type)
			h.UnregisterClient(handle.ID)
		}()
	}

	start := time.Now()
	h.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Zero(t, h.Count())
	wg.Wait()
}

func TestShutdownTimesOut(t *testing.T) {
	h := NewHub()
	handle := h.RegisterClient("stuck")

	start := time.Now()
	h.Shutdown(100 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1, h.Count())

	select {
	case ev := <-handle.EventsCh:
		require.Equal(t, EventServerShutdown, ev.Type)
	default:
		t.Fatal("no shutdown event delivered")
	}
}

func TestShutdownWithoutClients(t *testing.T) {
	h := NewHub()
	start := time.Now()
	h.Shutdown(time.Second)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestConcurrentRegistration(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	ids := make(chan int, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- h.RegisterClient("c").ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Equal(t, 100, h.Count())
}
