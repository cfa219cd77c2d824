package client

import (
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeDeliversEvents(t *testing.T) {
	ps := newPushServer(t)
	t.Cleanup(ResetForTest)
	SetSocketURL(ps.server.URL)

	received := make(chan json.RawMessage, 1)
	sub := Subscribe("new_contact", func(data json.RawMessage) {
		received <- data
	})
	defer sub.Cancel()

	waitConnected(t, Acquire())
	ps.broadcast(t, "new_contact", map[string]interface{}{"id": 1, "name": "Asha Rao"})

	select {
	case data := <-received:
		assert.Contains(t, string(data), "Asha Rao")
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestRebindRunsOnlyTheLatestHandler(t *testing.T) {
	ps := newPushServer(t)
	t.Cleanup(ResetForTest)
	SetSocketURL(ps.server.URL)

	var oldCalls, newCalls int32
	done := make(chan struct{}, 1)

	sub := Subscribe("new_donation", func(json.RawMessage) {
		atomic.AddInt32(&oldCalls, 1)
	})
	defer sub.Cancel()

	sub.Rebind("new_donation", func(json.RawMessage) {
		atomic.AddInt32(&newCalls, 1)
		done <- struct{}{}
	})

	waitConnected(t, Acquire())
	ps.broadcast(t, "new_donation", map[string]interface{}{"id": 2})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}

	assert.Zero(t, atomic.LoadInt32(&oldCalls), "replaced handler must never run")
	assert.Equal(t, int32(1), atomic.LoadInt32(&newCalls))
}

func TestRebindDoesNotDuplicateDelivery(t *testing.T) {
	ps := newPushServer(t)
	t.Cleanup(ResetForTest)
	SetSocketURL(ps.server.URL)

	var calls int32
	sub := Subscribe("new_applicant", func(json.RawMessage) {
		atomic.AddInt32(&calls, 1)
	})
	defer sub.Cancel()

	// Many rebinds of the same event must leave exactly one registration
	for i := 0; i < 10; i++ {
		sub.Rebind("new_applicant", func(json.RawMessage) {
			atomic.AddInt32(&calls, 1)
		})
	}

	waitConnected(t, Acquire())
	ps.broadcast(t, "new_applicant", map[string]interface{}{"id": 3})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "event delivered more than once")
}

func TestRebindToDifferentEvent(t *testing.T) {
	ps := newPushServer(t)
	t.Cleanup(ResetForTest)
	SetSocketURL(ps.server.URL)

	events := make(chan string, 2)
	sub := Subscribe("new_contact", func(json.RawMessage) {
		events <- "contact"
	})
	defer sub.Cancel()

	sub.Rebind("new_donation", func(json.RawMessage) {
		events <- "donation"
	})

	waitConnected(t, Acquire())
	ps.broadcast(t, "new_contact", map[string]interface{}{"id": 1})
	ps.broadcast(t, "new_donation", map[string]interface{}{"id": 2})

	select {
	case got := <-events:
		assert.Equal(t, "donation", got, "old event registration must be gone")
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	ps := newPushServer(t)
	t.Cleanup(ResetForTest)
	SetSocketURL(ps.server.URL)

	var calls int32
	sub := Subscribe("new_contact", func(json.RawMessage) {
		atomic.AddInt32(&calls, 1)
	})

	waitConnected(t, Acquire())
	sub.Cancel()

	ps.broadcast(t, "new_contact", map[string]interface{}{"id": 1})
	time.Sleep(100 * time.Millisecond)

	assert.Zero(t, atomic.LoadInt32(&calls))

	// Second cancel is a harmless no-op
	sub.Cancel()
}

func TestCancelRemovesOnlyItsOwnRegistration(t *testing.T) {
	ps := newPushServer(t)
	t.Cleanup(ResetForTest)
	SetSocketURL(ps.server.URL)

	var kept int32
	cancelled := Subscribe("new_contact", func(json.RawMessage) {
		t.Error("cancelled subscription ran")
	})
	keeper := Subscribe("new_contact", func(json.RawMessage) {
		atomic.AddInt32(&kept, 1)
	})
	defer keeper.Cancel()

	waitConnected(t, Acquire())
	cancelled.Cancel()

	ps.broadcast(t, "new_contact", map[string]interface{}{"id": 1})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&kept) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribeEmptyEventIsInert(t *testing.T) {
	t.Cleanup(ResetForTest)

	sub := Subscribe("", func(json.RawMessage) {
		t.Error("inert subscription ran")
	})
	sub.Cancel()
}
