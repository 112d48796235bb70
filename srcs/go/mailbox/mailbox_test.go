package mailbox

import (
	"context"
	"testing"
	"time"
)

func Test_PushPop_PreservesOrder(t *testing.T) {
	m := New()
	go func() {
		m.Push(1)
		m.Push(2)
	}()
	if got := m.Pop(); got != 1 {
		t.Errorf("got %v, want 1", got)
	}
	if got := m.Pop(); got != 2 {
		t.Errorf("got %v, want 2", got)
	}
}

func Test_Pop_BlocksUntilPush(t *testing.T) {
	m := New()
	result := make(chan interface{}, 1)
	go func() {
		result <- m.Pop()
	}()

	select {
	case <-result:
		t.Fatalf("Pop returned before Push")
	case <-time.After(20 * time.Millisecond):
	}

	m.Push("ready")
	select {
	case v := <-result:
		if v != "ready" {
			t.Errorf("got %v, want ready", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop never returned after Push")
	}
}

func Test_PopContext_Cancelled(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.PopContext(ctx); err == nil {
		t.Errorf("expected error from a cancelled context")
	}
}

func Test_PopContext_ReceivesValue(t *testing.T) {
	m := New()
	m.Push(42)
	v, err := m.PopContext(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("got %v, want 42", v)
	}
}
