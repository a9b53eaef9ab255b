package bot

import (
	"sync"
	"testing"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()

	if got := r.Get(1); got.Status != RunIdle {
		t.Errorf("unknown chat status = %s, want idle", got.Status)
	}

	if !r.Start(1) {
		t.Fatal("Start() = false, want true for idle chat")
	}
	if got := r.Get(1); got.Status != RunRunning || got.StartedAt == nil {
		t.Errorf("after Start: %+v", got)
	}

	if r.Start(1) {
		t.Error("Start() = true for running chat, want rejection")
	}

	r.Fail(1, "mailbox authentication failed")
	if got := r.Get(1); got.Status != RunFailed || got.Reason != "mailbox authentication failed" {
		t.Errorf("after Fail: %+v", got)
	}

	// A failed chat may start again.
	if !r.Start(1) {
		t.Error("Start() = false after failure, want true")
	}
	r.Finish(1)
	if got := r.Get(1); got.Status != RunIdle {
		t.Errorf("after Finish: %+v", got)
	}
}

func TestRegistryPerChatIsolation(t *testing.T) {
	r := NewRegistry()
	if !r.Start(1) {
		t.Fatal("Start(1) rejected")
	}
	if !r.Start(2) {
		t.Error("Start(2) rejected, want independent chats")
	}
	if len(r.Snapshot()) != 2 {
		t.Errorf("Snapshot() has %d entries, want 2", len(r.Snapshot()))
	}
}

func TestRegistryConcurrentStart(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Start(7) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("%d goroutines won Start, want exactly 1", wins)
	}
}
