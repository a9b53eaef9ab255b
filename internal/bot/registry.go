package bot

import (
	"sync"
	"time"
)

// RunStatus is the lifecycle status of a chat's ingestion run.
type RunStatus string

const (
	RunIdle    RunStatus = "idle"
	RunRunning RunStatus = "running"
	RunFailed  RunStatus = "failed"
)

// RunInfo is a snapshot of one chat's run.
type RunInfo struct {
	ChatID    int64      `json:"chat_id"`
	Status    RunStatus  `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// Registry tracks at most one run per chat. A chat whose run is in
// progress cannot start another until the first finishes. A failed run
// keeps its failure reason until the next start overwrites it.
type Registry struct {
	mu   sync.Mutex
	runs map[int64]RunInfo
}

func NewRegistry() *Registry {
	return &Registry{runs: make(map[int64]RunInfo)}
}

// Start marks the chat's run as running. It reports false when a run is
// already in progress for the chat.
func (r *Registry) Start(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.runs[chatID].Status == RunRunning {
		return false
	}
	now := time.Now()
	r.runs[chatID] = RunInfo{ChatID: chatID, Status: RunRunning, StartedAt: &now}
	return true
}

// Finish marks the chat's run as idle again.
func (r *Registry) Finish(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[chatID] = RunInfo{ChatID: chatID, Status: RunIdle}
}

// Fail marks the chat's run as failed with the given reason.
func (r *Registry) Fail(chatID int64, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[chatID] = RunInfo{ChatID: chatID, Status: RunFailed, Reason: reason}
}

// Get returns the chat's run snapshot. Unknown chats are idle.
func (r *Registry) Get(chatID int64) RunInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.runs[chatID]
	if !ok {
		return RunInfo{ChatID: chatID, Status: RunIdle}
	}
	return info
}

// Snapshot returns every tracked run.
func (r *Registry) Snapshot() []RunInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RunInfo, 0, len(r.runs))
	for _, info := range r.runs {
		out = append(out, info)
	}
	return out
}
