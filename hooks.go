package satmap

import (
	"sync"
)

// Phase names one step of a run.
type Phase string

// Engine phases, in run order.
const (
	PhaseRepairActivities Phase = "repair-activities"
	PhaseRepairProducts   Phase = "repair-products"
	PhaseName             Phase = "name"
	PhaseMatch            Phase = "match"
)

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// Hook function types for phase events
type (
	// PhaseStartedHook is called when a phase starts
	PhaseStartedHook func(phase Phase)

	// PhaseCompletedHook is called when a phase ends. summary is empty
	// when the phase failed before producing a result.
	PhaseCompletedHook func(phase Phase, summary string, err error)
)

// hooks manages event callbacks for phase changes
type hooks struct {
	mu          sync.RWMutex
	onStarted   []PhaseStartedHook
	onCompleted []PhaseCompletedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnPhaseStarted registers a callback for when a phase starts
func (h *hooks) OnPhaseStarted(fn PhaseStartedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onStarted = append(h.onStarted, fn)
}

// OnPhaseCompleted registers a callback for when a phase ends
func (h *hooks) OnPhaseCompleted(fn PhaseCompletedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCompleted = append(h.onCompleted, fn)
}

// triggerStarted runs the started hooks. Phases may run concurrently,
// so hooks must be safe for concurrent use.
func (h *hooks) triggerStarted(phase Phase) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onStarted {
		hook(phase)
	}
}

// triggerCompleted runs the completed hooks
func (h *hooks) triggerCompleted(phase Phase, summary string, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onCompleted {
		hook(phase, summary, err)
	}
}
