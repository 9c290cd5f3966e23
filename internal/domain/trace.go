package domain

import "time"

// StageStatus tracks one pipeline stage's execution state.
type StageStatus string

const (
	// StageInProgress marks a stage that has started.
	StageInProgress StageStatus = "in_progress"
	// StageCompleted marks a stage that finished successfully.
	StageCompleted StageStatus = "completed"
	// StageFailed marks a stage that returned an error.
	StageFailed StageStatus = "failed"
)

// TraceEvent is one observability record per stage transition.
type TraceEvent struct {
	Stage     string      `json:"stage"`
	Status    StageStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// TraceObserver receives stage transitions as a workflow runs. Implementations
// must be cheap; they are called inline on the request path. A nil observer
// is always permitted.
type TraceObserver func(TraceEvent)

// Emit sends the event if the observer is non-nil.
func (o TraceObserver) Emit(stage string, status StageStatus) {
	if o != nil {
		o(TraceEvent{Stage: stage, Status: status, Timestamp: time.Now().UTC()})
	}
}
