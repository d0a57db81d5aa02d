package entities

// Task is a unit of async work executed by the task manager workers.
type Task func()

// ProgressEnvelope is the status snapshot a worker writes into the progress
// store and a poller reads back. ErrorMessage is nil whenever the run has not
// failed; an empty string is a real (empty) failure message, so the two are
// kept distinct.
type ProgressEnvelope struct {
	Status       TaskStatus `json:"status"`
	Progress     int        `json:"progress"`
	CurrentStep  string     `json:"current_step"`
	ErrorMessage *string    `json:"error,omitempty"`
	RunID        string     `json:"run_id,omitempty"`
}

// DefaultEnvelope is what a reader sees when no worker has written anything
// for the target yet, or after the entry was cleared.
func DefaultEnvelope() ProgressEnvelope {
	return ProgressEnvelope{
		Status:      TaskStatusIdle,
		Progress:    0,
		CurrentStep: "",
	}
}
