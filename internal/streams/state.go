package streams

// State represents the current state of a stream worker.
type State string

// Worker states.
const (
	StateStarting State = "starting" // Source handed off, worker not yet looping
	StateRunning  State = "running"  // Actively refreshing the latest frame
	StateStopping State = "stopping" // Releasing the source
	StateStopped  State = "stopped"  // Terminal, worker handle joinable
)

// StartResult reports the outcome of an Acquire call.
type StartResult struct {
	// Created is true when this call started a new worker.
	Created bool
	// Clients is the reference count after the call.
	Clients int
}

// StopResult reports the outcome of a Release call.
type StopResult struct {
	// Stopped is true when this call removed the entry and joined the
	// worker.
	Stopped bool
	// Clients is the remaining reference count; zero when Stopped.
	Clients int
}
