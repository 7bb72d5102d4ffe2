// Package streams implements the reference-counted camera stream
// registry. Each actively streamed camera owns exactly one background
// worker goroutine that keeps a latest-frame slot fresh; logical
// clients share the worker through acquire/release reference counting.
package streams

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smazurov/camnode/internal/camera"
)

// defaultYieldInterval is the cooperative pause between worker read
// iterations. It is a scheduling yield, not a frame-rate throttle.
const defaultYieldInterval = time.Millisecond

// entry tracks one camera's shared stream.
type entry struct {
	refs     int
	stopping bool
	state    State
	lastErr  error

	// latest is written only by the entry's own worker; readers load a
	// snapshot pointer and never mutate the frame.
	latest atomic.Pointer[camera.Frame]

	cancel context.CancelFunc
	done   chan struct{} // closed when the worker reaches StateStopped
	gone   chan struct{} // closed after the entry leaves the map
}

// Options configures a Registry.
type Options struct {
	Driver camera.Driver
	Logger *slog.Logger

	// OnStateChange is invoked after a worker transition. Optional.
	OnStateChange func(id string, old, new State, err error)

	// OnFrame is invoked for every frame stored by a worker. Optional.
	OnFrame func(id string)

	// YieldInterval overrides the per-iteration cooperative pause.
	YieldInterval time.Duration
}

// Registry maps camera identifiers to shared stream entries. All map
// mutations for one identifier are linearizable: concurrent Acquire
// calls for a never-before-seen camera start exactly one worker, and a
// Release that hits zero removes the entry before anyone can observe a
// zero-count entry.
type Registry struct {
	opts    Options
	mu      sync.Mutex
	entries map[string]*entry
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRegistry creates an empty stream registry.
func NewRegistry(opts *Options) *Registry {
	if opts == nil || opts.Driver == nil {
		panic("streams: Options with Driver is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.YieldInterval <= 0 {
		opts.YieldInterval = defaultYieldInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Registry{
		opts:    *opts,
		entries: make(map[string]*entry),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Acquire registers a logical client for the camera. The first client
// opens the device and starts the stream worker; later clients only
// bump the reference count. An Acquire that races a teardown for the
// same camera waits for the old worker to be fully gone before
// starting a fresh one.
func (r *Registry) Acquire(ctx context.Context, id string) (StartResult, error) {
	for {
		r.mu.Lock()
		e, exists := r.entries[id]
		if !exists {
			break // create path, lock still held
		}
		if e.stopping {
			gone := e.gone
			r.mu.Unlock()
			select {
			case <-gone:
			case <-ctx.Done():
				return StartResult{}, ctx.Err()
			}
			continue
		}
		e.refs++
		clients := e.refs
		r.mu.Unlock()
		r.logger.Info("Camera already running", "camera", id, "clients", clients)
		return StartResult{Created: false, Clients: clients}, nil
	}

	// Opening under the registry lock keeps create-or-increment atomic
	// and guarantees a failed open never leaves a zombie entry.
	src, err := r.opts.Driver.Open(ctx, id)
	if err != nil {
		r.mu.Unlock()
		r.logger.Error("Unable to open camera", "camera", id, "error", err)
		return StartResult{}, err
	}

	wctx, cancel := context.WithCancel(r.ctx)
	e := &entry{
		refs:   1,
		state:  StateStarting,
		cancel: cancel,
		done:   make(chan struct{}),
		gone:   make(chan struct{}),
	}
	r.entries[id] = e

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(e.done)
		r.run(wctx, id, e, src)
	}()

	r.mu.Unlock()
	r.logger.Info("Camera started", "camera", id, "clients", 1)
	return StartResult{Created: true, Clients: 1}, nil
}

// Release drops one logical client. When the count reaches zero the
// stop signal is raised, the worker is joined, and the entry is
// removed, so the caller blocks until the device handle is released.
// Returns a NOT_STREAMING error if no entry exists.
func (r *Registry) Release(id string) (StopResult, error) {
	r.mu.Lock()
	e, exists := r.entries[id]
	if !exists || e.stopping {
		r.mu.Unlock()
		return StopResult{}, camera.NewError(camera.ErrCodeNotStreaming, "camera "+id+" is not active", nil)
	}

	e.refs--
	if e.refs > 0 {
		clients := e.refs
		r.mu.Unlock()
		r.logger.Info("Camera still running", "camera", id, "clients", clients)
		return StopResult{Stopped: false, Clients: clients}, nil
	}

	e.stopping = true
	r.mu.Unlock()

	// Cancelling is level-triggered and idempotent; a worker that
	// already died on its own joins immediately.
	e.cancel()
	<-e.done

	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
	close(e.gone)

	r.logger.Info("Camera stopped", "camera", id)
	return StopResult{Stopped: true}, nil
}

// PeekLatestFrame returns a snapshot of the most recent frame captured
// for the camera. Returns a NOT_STREAMING error if no entry exists and
// a NO_FRAME_YET error if the worker has not stored a frame. A stream
// whose worker died keeps serving its last frame until the final
// client releases it; dead streams are never auto-evicted.
func (r *Registry) PeekLatestFrame(id string) (*camera.Frame, error) {
	r.mu.Lock()
	e, exists := r.entries[id]
	if !exists || e.stopping {
		r.mu.Unlock()
		return nil, camera.NewError(camera.ErrCodeNotStreaming, "camera "+id+" is not streaming", nil)
	}
	r.mu.Unlock()

	frame := e.latest.Load()
	if frame == nil {
		return nil, camera.NewError(camera.ErrCodeNoFrameYet, "no frame available yet for camera "+id, nil)
	}
	return frame, nil
}

// Clients returns the current reference count, or zero if the camera
// has no entry.
func (r *Registry) Clients(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, exists := r.entries[id]; exists && !e.stopping {
		return e.refs
	}
	return 0
}

// WorkerState returns the worker state for the camera, or StateStopped
// if no entry exists.
func (r *Registry) WorkerState(id string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, exists := r.entries[id]; exists {
		return e.state
	}
	return StateStopped
}

// Active returns the identifiers with a live entry.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.entries))
	for id, e := range r.entries {
		if !e.stopping {
			ids = append(ids, id)
		}
	}
	return ids
}

// Close stops every worker and waits for all of them to release their
// devices. The registry is unusable afterwards.
func (r *Registry) Close() {
	r.cancel()
	r.wg.Wait()

	r.mu.Lock()
	for id, e := range r.entries {
		delete(r.entries, id)
		if !e.stopping {
			close(e.gone)
		}
	}
	r.mu.Unlock()
}

// setState records a worker transition and fires the hook.
func (r *Registry) setState(id string, e *entry, state State, err error) {
	r.mu.Lock()
	old := e.state
	e.state = state
	if err != nil {
		e.lastErr = err
	}
	r.mu.Unlock()

	if r.opts.OnStateChange != nil {
		r.opts.OnStateChange(id, old, state, err)
	}
}

// run is the stream worker loop. It owns src for its lifetime and is
// the only writer of the entry's latest-frame slot.
func (r *Registry) run(ctx context.Context, id string, e *entry, src camera.Source) {
	r.setState(id, e, StateRunning, nil)
	r.logger.Info("Camera stream started", "camera", id)

	var seq uint64
	var readErr error
	for {
		// Check the stop signal before blocking on the next read.
		if ctx.Err() != nil {
			break
		}

		frame, err := src.ReadFrame()
		if err != nil {
			readErr = err
			if errors.Is(err, camera.ErrEndOfStream) {
				r.logger.Warn("Camera frame capture ended", "camera", id)
			} else {
				r.logger.Warn("Camera frame capture failed", "camera", id, "error", err)
			}
			break
		}

		seq++
		frame.Sequence = seq
		e.latest.Store(frame)
		if r.opts.OnFrame != nil {
			r.opts.OnFrame(id)
		}

		// Cooperative pause so a fast device cannot monopolize a core.
		// Deliberately not a frame-rate throttle.
		time.Sleep(r.opts.YieldInterval)
	}

	r.setState(id, e, StateStopping, readErr)
	if err := src.Close(); err != nil {
		r.logger.Warn("Failed to release camera source", "camera", id, "error", err)
	}
	r.setState(id, e, StateStopped, nil)
	r.logger.Info("Camera stream stopped", "camera", id)
}
