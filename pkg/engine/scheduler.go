package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/fgjorup/detgeo/pkg/reference"
)

// ErrSchedulerClosed is returned by Submit after Close
var ErrSchedulerClosed = errors.New("scheduler closed")

// Request is one parameter snapshot to be turned into a frame
type Request struct {
	Params  Params
	Pattern reference.Pattern
}

// ComputeFunc produces the frame for one request
type ComputeFunc func(ctx context.Context, r Request) (*Frame, error)

// DeliverFunc receives every computed frame, in submission order
type DeliverFunc func(r Request, f *Frame, err error)

// Scheduler runs at most one computation at a time. Requests submitted while a
// computation is running replace each other in a single pending slot, so a
// burst of slider events yields one frame for the latest values.
type Scheduler struct {
	compute ComputeFunc
	deliver DeliverFunc

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	idle    *sync.Cond
	pending *Request
	running bool
	closed  bool
}

// NewScheduler creates a scheduler. deliver may be nil.
func NewScheduler(compute ComputeFunc, deliver DeliverFunc) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		compute: compute,
		deliver: deliver,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Submit queues r, replacing any request still waiting
func (s *Scheduler) Submit(r Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSchedulerClosed
	}
	s.pending = &r
	if !s.running {
		s.running = true
		go s.run()
	}
	return nil
}

func (s *Scheduler) run() {
	for {
		s.mu.Lock()
		if s.pending == nil || s.closed {
			s.pending = nil
			s.running = false
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		r := *s.pending
		s.pending = nil
		s.mu.Unlock()

		f, err := s.compute(s.ctx, r)

		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if !closed && s.deliver != nil {
			s.deliver(r, f, err)
		}
	}
}

// Wait blocks until no computation is running or pending
func (s *Scheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.running || s.pending != nil {
		s.idle.Wait()
	}
}

// Close cancels the running computation, drops the pending request and waits
// for the worker to stop. No frame is delivered after Close returns.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.mu.Unlock()
	s.cancel()
	s.Wait()
}
