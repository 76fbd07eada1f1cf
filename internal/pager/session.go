package pager

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State of a browse session. A session starts ACTIVE and closes only by
// timeout (or by being superseded); there is no explicit close input.
type State string

const (
	StateActive State = "ACTIVE"
	StateClosed State = "CLOSED"
)

// Input is a navigation action submitted by the session owner.
type Input int

const (
	InputPrev Input = iota
	InputNext
)

// ParseInput recognizes the navigation replies a session reacts to.
func ParseInput(text string) (Input, bool) {
	switch text {
	case "⬅️", "◀", "prev", "previous":
		return InputPrev, true
	case "➡️", "▶", "next":
		return InputNext, true
	default:
		return 0, false
	}
}

// RenderFunc re-renders the session's page. closed marks the final render,
// which must not show navigation affordances.
type RenderFunc func(pageIndex int, closed bool)

// Session drives forward/backward browsing over one query's result pages,
// bound to the room it was rendered in and to the user who issued the query.
// Input from anyone else, or any input after the timeout, changes nothing.
type Session struct {
	room      string
	owner     string
	pageCount int
	timeout   time.Duration
	render    RenderFunc
	logger    *zap.Logger

	mu    sync.Mutex
	state State
	index int

	input    chan Input
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewSession(room, owner string, pageCount int, timeout time.Duration, render RenderFunc, logger *zap.Logger) *Session {
	return &Session{
		room:      room,
		owner:     owner,
		pageCount: pageCount,
		timeout:   timeout,
		render:    render,
		logger:    logger,
		state:     StateActive,
		input:     make(chan Input, 4),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *Session) Room() string  { return s.room }
func (s *Session) Owner() string { return s.owner }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Done closes when the session has finished running.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Offer submits navigation input. Only input from the owner of an active
// session is accepted; everything else is ignored without state change.
func (s *Session) Offer(sender string, in Input) bool {
	s.mu.Lock()
	if s.state != StateActive || sender != s.owner {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	select {
	case s.input <- in:
		return true
	default:
		// Queue full; drop rather than block the gateway.
		return false
	}
}

// Close ends the session without a final render, used when a newer query
// supersedes it.
func (s *Session) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Run blocks until the session ends. Each accepted navigation input restarts
// the timeout window, mirroring a wait-for-next-input loop. On timeout the
// session performs its final render with navigation affordances removed.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.setClosed()
			return

		case <-s.stop:
			s.setClosed()
			return

		case <-timer.C:
			s.setClosed()
			s.render(s.PageIndex(), true)
			s.logger.Debug("Browse session timed out",
				zap.String("room", s.room),
				zap.String("owner", s.owner),
			)
			return

		case in := <-s.input:
			if s.move(in) {
				s.render(s.PageIndex(), false)
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.timeout)
		}
	}
}

// move applies a navigation input, reporting whether the page changed. Input
// at the first or last page is ignored.
func (s *Session) move(in Input) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch in {
	case InputNext:
		if s.index < s.pageCount-1 {
			s.index++
			return true
		}
	case InputPrev:
		if s.index > 0 {
			s.index--
			return true
		}
	}
	return false
}

func (s *Session) setClosed() {
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
}
