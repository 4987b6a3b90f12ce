package challenge

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kesaralabs/cmdgate/internal/gatelog"
)

// State is the session's lifecycle state. It only ever moves forward:
// IDLE -> SERVING -> RESOLVED -> CLOSED.
type State int32

const (
	StateIdle State = iota
	StateServing
	StateResolved
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateServing:
		return "serving"
	case StateResolved:
		return "resolved"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one ephemeral challenge: a loopback HTTP listener bound for
// the lifetime of a single pending validation. No two sessions share a
// port or any mutable state.
type Session struct {
	ID   string
	kind Kind
	data PageData

	math mathProblem
	word string

	listener net.Listener
	server   *http.Server

	state atomic.Int32

	once     sync.Once
	resultCh chan Result
	timer    *time.Timer

	mu    sync.Mutex
	conns map[net.Conn]struct{}

	openBrowser func(url string) error
	rollSource  *rand.Rand
	logger      *log.Logger
}

// Option configures Open.
type Option func(*Session)

// WithBrowserOpen overrides the best-effort browser-launch command. Tests
// pass a no-op so the suite never actually shells out to `open`/`xdg-open`.
func WithBrowserOpen(fn func(url string) error) Option {
	return func(s *Session) { s.openBrowser = fn }
}

// WithRand seeds the math/word challenge's random draw for deterministic
// tests. Production code leaves this unset and gets a process-global
// source.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rollSource = r }
}

// WithLogger overrides the session's logger (default: gatelog.Default()).
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Open binds an OS-assigned loopback port, installs the challenge routes,
// and starts serving. It does not block: call Await to obtain the verdict.
// A best-effort platform browser-open command is spawned so a human with a
// display sees the page; this is suppressible via WithBrowserOpen for
// headless/test environments.
func Open(kind Kind, data PageData, timeout time.Duration, opts ...Option) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("challenge: invalid kind %q", kind)
	}

	s := &Session{
		ID:       uuid.NewString(),
		kind:     kind,
		data:     data,
		resultCh: make(chan Result, 1),
		conns:    make(map[net.Conn]struct{}),
		logger:   gatelog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	roll := defaultRoll
	if s.rollSource != nil {
		roll = s.rollSource.Intn
	}
	if kind == KindMath {
		s.math = newMathProblem(roll)
	}
	if kind == KindWord {
		s.word = pickWord(roll)
	}
	if s.openBrowser == nil {
		s.openBrowser = defaultOpenBrowser
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("challenge: bind listener: %w", err)
	}
	s.listener = ln

	mux := newMux(s)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       0,
		ConnState:         s.trackConn,
	}
	s.server.SetKeepAlivesEnabled(false)

	s.state.Store(int32(StateServing))

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("challenge server exited", "session_id", s.ID, "error", err)
		}
	}()

	s.timer = time.AfterFunc(timeout, func() {
		s.resolve(false, "timeout")
	})

	s.logger.Info("challenge opened", "session_id", s.ID, "kind", string(kind), "url", s.URL())

	if err := s.openBrowser(s.URL()); err != nil {
		s.logger.Warn("browser open failed", "session_id", s.ID, "error", err)
	}

	return s, nil
}

var rollMu sync.Mutex

func defaultRoll(n int) int {
	rollMu.Lock()
	defer rollMu.Unlock()
	return rand.Intn(n)
}

// URL returns the loopback URL a human (or the best-effort browser-open
// command) should visit.
func (s *Session) URL() string {
	return "http://" + s.listener.Addr().String() + "/"
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Await blocks until the session resolves (approve, deny, timeout, or
// cancel) and returns the terminal result.
func (s *Session) Await() Result {
	return <-s.resultCh
}

// AwaitContext is Await with an additional caller-supplied deadline; on
// ctx cancellation the session is cancelled and the cancellation result is
// returned.
func (s *Session) AwaitContext(ctx context.Context) Result {
	select {
	case res := <-s.resultCh:
		return res
	case <-ctx.Done():
		s.Cancel()
		return <-s.resultCh
	}
}

// Cancel resolves the session with approved=false, reason="cancelled". It
// is idempotent: calling it after the session has already resolved is a
// no-op.
func (s *Session) Cancel() {
	s.resolve(false, "cancelled")
}

func (s *Session) resolve(approved bool, reason string) {
	s.once.Do(func() {
		if s.timer != nil {
			s.timer.Stop()
		}
		s.state.Store(int32(StateResolved))
		s.resultCh <- Result{Approved: approved, Kind: s.kind, Reason: reason}
		s.logger.Info("challenge resolved", "session_id", s.ID, "approved", approved, "reason", reason)
		go s.teardown()
	})
}

func (s *Session) teardown() {
	// Give the in-flight handler a brief moment to flush its response
	// before connections get force-closed.
	time.Sleep(20 * time.Millisecond)

	s.mu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}

	_ = s.server.Close()
	s.state.Store(int32(StateClosed))
	s.logger.Debug("challenge closed", "session_id", s.ID)
}

func (s *Session) trackConn(c net.Conn, state http.ConnState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch state {
	case http.StateNew:
		s.conns[c] = struct{}{}
	case http.StateClosed, http.StateHijacked:
		delete(s.conns, c)
	}
}

func defaultOpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
