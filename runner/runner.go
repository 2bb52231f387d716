package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/ginny/agent"
	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/logging"
	"github.com/hupe1980/ginny/session"
)

// DefaultUserID is used for new sessions when no user is configured.
const DefaultUserID = "current_user"

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// SessionStore keeps one transcript per session id.
	SessionStore core.SessionStore
	// UserID binds newly created sessions to a user.
	UserID string
	// Logger receives runner logs.
	Logger logging.Logger
}

// Result is the outcome of one handled utterance.
type Result struct {
	Reply     string              `json:"reply"`
	ToolCalls core.ToolCallRecord `json:"tool_calls"`
}

// Runner coordinates turns: resolves the session, serializes turns per
// session, calls the TurnHandler and persists both turns. Public methods are
// safe for concurrent use.
type Runner struct {
	handler      agent.TurnHandler
	sessionStore core.SessionStore
	userID       string
	logger       logging.Logger

	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

// New constructs a Runner with optional overrides.
func New(handler agent.TurnHandler, optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		UserID:       DefaultUserID,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.UserID == "" {
		opts.UserID = DefaultUserID
	}

	return &Runner{
		handler:      handler,
		sessionStore: opts.SessionStore,
		userID:       opts.UserID,
		logger:       opts.Logger,
		locks:        make(map[string]*sync.Mutex),
	}
}

// UserID returns the user new sessions are bound to.
func (r *Runner) UserID() string { return r.userID }

// Session returns the session for sessionID, creating it on first use.
func (r *Runner) Session(sessionID string) (*core.Session, error) {
	sess, err := r.sessionStore.GetOrCreate(sessionID, r.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Run handles one utterance within sessionID. Empty or whitespace-only input
// returns core.ErrEmptyInput without touching the transcript.
func (r *Runner) Run(ctx context.Context, sessionID, utterance string) (Result, error) {
	if strings.TrimSpace(utterance) == "" {
		return Result{}, core.ErrEmptyInput
	}

	sess, err := r.Session(sessionID)
	if err != nil {
		return Result{}, err
	}

	unlock := r.lock(sessionID)
	defer unlock()

	start := time.Now()
	transcript := sess.Transcript()
	history := transcript.History()

	transcript.Append(core.NewUserTurn(utterance), core.NewToolCallRecord())

	reply, calls := r.handler.HandleTurn(agent.ContextWithSessionID(ctx, sessionID), utterance, sess.UserID, history...)
	if calls == nil {
		calls = core.NewToolCallRecord()
	}

	transcript.Append(core.NewAssistantTurn(reply), calls)
	sess.Touch()

	r.logger.Debug("runner.turn.completed",
		"session_id", sessionID,
		"tools", calls.Names(),
		"turns", transcript.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Result{Reply: reply, ToolCalls: calls.Clone()}, nil
}

// Clear resets the transcript of sessionID. It waits for an in-flight turn.
func (r *Runner) Clear(sessionID string) error {
	sess, err := r.Session(sessionID)
	if err != nil {
		return err
	}

	unlock := r.lock(sessionID)
	defer unlock()

	sess.Transcript().Clear()
	sess.Touch()
	r.logger.Info("runner.session.cleared", "session_id", sessionID)
	return nil
}

// Transcript returns a snapshot of the entries of sessionID.
func (r *Runner) Transcript(sessionID string) ([]core.Entry, error) {
	sess, err := r.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Transcript().All(), nil
}

// Close drops a session and its lock.
func (r *Runner) Close(sessionID string) error {
	r.mu.Lock()
	delete(r.locks, sessionID)
	r.mu.Unlock()
	return r.sessionStore.Delete(sessionID)
}

func (r *Runner) lock(sessionID string) func() {
	r.mu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sessionID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}
