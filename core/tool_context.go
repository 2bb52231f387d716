package core

import (
	"context"

	"github.com/hupe1980/ginny/logging"
)

// ToolContext provides the constrained surface a tool implementation sees
// while executing inside a turn: the turn's cancellation context, the user
// the turn belongs to, the originating function call id and a logger.
type ToolContext struct {
	ctx            context.Context
	sessionID      string
	userID         string
	functionCallID string
	logger         logging.Logger
}

// NewToolContext constructs a tool context for a single function call. A nil
// logger is replaced by logging.NoOpLogger.
func NewToolContext(ctx context.Context, sessionID, userID, functionCallID string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:            ctx,
		sessionID:      sessionID,
		userID:         userID,
		functionCallID: functionCallID,
		logger:         logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionID returns the session the invoking turn belongs to.
func (tc *ToolContext) SessionID() string { return tc.sessionID }

// UserID returns the user identifier of the invoking turn.
func (tc *ToolContext) UserID() string { return tc.userID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the underlying logger.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// LogDebug logs with the session, user and call ids attached.
func (tc *ToolContext) LogDebug(msg string, args ...any) { tc.logger.Debug(msg, tc.attrs(args)...) }

// LogInfo logs with the session, user and call ids attached.
func (tc *ToolContext) LogInfo(msg string, args ...any) { tc.logger.Info(msg, tc.attrs(args)...) }

// LogWarn logs with the session, user and call ids attached.
func (tc *ToolContext) LogWarn(msg string, args ...any) { tc.logger.Warn(msg, tc.attrs(args)...) }

// LogError logs with the session, user and call ids attached.
func (tc *ToolContext) LogError(msg string, args ...any) { tc.logger.Error(msg, tc.attrs(args)...) }

func (tc *ToolContext) attrs(args []any) []any {
	out := make([]any, 0, len(args)+6)
	out = append(out, "session_id", tc.sessionID, "user_id", tc.userID, "fc_id", tc.functionCallID)
	return append(out, args...)
}
