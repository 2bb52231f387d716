package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/logging"
	"github.com/hupe1980/ginny/model"
	"github.com/hupe1980/ginny/tool"
)

// TurnHandler produces the reply to one utterance. history holds the prior
// turns of the session, oldest first.
type TurnHandler interface {
	HandleTurn(ctx context.Context, utterance, userID string, history ...core.Content) (string, core.ToolCallRecord)
}

var _ TurnHandler = (*Orchestrator)(nil)

// Options configure an Orchestrator.
type Options struct {
	// Instruction is the system prompt; defaults to GinnyPrompt.
	Instruction Instruction
	// Policy decides implicit preference writes; defaults to IntroductionPolicy.
	Policy PreferencePolicy
	// MaxModelCalls bounds model calls per turn (0 = unlimited).
	MaxModelCalls int
	// Apology replaces the reply when generation fails.
	Apology string
	// Logger receives orchestration logs.
	Logger logging.Logger
}

// Orchestrator implements TurnHandler on top of a model, a preference store
// and a weather provider. It is safe for concurrent use by multiple sessions.
type Orchestrator struct {
	model       model.Model
	preferences core.PreferenceStore
	weather     core.WeatherProvider
	opts        Options
}

// New creates an Orchestrator.
func New(m model.Model, preferences core.PreferenceStore, weather core.WeatherProvider, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Instruction:   NewInstructionFromText(GinnyPrompt),
		Policy:        IntroductionPolicy{},
		MaxModelCalls: 8,
		Apology:       Apology,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Policy == nil {
		opts.Policy = NoPreferencePolicy{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Orchestrator{
		model:       m,
		preferences: preferences,
		weather:     weather,
		opts:        opts,
	}
}

// ModelInfo describes the underlying model.
func (o *Orchestrator) ModelInfo() model.Info { return o.model.Info() }

// HandleTurn produces the reply for utterance on behalf of userID.
func (o *Orchestrator) HandleTurn(ctx context.Context, utterance, userID string, history ...core.Content) (string, core.ToolCallRecord) {
	start := time.Now()
	rec := newRecorder()
	limiter := core.NewModelLimiter(o.opts.MaxModelCalls)

	prefs := o.recallPreferences(ctx, userID, rec)
	o.applyPolicy(ctx, utterance, userID, rec)

	var reply string
	err := safely(func() (err error) {
		reply, err = o.generate(ctx, utterance, userID, prefs, history, rec, limiter)
		return err
	})
	if err != nil {
		o.opts.Logger.Error("agent.turn.failed", "user_id", userID, "error", err.Error(), "model_calls", limiter.Count())
		return o.opts.Apology, core.NewToolCallRecord()
	}

	if tl, ok := o.opts.Logger.(turnLogger); ok {
		tl.LogTurn(rec.calls(), limiter.Count(), time.Since(start))
	} else {
		o.opts.Logger.Info("agent.turn.completed", "tools", rec.calls(), "model_calls", limiter.Count(), "duration_ms", time.Since(start).Milliseconds())
	}

	return reply, rec.snapshot()
}

// turnLogger is implemented by logging.StructuredLogger.
type turnLogger interface {
	LogToolCall(tool string, dur time.Duration, err error)
	LogModelCall(model string, dur time.Duration, err error)
	LogTurn(tools []string, modelCalls int, dur time.Duration)
}

// recallPreferences performs the mandatory preference read of a turn.
func (o *Orchestrator) recallPreferences(ctx context.Context, userID string, rec *recorder) []string {
	var prefs []string
	start := time.Now()
	err := safely(func() (err error) {
		prefs, err = o.preferences.Get(ctx, userID)
		return err
	})
	o.logToolCall(tool.PreferenceToolName, time.Since(start), err)
	if err != nil {
		rec.add(tool.PreferenceToolName, "", err.Error())
		return nil
	}
	rec.add(tool.PreferenceToolName, tool.FormatPreferences(userID, prefs), "")
	return prefs
}

func (o *Orchestrator) applyPolicy(ctx context.Context, utterance, userID string, rec *recorder) {
	var (
		write PreferenceWrite
		ok    bool
	)
	if err := safely(func() error {
		write, ok = o.opts.Policy.Evaluate(utterance, userID)
		return nil
	}); err != nil {
		o.opts.Logger.Error("agent.policy.failed", "user_id", userID, "error", err.Error())
		rec.add(tool.PreferenceToolName, "", err.Error())
		return
	}
	if !ok || write.Statement == "" {
		return
	}
	if write.UserID == "" {
		write.UserID = userID
	}

	start := time.Now()
	err := safely(func() error {
		return o.preferences.Put(ctx, write.UserID, write.Statement)
	})
	o.logToolCall(tool.PreferenceToolName, time.Since(start), err)
	if err != nil {
		rec.add(tool.PreferenceToolName, "", err.Error())
		return
	}
	rec.add(tool.PreferenceToolName, fmt.Sprintf("stored preference for %s", write.UserID), "")
}

// generate runs the tool loop until the model answers with text.
func (o *Orchestrator) generate(
	ctx context.Context,
	utterance, userID string,
	prefs []string,
	history []core.Content,
	rec *recorder,
	limiter *core.ModelLimiter,
) (string, error) {
	instructions, err := o.opts.Instruction.Resolve(ctx, PromptData{UserID: userID, Preferences: prefs})
	if err != nil {
		return "", fmt.Errorf("%w: resolve instruction: %v", core.ErrReplyGeneration, err)
	}

	// A fresh registry per turn keeps the weather tool's single-call guarantee turn scoped.
	registry := tool.NewRegistry(
		tool.NewPreferenceTool(o.preferences),
		tool.NewWeatherTool(o.weather),
	)

	contents := make([]core.Content, 0, len(history)+1)
	contents = append(contents, history...)
	contents = append(contents, core.NewTextContent(string(core.RoleUser), utterance))

	req := model.Request{
		Instructions: instructions,
		Contents:     contents,
		Tools:        registry.Definitions(),
	}

	sessionID := SessionIDFromContext(ctx)

	for {
		if err := limiter.Increment(); err != nil {
			return "", err
		}

		start := time.Now()
		resp, err := model.Collect(ctx, o.model, req)
		o.logModelCall(time.Since(start), err)
		if err != nil {
			return "", fmt.Errorf("%w: %v", core.ErrReplyGeneration, err)
		}

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			reply := strings.TrimSpace(resp.Content.Text())
			if reply == "" {
				return "", fmt.Errorf("%w: empty reply", core.ErrReplyGeneration)
			}
			return reply, nil
		}

		callParts := make([]core.Part, 0, len(calls)+1)
		if text := resp.Content.Text(); text != "" {
			callParts = append(callParts, core.TextPart{Text: text})
		}
		responseParts := make([]core.Part, 0, len(calls))

		for _, fc := range calls {
			if fc.ID == "" {
				fc.ID = "call_" + uuid.NewString()
			}
			callParts = append(callParts, core.FunctionCallPart{FunctionCall: fc})

			fr := o.invoke(ctx, registry, sessionID, userID, fc, rec)
			responseParts = append(responseParts, core.FunctionResponsePart{FunctionResponse: fr})
		}

		req.Contents = append(req.Contents,
			core.Content{Role: string(core.RoleAssistant), Parts: callParts},
			core.Content{Role: "tool", Parts: responseParts},
		)
	}
}

// invoke executes one function call and records its outcome.
func (o *Orchestrator) invoke(
	ctx context.Context,
	registry tool.Registry,
	sessionID, userID string,
	fc core.FunctionCall,
	rec *recorder,
) core.FunctionResponse {
	toolCtx := core.NewToolContext(ctx, sessionID, userID, fc.ID, o.opts.Logger)

	start := time.Now()
	result, err := executeTool(registry, toolCtx, fc.Name, fc.Arguments)
	o.logToolCall(fc.Name, time.Since(start), err)

	fr := core.FunctionResponse{ID: fc.ID, Name: fc.Name}
	if err != nil {
		fr.Error = toolErrorText(err)
		rec.add(fc.Name, "", fr.Error)
		return fr
	}
	fr.Response = renderResult(result)
	rec.add(fc.Name, fr.Response, "")
	return fr
}

func toolErrorText(err error) string {
	var toolErr *tool.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Message
	}
	return err.Error()
}

func (o *Orchestrator) logToolCall(name string, dur time.Duration, err error) {
	if tl, ok := o.opts.Logger.(turnLogger); ok {
		tl.LogToolCall(name, dur, err)
		return
	}
	if err != nil {
		o.opts.Logger.Warn("agent.tool.failed", "tool", name, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	o.opts.Logger.Debug("agent.tool.executed", "tool", name, "duration_ms", dur.Milliseconds())
}

func (o *Orchestrator) logModelCall(dur time.Duration, err error) {
	name := o.model.Info().Name
	if tl, ok := o.opts.Logger.(turnLogger); ok {
		tl.LogModelCall(name, dur, err)
		return
	}
	if err != nil {
		o.opts.Logger.Error("agent.model.failed", "model", name, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	o.opts.Logger.Debug("agent.model.completed", "model", name, "duration_ms", dur.Milliseconds())
}

type sessionKey struct{}

// ContextWithSessionID annotates ctx with the session a turn belongs to.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionIDFromContext returns the session id stored by ContextWithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
