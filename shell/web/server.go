// Package web serves the browser dashboard: a chat log over the session
// transcript, quick-action buttons, a clear button and a sidebar with the
// tool-call history and credential status. One transcript per browser,
// keyed by a session cookie.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ginny"
	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/logging"
	"github.com/hupe1980/ginny/runner"
)

//go:embed templates/*.html
var templateFS embed.FS

// CookieName holds the dashboard session id.
const CookieName = "ginny_session"

// WelcomeMessage is shown while the transcript is empty.
const WelcomeMessage = `👋 歡迎！我是您的私人穿搭顧問 Ginny

🔧 此 Demo 特色：
• 💕 完整的工具調用過程顯示
• 🔍 實時監控 API 調用
• 📊 記憶系統狀態追蹤
• 🌤️ 天氣 API 調用詳情

告訴我您的需求，讓我為您打造專屬造型！`

// QuickAction is a canned utterance behind a dashboard button.
type QuickAction struct {
	Key       string
	Label     string
	Utterance string
}

// QuickActions lists the dashboard buttons in display order.
var QuickActions = []QuickAction{
	{Key: "date", Label: "💕 約會穿搭", Utterance: "我明天要去約會，該穿什麼？"},
	{Key: "work", Label: "💼 上班穿搭", Utterance: "幫我搭配上班服裝"},
	{Key: "casual", Label: "🌟 休閒穿搭", Utterance: "我想要週末休閒穿搭建議"},
	{Key: "memory", Label: "👤 測試記憶", Utterance: "我是 Johnny，喜歡韓式風格"},
}

func quickUtterance(key string) (string, bool) {
	for _, a := range QuickActions {
		if a.Key == key {
			return a.Utterance, true
		}
	}
	return "", false
}

// Options configure a Server.
type Options struct {
	Status          ginny.Status
	Logger          logging.Logger
	SecureCookie    bool
	ShutdownTimeout time.Duration
}

// Server is the dashboard http.Handler.
type Server struct {
	runner *runner.Runner
	opts   Options
	tmpl   *template.Template
	mux    *http.ServeMux
}

var _ http.Handler = (*Server)(nil)

// New creates a Server over r.
func New(r *runner.Runner, optFns ...func(o *Options)) (*Server, error) {
	opts := Options{
		Logger:          logging.NoOpLogger{},
		ShutdownTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Status.UserID == "" {
		opts.Status.UserID = r.UserID()
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"join": strings.Join,
		"ready": func(b bool) string {
			if b {
				return "已設定"
			}
			return "未設定"
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{runner: r, opts: opts, tmpl: tmpl, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /chat", s.handleChat)
	s.mux.HandleFunc("POST /quick", s.handleQuick)
	s.mux.HandleFunc("POST /clear", s.handleClear)
	s.mux.HandleFunc("GET /api/transcript", s.handleTranscript)
	s.mux.HandleFunc("POST /api/chat", s.handleAPIChat)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s.opts.Logger.Info("starting dashboard", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			s.opts.Logger.Error("dashboard shutdown error", "error", err)
			return err
		}
		s.opts.Logger.Info("dashboard stopped")
		return nil
	})

	return eg.Wait()
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := "web-" + uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

type toolView struct {
	Name   string
	Output string
	Error  string
}

type messageView struct {
	Role   string
	Avatar string
	Text   string
	Tools  []toolView
}

type historyView struct {
	Tools []string
}

type pageData struct {
	Messages      []messageView
	History       []historyView
	QuickActions  []QuickAction
	Status        ginny.Status
	TurnCount     int
	ToolCallCount int
}

func (s *Server) page(entries []core.Entry) pageData {
	data := pageData{
		QuickActions: QuickActions,
		Status:       s.opts.Status,
		TurnCount:    len(entries),
	}

	if len(entries) == 0 {
		data.Messages = append(data.Messages, messageView{Role: string(core.RoleAssistant), Avatar: "👗", Text: WelcomeMessage})
		return data
	}

	for _, e := range entries {
		m := messageView{Role: string(e.Turn.Role), Avatar: "👤", Text: e.Turn.Text}
		if e.Turn.Role == core.RoleAssistant {
			m.Avatar = "👗"
			for _, name := range e.ToolCalls.Names() {
				entry := e.ToolCalls[name]
				m.Tools = append(m.Tools, toolView{Name: name, Output: entry.Output, Error: entry.Error})
			}
			data.History = append(data.History, historyView{Tools: e.ToolCalls.Names()})
			data.ToolCallCount += len(e.ToolCalls)
		}
		data.Messages = append(data.Messages, m)
	}
	return data
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	entries, err := s.runner.Transcript(id)
	if err != nil {
		s.fail(w, "failed to load transcript", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", s.page(entries)); err != nil {
		s.opts.Logger.Error("failed to render index page", "error", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, r.FormValue("message"))
}

func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	utterance, ok := quickUtterance(r.FormValue("action"))
	if !ok {
		http.Error(w, "unknown quick action", http.StatusBadRequest)
		return
	}
	s.run(w, r, utterance)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, utterance string) {
	id := s.sessionID(w, r)
	if _, err := s.runner.Run(r.Context(), id, utterance); err != nil && !errors.Is(err, core.ErrEmptyInput) {
		s.fail(w, "failed to handle message", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	if err := s.runner.Clear(id); err != nil {
		s.fail(w, "failed to clear transcript", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// TranscriptResponse is the body of GET /api/transcript.
type TranscriptResponse struct {
	SessionID string       `json:"session_id"`
	UserID    string       `json:"user_id"`
	Entries   []core.Entry `json:"entries"`
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	entries, err := s.runner.Transcript(id)
	if err != nil {
		s.fail(w, "failed to load transcript", err)
		return
	}

	writeJSON(w, http.StatusOK, TranscriptResponse{
		SessionID: id,
		UserID:    s.opts.Status.UserID,
		Entries:   entries,
	})
}

// APISessionPrefix is required on session IDs chosen by headless clients,
// keeping them apart from the dashboard's cookie sessions.
const APISessionPrefix = "api-"

// ChatRequest is the body of POST /api/chat. SessionID defaults to the
// cookie session; an explicit SessionID must start with APISessionPrefix.
type ChatRequest struct {
	Input     string `json:"input"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply of POST /api/chat.
type ChatResponse struct {
	SessionID string              `json:"session_id"`
	Output    string              `json:"output"`
	ToolCalls core.ToolCallRecord `json:"tool_calls"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAPIChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id := req.SessionID
	switch {
	case id == "":
		id = s.sessionID(w, r)
	case !strings.HasPrefix(id, APISessionPrefix) || len(id) == len(APISessionPrefix):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id must start with " + APISessionPrefix})
		return
	}

	res, err := s.runner.Run(r.Context(), id, req.Input)
	if errors.Is(err, core.ErrEmptyInput) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.opts.Logger.Error("failed to handle message", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to handle message"})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{SessionID: id, Output: res.Reply, ToolCalls: res.ToolCalls})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.opts.Logger.Error(msg, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}
