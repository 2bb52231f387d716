// Package cli is the terminal presentation shell: the start menu, the chat
// loop and the scripted demo. It only talks to a runner.Runner.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/runner"
)

// Messages shown by the shell.
const (
	Prompt          = "👤 您: "
	ReplyPrefix     = "👗 Ginny: "
	Farewell        = "👗 Ginny: 很高興為您服務！期待下次為您搭配美美的造型！ 👋"
	InterruptBye    = "👗 Ginny: 下次見！記得穿美美的哦~ 👋"
	MenuGoodbye     = "👋 再見！"
	MenuInterrupted = "👋 程式已結束！"
	menuPrompt      = "📝 請選擇操作 (直接按 Enter 開始 demo): "
	invalidChoice   = "❓ 請輸入有效選項：demo, chat, help, exit"
)

// exitWords end the chat loop (compared case-insensitively).
var exitWords = []string{"exit", "退出", "bye"}

// DemoScript is the canned conversation played by Demo.
var DemoScript = []string{
	"我是 Johnny，喜歡韓式風格",
	"我明天要去約會，該穿什麼？",
	"明天台北天氣如何",
	"幫我搭配上班服裝",
}

// Options configure a Shell.
type Options struct {
	SessionID    string
	In           io.Reader
	Out          io.Writer
	WeatherReady bool
	MemoryReady  bool
	// ShowTools prints the tools used after each chat reply.
	ShowTools bool
}

// Shell drives a runner from line-oriented input.
type Shell struct {
	runner *runner.Runner
	opts   Options
	lines  <-chan string
}

// New creates a Shell.
func New(r *runner.Runner, optFns ...func(o *Options)) *Shell {
	opts := Options{
		SessionID:    "cli-" + uuid.NewString(),
		WeatherReady: true,
		MemoryReady:  true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.In == nil {
		opts.In = strings.NewReader("")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Shell{runner: r, opts: opts, lines: readLines(opts.In)}
}

// SessionID returns the session the shell writes to.
func (s *Shell) SessionID() string { return s.opts.SessionID }

// readLines feeds input lines into a channel so reads can be abandoned on
// cancellation. The channel closes at EOF.
func readLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

// errEOF signals the end of input.
var errEOF = errors.New("end of input")

func (s *Shell) readLine(ctx context.Context, prompt string) (string, error) {
	s.print(prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", errEOF
		}
		return line, nil
	}
}

func (s *Shell) print(a ...any)                 { _, _ = fmt.Fprint(s.opts.Out, a...) }
func (s *Shell) println(a ...any)               { _, _ = fmt.Fprintln(s.opts.Out, a...) }
func (s *Shell) printf(format string, a ...any) { _, _ = fmt.Fprintf(s.opts.Out, format, a...) }

// Menu shows the start menu until exit, EOF or cancellation.
func (s *Shell) Menu(ctx context.Context) error {
	s.banner()
	for {
		choice, err := s.readLine(ctx, "\n"+menuPrompt)
		if err != nil {
			if errors.Is(err, errEOF) {
				s.println()
				return nil
			}
			s.println("\n\n" + MenuInterrupted)
			return nil
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "exit":
			s.println("\n" + MenuGoodbye)
			return nil
		case "", "demo":
			if done := s.Demo(ctx, false); done {
				return nil
			}
		case "chat":
			if done := s.Chat(ctx); done {
				return nil
			}
		case "help":
			s.Help()
		default:
			s.println(invalidChoice)
		}
	}
}

func (s *Shell) banner() {
	s.println("👗 智能穿搭助手 Ginny")
	s.println(strings.Repeat("=", 50))
	s.println("🌟 讓 Ginny 造型師為您打造完美穿搭！")
	if s.opts.MemoryReady {
		s.println("🧠 已啟用記憶功能 - 會記住您的偏好！")
	} else {
		s.println("⚠️  記憶功能未設定（MEM0_API_KEY），本次不會記住偏好")
	}
	if s.opts.WeatherReady {
		s.println("🌤️  天氣 API 已準備就緒！")
	} else {
		s.println("\n⚠️  提醒：請設定 OPENWEATHER_API_KEY 環境變數以啟用天氣功能")
		s.println("免費申請：https://openweathermap.org/api")
	}
	s.println("\n選項：")
	s.println("  'demo' - 開始實際展示（推薦）")
	s.println("  'chat' - 一般互動模式")
	s.println("  'help' - 查看詳細說明")
	s.println("  'exit' - 結束程式")
}

// Help prints the feature overview.
func (s *Shell) Help() {
	s.println(`
👗 智能穿搭助手 Ginny

✨ 功能特色：
• 🤖 智能對話：主動詢問關鍵資訊
• 🌤️  天氣整合：根據天氣條件推薦
• 🧠 記憶學習：記住您的穿搭偏好
• 💼 場合適配：工作、約會、休閒等不同場景

💬 對話範例：
• "我明天要去約會，該穿什麼？"
• "下週有重要會議，幫我搭配正式一點的服裝"
• "今天天氣這麼熱，有什麼清爽的穿搭建議？"
• "我想要簡約風格的週末穿搭"

🎯 Ginny 會主動詢問：
• 具體場合和重要程度
• 地點和天氣需求
• 您的風格偏好
• 特殊需求或限制`)
}

// Chat runs the interactive loop. It returns true when input ended or the
// context was cancelled, false when the user typed an exit word.
func (s *Shell) Chat(ctx context.Context) bool {
	s.println("\n💬 開始與 Ginny 對話...")
	s.println("💡 小提示：你可以說「我明天要去約會」、「幫我搭配上班服裝」等")
	s.println("輸入 'exit' 結束對話")
	s.println()

	for {
		line, err := s.readLine(ctx, Prompt)
		if err != nil {
			if errors.Is(err, errEOF) {
				s.println()
				return true
			}
			s.println("\n\n" + InterruptBye)
			return true
		}

		if isExitWord(line) {
			s.println("\n" + Farewell)
			return false
		}

		res, err := s.runner.Run(ctx, s.opts.SessionID, line)
		if errors.Is(err, core.ErrEmptyInput) {
			continue
		}
		if err != nil {
			s.printf("\n❌ 發生錯誤: %v\n", err)
			s.println("請再試一次，或輸入 'exit' 結束對話")
			continue
		}

		s.println("\n" + ReplyPrefix + res.Reply)
		if s.opts.ShowTools {
			s.printTools(res.ToolCalls, false)
		}
		s.println()
	}
}

// Demo plays DemoScript through the runner, printing each reply with its
// tool calls, then continues with the chat loop unless scriptOnly is set.
// The return value follows Chat.
func (s *Shell) Demo(ctx context.Context, scriptOnly bool) bool {
	s.println("\n🎬 實際展示 AI 智能對話能力！")
	s.println(strings.Repeat("=", 50))
	s.println("💡 讓我們看看 AI 如何從零開始，像真正的造型師一樣：")
	s.println("   • 主動提問了解需求")
	s.println("   • 記住您的偏好")
	s.println("   • 提供個性化建議")

	for i, utterance := range DemoScript {
		if ctx.Err() != nil {
			s.println("\n\n" + InterruptBye)
			return true
		}
		s.printf("\n[%d/%d] %s%s\n", i+1, len(DemoScript), Prompt, utterance)
		res, err := s.runner.Run(ctx, s.opts.SessionID, utterance)
		if err != nil {
			s.printf("❌ 發生錯誤: %v\n", err)
			continue
		}
		s.println("\n" + ReplyPrefix + res.Reply)
		s.printTools(res.ToolCalls, true)
	}

	if scriptOnly {
		return true
	}

	s.println("\n🎯 現在換您試試看：")
	s.println("   「我需要穿搭建議」")
	s.println("   「明天要去約會」")
	s.println("   「幫我搭配上班服裝」")
	return s.Chat(ctx)
}

func (s *Shell) printTools(rec core.ToolCallRecord, detailed bool) {
	if len(rec) == 0 {
		s.println("🔧 未使用工具")
		return
	}
	s.println("🔧 工具調用：" + strings.Join(rec.Names(), ", "))
	if !detailed {
		return
	}
	for _, name := range rec.Names() {
		entry := rec[name]
		if entry.Output != "" {
			s.printf("   • %s → %s\n", name, indent(entry.Output))
		}
		if entry.Error != "" {
			s.printf("   • %s ⚠️ %s\n", name, indent(entry.Error))
		}
	}
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n     ")
}

func isExitWord(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, w := range exitWords {
		if l == w {
			return true
		}
	}
	return false
}
