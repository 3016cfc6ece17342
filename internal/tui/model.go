package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docqa/backend/internal/models"
)

// Backend is the TUI-facing subset of the API client.
type Backend interface {
	Ask(ctx context.Context, question string) (string, error)
	Upload(ctx context.Context, path string) (*models.UploadResult, error)
	Files(ctx context.Context) ([]models.FileInfo, error)
	Clear(ctx context.Context) (string, error)
}

const helpText = "Soru yazıp Enter'a basın. Komutlar: :upload DOSYA, :files, :clear, :quit"

// Messages produced by backend commands.
type (
	answerMsg struct {
		question, answer string
	}
	uploadMsg struct{ result *models.UploadResult }
	filesMsg  struct{ files []models.FileInfo }
	clearMsg  struct{ message string }
	errMsg    struct{ err error }
)

// Model is the Bubble Tea model for the question/answer terminal client.
type Model struct {
	backend  Backend
	timeout  time.Duration
	input    textinput.Model
	viewport viewport.Model
	content  string
	status   string
	busy     bool
	ready    bool
}

// New creates a new TUI model instance.
func New(backend Backend, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Alice kimdir?"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		backend:  backend,
		timeout:  timeout,
		input:    ti,
		viewport: viewport.New(0, 0),
		content:  helpText,
		status:   "Hazır.",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and backend result messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.content)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.busy {
				return m, nil
			}
			m.input.SetValue("")
			return m.submit(line)
		}

	case answerMsg:
		m.busy = false
		m.status = "Cevaplandı."
		m.setContent(questionStyle.Render("Soru: "+msg.question) + "\n\n" + msg.answer)
		return m, nil

	case uploadMsg:
		m.busy = false
		m.status = fmt.Sprintf("Yüklendi: %s (%d bayt)", msg.result.Filename, msg.result.Size)
		m.setContent(msg.result.Message)
		return m, nil

	case filesMsg:
		m.busy = false
		m.status = fmt.Sprintf("%d dosya", len(msg.files))
		m.setContent(renderFiles(msg.files))
		return m, nil

	case clearMsg:
		m.busy = false
		m.status = msg.message
		m.setContent(msg.message)
		return m, nil

	case errMsg:
		m.busy = false
		m.status = errorStyle.Render("Hata: " + msg.err.Error())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case line == ":quit" || line == ":q":
		return m, tea.Quit
	case line == ":files":
		cmd = m.call(func(ctx context.Context) tea.Msg {
			files, err := m.backend.Files(ctx)
			if err != nil {
				return errMsg{err}
			}
			return filesMsg{files}
		})
	case line == ":clear":
		cmd = m.call(func(ctx context.Context) tea.Msg {
			message, err := m.backend.Clear(ctx)
			if err != nil {
				return errMsg{err}
			}
			return clearMsg{message}
		})
	case line == ":upload" || strings.HasPrefix(line, ":upload "):
		path := strings.TrimSpace(strings.TrimPrefix(line, ":upload"))
		if path == "" {
			m.status = errorStyle.Render("Kullanım: :upload DOSYA")
			return m, nil
		}
		cmd = m.call(func(ctx context.Context) tea.Msg {
			res, err := m.backend.Upload(ctx, path)
			if err != nil {
				return errMsg{err}
			}
			return uploadMsg{res}
		})
	case strings.HasPrefix(line, ":"):
		m.status = errorStyle.Render("Bilinmeyen komut: " + line)
		return m, nil
	default:
		cmd = m.call(func(ctx context.Context) tea.Msg {
			answer, err := m.backend.Ask(ctx, line)
			if err != nil {
				return errMsg{err}
			}
			return answerMsg{question: line, answer: answer}
		})
	}
	m.busy = true
	m.status = "İşleniyor..."
	return m, cmd
}

// call runs fn off the UI goroutine with the configured timeout.
func (m Model) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fn(ctx)
	}
}

func (m *Model) setContent(s string) {
	m.content = s
	m.viewport.SetContent(s)
	m.viewport.GotoTop()
}

// View renders the layout.
func (m Model) View() string {
	if !m.ready {
		return "Yükleniyor..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Doküman Soru-Cevap")
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + results + "\n" + input + "\n" + status
}

func renderFiles(files []models.FileInfo) string {
	if len(files) == 0 {
		return "Henüz dosya yüklenmemiş"
	}
	var b strings.Builder
	for _, f := range files {
		size := "-"
		if f.Size != nil {
			size = fmt.Sprintf("%d", *f.Size)
		}
		fmt.Fprintf(&b, "%-4d %-40s %-10s %10s  %s\n", f.ID, f.OriginalFilename, f.Status, size, f.Timestamp)
	}
	return strings.TrimRight(b.String(), "\n")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
