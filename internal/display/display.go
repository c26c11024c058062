// Package display shows a running decipher in the terminal: a progress
// bar over epochs, the latest decoded preview, and the final key.
package display

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/domino14/cipher_breaker/internal/search"
)

const (
	defaultWidth = 80
	maxBarWidth  = 60
	// Snapshots arriving closer together than this are dropped.
	sendInterval = 50 * time.Millisecond
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyStyle   = lipgloss.NewStyle().Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type snapshotMsg search.Snapshot

type doneMsg struct {
	res search.Result
	err error
}

type model struct {
	title      string
	epochLimit int
	pause      bool
	width      int
	progress   progress.Model

	last      search.Snapshot
	done      bool
	res       search.Result
	err       error
	cancelled bool
}

func newModel(title string, epochLimit int, pause bool) model {
	return model{
		title:      title,
		epochLimit: epochLimit,
		pause:      pause,
		width:      defaultWidth,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			return m, tea.Quit
		}
		if m.done {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-4, 10), maxBarWidth)
	case snapshotMsg:
		m.last = search.Snapshot(msg)
	case doneMsg:
		m.done = true
		m.res = msg.res
		m.err = msg.err
		if !m.pause || msg.err != nil {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) fraction() float64 {
	epoch := m.last.Epoch
	if m.done {
		epoch = m.res.Epochs
	}
	if m.epochLimit <= 0 {
		return 0
	}
	return min(float64(epoch)/float64(m.epochLimit), 1)
}

func (m model) preview(s string) string {
	return runewidth.Truncate(s, max(m.width-4, 10), "...")
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title) + "\n\n")
	sb.WriteString(m.progress.ViewAs(m.fraction()) + "\n\n")

	if !m.done {
		fmt.Fprintf(&sb, "epoch %d  energy %.2f\n", m.last.Epoch, m.last.Energy)
		sb.WriteString("  " + m.preview(m.last.Preview) + "\n")
		return sb.String()
	}
	if m.err != nil {
		sb.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s after %d epochs  energy %.2f\n", m.res.State, m.res.Epochs, m.res.Energy)
	sb.WriteString("key: " + keyStyle.Render(m.res.Key.String()) + "\n")
	sb.WriteString("  " + m.preview(m.res.Plaintext) + "\n")
	if m.pause {
		sb.WriteString("\n" + dimStyle.Render("press any key to continue") + "\n")
	}
	return sb.String()
}

// Job runs one search, reporting through observe.
type Job func(ctx context.Context, observe search.Observer) (search.Result, error)

// Run shows job's progress until it finishes. With pause, the final
// screen stays up until a key is pressed. Ctrl-C cancels the job and
// returns its partial result with context.Canceled.
func Run(ctx context.Context, title string, epochLimit int, pause bool, job Job) (search.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title, epochLimit, pause))
	type outcome struct {
		res search.Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		var lastSent time.Time
		res, err := job(ctx, func(s search.Snapshot) {
			if time.Since(lastSent) < sendInterval {
				return
			}
			lastSent = time.Now()
			p.Send(snapshotMsg(s))
		})
		done <- outcome{res, err}
		p.Send(doneMsg{res, err})
	}()

	final, err := p.Run()
	cancel()
	o := <-done
	if err != nil {
		return o.res, fmt.Errorf("display: %w", err)
	}
	if fm, ok := final.(model); ok && fm.cancelled && o.err == nil {
		return o.res, context.Canceled
	}
	return o.res, o.err
}
