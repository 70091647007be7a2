// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/report"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/text"
)

type viewMode int

const (
	viewTyping viewMode = iota
	viewReport
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	config     model.Config
	store      *store.Store
	source     text.Source
	reportOpts report.Options

	sess *engine.Session
	now  func() time.Time

	width  int
	height int

	mode     viewMode
	rep      model.SessionReport
	vp       viewport.Model
	vpReady  bool
	saveErr  error
	exported string
	exportFn func(model.SessionReport) (string, error)
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	frozenStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// NewModel constructs a typing TUI model for the given source.
func NewModel(cfg model.Config, st *store.Store, source text.Source, opts report.Options) (*Model, error) {
	m := &Model{
		config:     cfg,
		store:      st,
		source:     source,
		reportOpts: opts,
		now:        time.Now,
	}
	m.exportFn = func(rep model.SessionReport) (string, error) {
		return report.Export(rep, "")
	}
	if err := m.startSession(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) startSession() error {
	sess, err := engine.New(m.source.Content, m.source.Name, engine.Options{
		FreezeThreshold: m.config.FreezeThreshold,
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	m.sess = sess
	m.mode = viewTyping
	m.saveErr = nil
	m.exported = ""
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		return m, nil
	case tea.KeyMsg:
		if m.mode == viewReport {
			return m.updateReport(msg)
		}
		return m.updateTyping(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlQ, tea.KeyEsc:
		m.finishSession()
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		// ErrSessionEnded cannot occur here; completion switches views.
		_ = m.sess.SubmitBackspace(m.now())
		return m, nil
	case tea.KeySpace:
		m.submitRunes([]rune{' '})
		return m, nil
	case tea.KeyEnter:
		m.submitRunes([]rune{'\n'})
		return m, nil
	case tea.KeyTab:
		m.submitRunes([]rune{' ', ' ', ' ', ' '})
		return m, nil
	case tea.KeyRunes:
		m.submitRunes(msg.Runes)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlQ, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "e":
			path, err := m.exportFn(m.rep)
			if err != nil {
				m.exported = fmt.Sprintf("export failed: %v", err)
			} else {
				m.exported = fmt.Sprintf("saved %s", path)
			}
			return m, nil
		case "r":
			if err := m.startSession(); err != nil {
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *Model) submitRunes(runes []rune) {
	for _, r := range runes {
		if _, err := m.sess.SubmitRune(r, m.now()); err != nil {
			break
		}
	}
	if m.sess.Snapshot().Status == engine.StatusCompleted {
		m.finishSession()
	}
}

func (m *Model) finishSession() {
	m.sess.End(m.now())
	m.rep = report.Build(m.sess.Log(), m.reportOpts)
	m.mode = viewReport
	m.resizeViewport()
	if m.store != nil {
		if _, err := m.store.InsertReport(context.Background(), m.rep); err != nil {
			m.saveErr = err
		}
	}
}

func (m *Model) resizeViewport() {
	if m.mode != viewReport || m.width == 0 || m.height < 3 {
		return
	}
	height := m.height - 2
	if !m.vpReady {
		m.vp = viewport.New(m.width, height)
		m.vpReady = true
	} else {
		m.vp.Width = m.width
		m.vp.Height = height
	}
	m.vp.SetContent(renderReport(m.rep, m.width))
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == viewReport {
		return m.viewReport()
	}
	return m.viewTyping()
}

func (m *Model) viewTyping() string {
	snap := m.sess.Snapshot()
	target := m.sess.Target()
	cursorIndex := -1
	if len(snap.Input) < len(target) {
		cursorIndex = len(snap.Input)
	}
	styledRunes := buildStyledRunes(target, snap.Input, cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter(snap)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter(snap engine.Snapshot) string {
	target := m.sess.Target()
	progress := 0
	if len(target) > 0 {
		progress = snap.Cursor * 100 / len(target)
	}
	segments := []string{
		m.source.Name,
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Errors %d", snap.ErrorCount),
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if snap.Status == engine.StatusFrozen {
		footer += "  " + frozenStyle.Render("FROZEN backspace to fix")
	} else if snap.ErrorOutstanding {
		footer += "  " + frozenStyle.Render("fix the error")
	}
	return footer
}

func (m *Model) viewReport() string {
	if !m.vpReady {
		return renderReport(m.rep, m.width)
	}
	status := "e export  r retry  q quit"
	if m.exported != "" {
		status = m.exported + "  " + status
	}
	if m.saveErr != nil {
		status = fmt.Sprintf("save failed: %v  ", m.saveErr) + status
	}
	return m.vp.View() + "\n" + footerStyle.Render(status)
}
