// Package tui provides the terminal user interface for Budget Chat.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"budgetchat/internal/bridge"
	"budgetchat/internal/config"
	"budgetchat/internal/controller"
	"budgetchat/internal/debug"
	"budgetchat/internal/pubsub"
	"budgetchat/internal/speech"
	"budgetchat/internal/tui/page/chat"
	"budgetchat/internal/tui/styles"
)

// Model is the main TUI model.
type Model struct {
	chatPage *chat.Model
	program  *tea.Program
	hub      *pubsub.Hub
	bridge   *bridge.Bridge
	width    int
	height   int
	ready    bool
}

// New creates the root TUI model.
func New(ctrl *controller.Controller, hub *pubsub.Hub, synth speech.Synthesizer, recog speech.Recognizer, speechLang string) *Model {
	return &Model{
		chatPage: chat.New(ctrl, hub, synth, recog, speechLang),
		hub:      hub,
	}
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	return m.chatPage.Init()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.chatPage.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		debug.Event("tui", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))
	}

	var cmd tea.Cmd
	m.chatPage, cmd = m.chatPage.Update(msg)
	return m, cmd
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	view.Content = m.chatPage.View()
	view.Cursor = m.chatPage.Cursor()
	return view
}

// Run starts the TUI program.
func Run(cfg *config.Config, ctrl *controller.Controller, hub *pubsub.Hub, synth speech.Synthesizer, recog speech.Recognizer) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("budgetchat requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	styles.SetTheme(cfg.Theme)

	model := New(ctrl, hub, synth, recog, cfg.SpeechLanguage)
	// In Bubble Tea v2, AltScreen and MouseMode are set in View()
	p := tea.NewProgram(model)
	model.program = p

	if hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		b := bridge.New(hub, p)
		model.bridge = b
		b.Start(ctx)
		defer b.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
