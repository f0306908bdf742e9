// Package app hosts the questionnaire in a Bubble Tea program. The root
// model is the single surface the controller mounts screens on.
package app

import (
	"fmt"
	"net/http"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/config"
	"github.com/abhisek/fragebogen/internal/controller"
	"github.com/abhisek/fragebogen/internal/definition"
	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/screen"
	"github.com/abhisek/fragebogen/internal/ui/components"
	"github.com/abhisek/fragebogen/internal/ui/layout"
	"github.com/abhisek/fragebogen/internal/widgets"
)

// Options are the inputs of a questionnaire run.
type Options struct {
	Config     config.Config
	Definition *definition.Definition
	Log        diag.Logger
	SessionID  string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl  *controller.Controller
	term  *widgets.Terminal
	log   diag.Logger
	title string

	mounted     screen.Screen
	placeholder string
	done        bool

	width  int
	height int
}

var _ controller.Surface = (*Model)(nil)

// New builds the screens of opts.Definition on l and wires them to a
// controller mounted on the returned model. Preloading is not started.
func New(opts Options, l loop.Loop) (*Model, error) {
	log := diag.Or(opts.Log)
	m := &Model{
		term:  &widgets.Terminal{Width: 80, Height: 24},
		log:   log,
		title: opts.Definition.Title,
	}

	screens, err := definition.Build(opts.Definition, definition.Deps{
		Widgets: widgets.Deps{
			Loop:     l,
			Log:      log,
			HTTP:     &http.Client{Timeout: opts.Config.HTTPTimeout},
			Terminal: m.term,
		},
		HTTP:      &http.Client{},
		SessionID: opts.SessionID,
		OutputDir: opts.Config.OutputDir,
	})
	if err != nil {
		return nil, fmt.Errorf("build screens: %w", err)
	}

	m.ctrl = controller.New(
		controller.WithLoop(l),
		controller.WithLogger(log),
		controller.WithSettleDelay(opts.Config.SettleDelay),
	)
	for _, s := range screens {
		m.ctrl.AddScreen(s)
	}
	m.ctrl.SetCallbackScreenFinished(m.onScreenFinished)
	m.ctrl.Init(m)
	return m, nil
}

// Controller returns the controller driving the model.
func (m *Model) Controller() *controller.Controller { return m.ctrl }

// Mount implements controller.Surface.
func (m *Model) Mount(s screen.Screen) {
	m.mounted = s
	if m.width > 0 {
		// Screens size their handles from the last window size.
		s.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
}

func (m *Model) Unmount() { m.mounted = nil }

func (m *Model) ShowPlaceholder(content string) { m.placeholder = content }

// onScreenFinished ends the program when the last screen asks to move on.
func (m *Model) onScreenFinished(offset int) bool {
	if offset > 0 && m.ctrl.IsLastScreen() {
		m.log.Info("app.onScreenFinished", "questionnaire finished")
		m.done = true
		return false
	}
	return true
}

// Done reports whether the questionnaire has been completed.
func (m *Model) Done() bool { return m.done }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case loop.Msg:
		msg.Run()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.term.Width = msg.Width
		m.term.Height = msg.Height
		cmd = m.forward(msg)

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.ctrl.Stop()
			return m, tea.Quit
		}
		cmd = m.forward(msg)

	default:
		cmd = m.forward(msg)
	}

	if m.done {
		m.ctrl.Stop()
		return m, tea.Batch(cmd, tea.Quit)
	}
	return m, cmd
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	if m.mounted == nil {
		return nil
	}
	return m.mounted.Update(msg)
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	v.WindowTitle = m.title
	return v
}

// render draws the frame for the current window size.
func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := m.title
	index, total := 0, 0
	if m.mounted != nil {
		if t := m.mounted.Title(); t != "" {
			title = t
		}
		index, total = m.ctrl.CurrentScreenIndex(), len(m.ctrl.Screens())
	}
	header := layout.RenderHeader(title, index, total, m.width)

	var hints []layout.KeyHint
	if p, ok := m.mounted.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := layout.ContentHeight(header, footer, m.height)

	var content string
	if m.mounted != nil {
		content = m.mounted.View(m.width, contentHeight)
	} else {
		content = components.CenteredMessage(m.placeholder, m.width, contentHeight)
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run preloads the questionnaire and runs it until it is finished or the
// user quits.
func Run(opts Options) error {
	lp := loop.NewProgram()
	m, err := New(opts, lp)
	if err != nil {
		return err
	}
	m.ctrl.Preload(opts.Config.Placeholder)

	p := tea.NewProgram(m)
	lp.Bind(p.Send)
	_, err = p.Run()
	lp.Close()
	m.ctrl.Stop()
	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
