package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/theme"
)

// Modes offered by the form.
const (
	ModeSignIn = "signin"
	ModeSignUp = "signup"
)

// SubmittedMsg is dispatched when the user completes the form with
// credentials that pass local validation.
type SubmittedMsg struct {
	Mode        string
	Credentials model.Credentials
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	mode     string
	email    string
	password string
	name     string
}

// Model is the sign in / sign up screen.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	err    string
	busy   bool
	width  int
	height int
}

// New creates a login model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{mode: ModeSignIn},
		width:  width,
		height: height,
	}
}

// Start (re)builds the form. The email and mode of the previous attempt
// are kept; the password is cleared.
func (m *Model) Start() tea.Cmd {
	m.busy = false
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Init returns the form's initial command.
func (m Model) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

// SetError shows msg above the form.
func (m *Model) SetError(msg string) {
	m.err = msg
	m.busy = false
}

// SetBusy marks a submission as in flight.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		creds := model.Credentials{
			Email:    strings.TrimSpace(m.fb.email),
			Password: m.fb.password,
		}
		if m.fb.mode == ModeSignUp {
			creds.Name = strings.TrimSpace(m.fb.name)
		}
		if err := creds.Validate(); err != nil {
			m.err = err.Error()
			return m, m.Start()
		}
		m.err = ""
		m.busy = true
		mode := m.fb.mode
		return m, func() tea.Msg { return SubmittedMsg{Mode: mode, Credentials: creds} }

	case huh.StateAborted:
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the login screen.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Train Admin")}
	if m.err != "" {
		parts = append(parts, theme.ErrorTextStyle.Render(m.err))
	}
	if m.busy {
		verb := "Signing in..."
		if m.fb.mode == ModeSignUp {
			verb = "Creating account..."
		}
		parts = append(parts, theme.DimmedStyle.Render(verb))
	} else if m.form != nil {
		parts = append(parts, m.form.View())
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Sign in", ModeSignIn),
					huh.NewOption("Sign up", ModeSignUp),
				).
				Value(&m.fb.mode),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(required("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(required("Password")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("optional").
				Value(&m.fb.name),
		).WithHideFunc(func() bool { return m.fb.mode != ModeSignUp }),
	).WithWidth(min(max(m.width-4, 40), 80))
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errRequired(field)
		}
		return nil
	}
}

type errRequired string

func (e errRequired) Error() string { return string(e) + " is required" }
