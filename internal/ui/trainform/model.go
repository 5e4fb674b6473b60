package trainform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/theme"
)

// CreateSubmittedMsg is dispatched when the create form is completed.
type CreateSubmittedMsg struct {
	Draft model.CreateTrainDto
}

// UpdateSubmittedMsg is dispatched when the edit form is completed. Patch
// holds only the fields the user changed.
type UpdateSubmittedMsg struct {
	ID    string
	Patch model.UpdateTrainDto
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	number      string
	origin      string
	destination string
	departure   string
	arrival     string
}

func bindingsFor(t model.Train) formBindings {
	return formBindings{
		name:        t.Name,
		number:      t.Number,
		origin:      t.Origin,
		destination: t.Destination,
		departure:   t.Departure,
		arrival:     t.Arrival,
	}
}

// Model is the Bubble Tea model for the train create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	original model.Train
	width    int
	height   int
}

// New creates a new train form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new train.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.original = model.Train{}
	*m.fb = formBindings{}
	m.form = m.buildForm(true)
	return m.form.Init()
}

// StartEdit initializes the form with the fields of an existing train.
func (m *Model) StartEdit(t model.Train) tea.Cmd {
	m.editMode = true
	m.original = t
	*m.fb = bindingsFor(t)
	m.form = m.buildForm(false)
	return m.form.Init()
}

// Update handles messages for the train form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the train form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Train"
	if m.editMode {
		titleText = "Edit " + m.original.Name
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// buildForm lays out the train fields. On create every field except the
// number is required; on edit every field is optional.
func (m *Model) buildForm(create bool) *huh.Form {
	text := func(title, placeholder string, value *string) *huh.Input {
		in := huh.NewInput().Title(title).Placeholder(placeholder).Value(value)
		if create {
			in.Validate(validateRequired(title))
		}
		return in
	}

	return huh.NewForm(
		huh.NewGroup(
			text("Name", "Night Express", &m.fb.name),
			huh.NewInput().
				Title("Number").
				Placeholder("optional, e.g. ICE 1234").
				Value(&m.fb.number),
			text("Origin", "Vienna", &m.fb.origin),
			text("Destination", "Munich", &m.fb.destination),
			huh.NewInput().
				Title("Departure").
				Placeholder("YYYY-MM-DD HH:MM").
				Value(&m.fb.departure).
				Validate(validateTimestamp("Departure", create)),
			huh.NewInput().
				Title("Arrival").
				Placeholder("YYYY-MM-DD HH:MM").
				Value(&m.fb.arrival).
				Validate(validateTimestamp("Arrival", create)),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(formKeyMap())
}

// formKeyMap lets esc abandon the form.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	return km
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	if m.editMode {
		id := m.original.ID
		patch := buildPatch(m.original, fb)
		return func() tea.Msg { return UpdateSubmittedMsg{ID: id, Patch: patch} }
	}
	draft := buildDraft(fb)
	return func() tea.Msg { return CreateSubmittedMsg{Draft: draft} }
}

func buildDraft(fb formBindings) model.CreateTrainDto {
	return model.CreateTrainDto{
		Name:        strings.TrimSpace(fb.name),
		Number:      strings.TrimSpace(fb.number),
		Origin:      strings.TrimSpace(fb.origin),
		Destination: strings.TrimSpace(fb.destination),
		Departure:   strings.TrimSpace(fb.departure),
		Arrival:     strings.TrimSpace(fb.arrival),
	}
}

// buildPatch returns a patch with the fields that differ from orig.
func buildPatch(orig model.Train, fb formBindings) model.UpdateTrainDto {
	changed := func(before, after string) *string {
		after = strings.TrimSpace(after)
		if after == before {
			return nil
		}
		return &after
	}
	return model.UpdateTrainDto{
		Name:        changed(orig.Name, fb.name),
		Number:      changed(orig.Number, fb.number),
		Origin:      changed(orig.Origin, fb.origin),
		Destination: changed(orig.Destination, fb.destination),
		Departure:   changed(orig.Departure, fb.departure),
		Arrival:     changed(orig.Arrival, fb.arrival),
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateTimestamp(fieldName string, required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return fmt.Errorf("%s is required", fieldName)
			}
			return nil
		}
		if _, ok := model.ParseTimestamp(s); !ok {
			return fmt.Errorf("%s must be a date, e.g. 2024-05-01 08:30", fieldName)
		}
		return nil
	}
}
