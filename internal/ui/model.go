// Package ui implements the interactive terminal interface: the prompt
// library browser, the composer form and the generated-prompt preview.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"promptforge/internal/clipboard"
	"promptforge/internal/composer"
	"promptforge/internal/models"
	"promptforge/internal/service"
)

// ViewMode identifies the active screen.
type ViewMode int

const (
	ViewLibrary ViewMode = iota
	ViewDetail
	ViewCompose
	ViewPreview
)

// promptItem adapts a models.Prompt to the bubbles list item interface.
type promptItem struct {
	prompt     models.Prompt
	collection string
}

func (i promptItem) FilterValue() string { return i.prompt.Title }

func (i promptItem) Title() string {
	title := i.prompt.Title
	if i.prompt.Favorite {
		title = favoriteMarkerStyle.Render("★ ") + title
	}
	return title
}

func (i promptItem) Description() string {
	var parts []string
	if i.prompt.Description != "" {
		desc := i.prompt.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		parts = append(parts, desc)
	}
	if len(i.prompt.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(i.prompt.Tags, ", "))
	}
	if i.collection != "" {
		parts = append(parts, i.collection)
	}
	if len(parts) == 0 {
		return "Last edited: " + i.prompt.UpdatedAt.Format("2006-01-02 15:04")
	}
	return strings.Join(parts, " • ")
}

// generatedMsg fires when the artificial composition delay elapses.
type generatedMsg struct {
	output string
}

// statusExpiredMsg clears the transient status line.
type statusExpiredMsg struct{}

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	Compose   key.Binding
	Favorite  key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	Search    key.Binding
	Favorites key.Binding
	Copy      key.Binding
	Save      key.Binding
	Generate  key.Binding
	CycleTask key.Binding
	CycleTone key.Binding
	CycleLen  key.Binding
	Template  key.Binding
	Back      key.Binding
	Quit      key.Binding
}

var keys = KeyMap{
	Compose:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new prompt")),
	Favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
	Duplicate: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "duplicate")),
	Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Favorites: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "favorites only")),
	Copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
	Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save to library")),
	Generate:  key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
	CycleTask: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "task type")),
	CycleTone: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "tone")),
	CycleLen:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "length")),
	Template:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "template")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the root bubbletea model.
type Model struct {
	service *service.Service
	keys    KeyMap

	mode     ViewMode
	width    int
	height   int
	status   string
	errorMsg string

	// Library view
	promptList  list.Model
	searchInput textinput.Model
	searching   bool

	// Compose view
	input         textarea.Model
	taskIndex     int
	toneIndex     int
	lengthIndex   int
	templateIndex int
	generating    bool
	spin          spinner.Model
	delay         time.Duration

	// Preview view
	generated string
	rendered  string

	// Detail view
	detail models.Prompt
}

// NewModel creates the root model. delay is the fixed artificial pause
// before composing, kept for parity with the generation UX.
func NewModel(svc *service.Service, delay time.Duration) *Model {
	delegate := list.NewDefaultDelegate()
	promptList := list.New([]list.Item{}, delegate, 0, 0)
	promptList.Title = "Prompt Library"
	promptList.SetShowStatusBar(false)
	promptList.SetFilteringEnabled(false)

	searchInput := textinput.New()
	searchInput.Placeholder = "search prompts..."

	input := textarea.New()
	input.Placeholder = "Describe what you want to create..."
	input.SetHeight(6)

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := &Model{
		service:     svc,
		keys:        keys,
		mode:        ViewLibrary,
		promptList:  promptList,
		searchInput: searchInput,
		input:       input,
		spin:        spin,
		delay:       delay,
		toneIndex:   indexOf(composer.Tones(), composer.DefaultTone),
		lengthIndex: indexOf(composer.Lengths(), composer.DefaultLength),
	}
	m.refreshPromptList()
	return m
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return 0
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
		m.promptList.SetSize(msg.Width-4, msg.Height-6)
		m.input.SetWidth(msg.Width - 6)
		return m, nil

	case generatedMsg:
		m.generating = false
		m.generated = msg.output
		m.rendered = m.renderMarkdown(msg.output)
		m.mode = ViewPreview
		m.setStatus("Prompt generated!")
		return m, m.clearStatusLater()

	case statusExpiredMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ViewLibrary:
		return m.updateLibrary(msg)
	case ViewDetail:
		return m.updateDetail(msg)
	case ViewCompose:
		return m.updateCompose(msg)
	case ViewPreview:
		return m.updatePreview(msg)
	}
	return m, nil
}

func (m *Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.searchInput.Blur()
			search := m.searchInput.Value()
			m.service.Store().SetFilters(models.FilterUpdate{Search: &search})
			m.refreshPromptList()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Compose):
		m.mode = ViewCompose
		m.input.Focus()
		return m, textarea.Blink
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Favorites):
		fav := !m.service.Store().Filters().FavoritesOnly
		m.service.Store().SetFilters(models.FilterUpdate{FavoritesOnly: &fav})
		m.refreshPromptList()
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		if p, ok := m.selectedPrompt(); ok {
			m.service.Store().ToggleFavorite(p.ID)
			m.refreshPromptList()
		}
		return m, nil
	case key.Matches(msg, m.keys.Duplicate):
		if p, ok := m.selectedPrompt(); ok {
			if dup, ok := m.service.Store().DuplicatePrompt(p.ID); ok {
				m.setStatus(fmt.Sprintf("Duplicated as %q", dup.Title))
				m.refreshPromptList()
				return m, m.clearStatusLater()
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.selectedPrompt(); ok {
			m.service.Store().DeletePrompt(p.ID)
			m.refreshPromptList()
		}
		return m, nil
	case msg.String() == "enter":
		if p, ok := m.selectedPrompt(); ok {
			m.service.Store().SelectPrompt(p.ID)
			m.detail = p
			m.mode = ViewDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.promptList, cmd = m.promptList.Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ViewLibrary
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		if err := clipboard.Copy(m.detail.Body); err != nil {
			m.errorMsg = err.Error()
		} else {
			m.setStatus("Copied to clipboard")
		}
		return m, m.clearStatusLater()
	case key.Matches(msg, m.keys.Favorite):
		m.service.Store().ToggleFavorite(m.detail.ID)
		if p, ok := m.service.Store().Prompt(m.detail.ID); ok {
			m.detail = p
		}
		m.refreshPromptList()
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ViewLibrary
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.CycleTask):
		m.taskIndex = (m.taskIndex + 1) % len(composer.TaskTypes())
		return m, nil
	case key.Matches(msg, m.keys.CycleTone):
		m.toneIndex = (m.toneIndex + 1) % len(composer.Tones())
		return m, nil
	case key.Matches(msg, m.keys.CycleLen):
		m.lengthIndex = (m.lengthIndex + 1) % len(composer.Lengths())
		return m, nil
	case key.Matches(msg, m.keys.Template):
		return m.applyNextTemplate()
	case key.Matches(msg, m.keys.Generate):
		return m.startGeneration()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyNextTemplate cycles through the starter templates, pre-filling the
// composer input and task type.
func (m *Model) applyNextTemplate() (tea.Model, tea.Cmd) {
	templates := m.service.Templates()
	if len(templates) == 0 {
		return m, nil
	}
	t := templates[m.templateIndex%len(templates)]
	m.templateIndex++
	m.input.SetValue(t.DefaultInput + " ")
	m.taskIndex = indexOf(composer.TaskTypes(), t.TaskType)
	m.setStatus(fmt.Sprintf("Template loaded: %s", t.Title))
	return m, m.clearStatusLater()
}

// startGeneration kicks off the fixed artificial delay before composing.
func (m *Model) startGeneration() (tea.Model, tea.Cmd) {
	if strings.TrimSpace(m.input.Value()) == "" {
		m.errorMsg = "Describe what you want to create first."
		return m, nil
	}
	m.errorMsg = ""
	m.generating = true
	cfg := m.composerConfig()
	generate := tea.Tick(m.delay, func(time.Time) tea.Msg {
		return generatedMsg{output: m.service.Generate(cfg)}
	})
	return m, tea.Batch(m.spin.Tick, generate)
}

func (m *Model) composerConfig() composer.Config {
	return composer.Config{
		Input:    m.input.Value(),
		TaskType: composer.TaskTypes()[m.taskIndex],
		Tone:     composer.Tones()[m.toneIndex],
		Length:   composer.Lengths()[m.lengthIndex],
	}
}

func (m *Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ViewCompose
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		if err := clipboard.Copy(m.generated); err != nil {
			m.errorMsg = err.Error()
		} else {
			m.setStatus("Copied to clipboard")
		}
		return m, m.clearStatusLater()
	case key.Matches(msg, m.keys.Save):
		cfg := m.composerConfig()
		title := strings.TrimSpace(cfg.Input)
		if len(title) > 60 {
			title = title[:60]
		}
		p := m.service.Store().AddPrompt(models.PromptDraft{
			Title: title,
			Body:  m.generated,
			Tags:  []string{cfg.TaskType},
		})
		m.refreshPromptList()
		m.setStatus(fmt.Sprintf("Saved as %q", p.Title))
		return m, m.clearStatusLater()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) selectedPrompt() (models.Prompt, bool) {
	item, ok := m.promptList.SelectedItem().(promptItem)
	if !ok {
		return models.Prompt{}, false
	}
	return item.prompt, true
}

// refreshPromptList rebuilds the list items from the filtered library view.
func (m *Model) refreshPromptList() {
	prompts := m.service.FilteredPrompts()
	items := make([]list.Item, 0, len(prompts))
	for _, p := range prompts {
		item := promptItem{prompt: p}
		if p.CollectionID != "" {
			item.collection = m.service.CollectionName(p.CollectionID)
		}
		items = append(items, item)
	}
	m.promptList.SetItems(items)
}

func (m *Model) renderMarkdown(text string) string {
	width := m.width - 4
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.errorMsg = ""
}

func (m *Model) clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.mode {
	case ViewLibrary:
		body = m.viewLibrary()
	case ViewDetail:
		body = m.viewDetail()
	case ViewCompose:
		body = m.viewCompose()
	case ViewPreview:
		body = m.viewPreview()
	}

	footer := ""
	if m.errorMsg != "" {
		footer = errorStyle.Render(m.errorMsg)
	} else if m.status != "" {
		footer = statusStyle.Render(m.status)
	}
	if footer != "" {
		return body + "\n" + footer
	}
	return body
}

func (m *Model) viewLibrary() string {
	var b strings.Builder
	if m.searching {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.promptList.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n new • enter view • f favorite • y duplicate • x delete • / search • F favorites • q quit"))
	return b.String()
}

func (m *Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.detail.Title))
	b.WriteString("\n")
	if m.detail.Description != "" {
		b.WriteString(helpStyle.Render(m.detail.Description))
		b.WriteString("\n")
	}
	meta := fmt.Sprintf("Tags: %s  Favorite: %t  Updated: %s",
		strings.Join(m.detail.Tags, ", "),
		m.detail.Favorite,
		m.detail.UpdatedAt.Format("2006-01-02 15:04"))
	b.WriteString(helpStyle.Render(meta))
	b.WriteString("\n")
	if len(m.detail.Variables) > 0 {
		var names []string
		for _, v := range m.detail.Variables {
			names = append(names, v.Name)
		}
		b.WriteString(helpStyle.Render("Variables: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(paneStyle.Width(max(40, m.width-4)).Render(m.detail.Body))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("c copy • f favorite • esc back • q quit"))
	return b.String()
}

func (m *Model) viewCompose() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Compose Prompt"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Task: "))
	b.WriteString(optionStyle.Render(composer.TaskTypes()[m.taskIndex]))
	b.WriteString(labelStyle.Render("   Tone: "))
	b.WriteString(optionStyle.Render(composer.Tones()[m.toneIndex]))
	b.WriteString(labelStyle.Render("   Length: "))
	b.WriteString(optionStyle.Render(composer.Lengths()[m.lengthIndex]))
	b.WriteString("\n\n")
	if m.generating {
		b.WriteString(m.spin.View())
		b.WriteString(" Generating...")
	} else {
		b.WriteString(helpStyle.Render("ctrl+g generate • ctrl+t/o/l cycle options • ctrl+p template • esc back"))
	}
	return b.String()
}

func (m *Model) viewPreview() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Generated Prompt"))
	b.WriteString("\n")
	b.WriteString(m.rendered)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("c copy • s save to library • esc edit • q quit"))
	return b.String()
}
