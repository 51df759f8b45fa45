// Package tui provides a Bubble Tea terminal user interface for partmate.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/musicpartmate/partmate/internal/config"
	"github.com/musicpartmate/partmate/internal/library"
	"github.com/musicpartmate/partmate/internal/logging"
	"github.com/musicpartmate/partmate/internal/model"
	"github.com/musicpartmate/partmate/internal/scan"
	"github.com/musicpartmate/partmate/internal/watch"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	artistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))
)

// State represents the current UI state.
type State int

const (
	StateBrowse State = iota
	StateDetails
	StateStats
	StateImport
	StateImporting
	StateImportDone
	StateConfirmDelete
)

// searchFields are the field selections the search bar cycles through.
var searchFields = []string{"all", "title", "artist", "style"}

// unknownArtistLabel heads the bucket for songs without an artist. It
// always sorts after the named artists.
const unknownArtistLabel = "Unknown Artist"

// maxVisibleRows caps the browse list when the terminal height is unknown.
const maxVisibleRows = 20

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   scan.Level
}

// row is one line of the browse list: an artist header or a song.
type row struct {
	header bool
	label  string
	song   *model.Song
}

// eventBuffer collects scanner events from import goroutines so the
// update loop can drain them on its own schedule.
type eventBuffer struct {
	mu     sync.Mutex
	events []scan.Event
}

func (b *eventBuffer) add(event scan.Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

func (b *eventBuffer) drain() []scan.Event {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()
	return events
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	lib      *library.Library
	settings *config.Settings

	searchInput textinput.Model
	pathInput   textinput.Model
	spinner     spinner.Model
	progress    progress.Model

	searching   bool
	searchField int
	rows        []row
	cursor      int

	logs []LogEntry
	err  error

	// Import run
	ctx      context.Context
	cancel   context.CancelFunc
	importer *scan.Importer
	events   *eventBuffer
	result   scan.Result

	doneFolders  int
	totalFolders int

	width  int
	height int
}

// NewModel creates a new TUI model around an opened library.
func NewModel(lib *library.Library, settings *config.Settings) Model {
	si := textinput.New()
	si.Placeholder = "title, artist or style..."
	si.CharLimit = 200
	si.Width = 40

	pi := textinput.New()
	pi.Placeholder = "/path/to/folder-of-songs"
	pi.CharLimit = 500
	pi.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:       StateBrowse,
		lib:         lib,
		settings:    settings,
		searchInput: si,
		pathInput:   pi,
		spinner:     sp,
		progress:    prog,
		events:      &eventBuffer{},
		ctx:         ctx,
		cancel:      cancel,
	}
	m.rebuildRows()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// ImportDoneMsg is sent when an import run finishes.
	ImportDoneMsg struct {
		Result scan.Result
		Err    error
	}

	// TickMsg drives periodic progress updates during an import.
	TickMsg struct{}

	// LibraryChangedMsg is sent by the file watcher when something
	// else rewrote the store.
	LibraryChangedMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		m.appendEvents(m.events.drain())
		if m.importer != nil && m.state == StateImporting {
			done, total := m.importer.Progress()
			m.doneFolders = done
			m.totalFolders = total

			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case ImportDoneMsg:
		m.appendEvents(m.events.drain())
		m.result = msg.Result
		if msg.Err != nil && m.ctx.Err() == nil {
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.err = nil
		}
		m.state = StateImportDone
		m.rebuildRows()

	case LibraryChangedMsg:
		// The import's own saves trip the watcher too; those reloads
		// would race the sink, and the rows are rebuilt on completion
		// anyway.
		if m.state == StateImporting {
			return m, nil
		}
		if err := m.lib.Load(); err != nil {
			m.logs = appendLog(m.logs, LogEntry{Message: fmt.Sprintf("Reload failed: %v", err), Level: scan.LevelError})
		} else {
			m.logs = appendLog(m.logs, LogEntry{Message: "Library reloaded after external change", Level: scan.LevelInfo})
			m.rebuildRows()
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateKey routes key presses. Focused text inputs swallow everything
// except their control keys so typing never triggers hotkeys.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}

	if m.state == StateBrowse && m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.rebuildRows()
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "tab":
			m.searchField = (m.searchField + 1) % len(searchFields)
			m.rebuildRows()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.rebuildRows()
			return m, cmd
		}
	}

	if m.state == StateImport {
		switch msg.String() {
		case "esc":
			m.pathInput.Blur()
			m.state = StateBrowse
			return m, nil
		case "enter":
			return m.startImport()
		default:
			var cmd tea.Cmd
			m.pathInput, cmd = m.pathInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		if m.state == StateBrowse || m.state == StateImportDone {
			return m, tea.Quit
		}

	case "esc", "backspace":
		switch m.state {
		case StateDetails, StateStats, StateConfirmDelete:
			m.state = StateBrowse
		case StateImporting:
			m.cancel()
		case StateImportDone:
			m.state = StateBrowse
		}

	case "up", "k":
		if m.state == StateBrowse {
			m.moveCursor(-1)
		}

	case "down", "j":
		if m.state == StateBrowse {
			m.moveCursor(1)
		}

	case "enter":
		switch m.state {
		case StateBrowse:
			if m.selected() != nil {
				m.state = StateDetails
			}
		case StateImportDone:
			m.state = StateBrowse
		}

	case "/":
		if m.state == StateBrowse {
			m.searching = true
			m.searchInput.Focus()
			return m, textinput.Blink
		}

	case "s":
		if m.state == StateBrowse {
			m.state = StateStats
		}

	case "i":
		if m.state == StateBrowse {
			m.state = StateImport
			m.pathInput.Focus()
			return m, textinput.Blink
		}

	case "d":
		if m.state == StateBrowse && m.selected() != nil {
			m.state = StateConfirmDelete
		}

	case "r":
		if m.state == StateBrowse {
			if err := m.lib.Load(); err != nil {
				m.logs = appendLog(m.logs, LogEntry{Message: fmt.Sprintf("Reload failed: %v", err), Level: scan.LevelError})
			} else {
				m.rebuildRows()
			}
		}

	case "y":
		if m.state == StateConfirmDelete {
			if song := m.selected(); song != nil {
				if m.lib.RemoveSong(song) {
					m.logs = appendLog(m.logs, LogEntry{Message: fmt.Sprintf("Removed %s", song.DisplayName()), Level: scan.LevelSuccess})
				} else {
					m.logs = appendLog(m.logs, LogEntry{Message: fmt.Sprintf("Could not remove %s", song.DisplayName()), Level: scan.LevelError})
				}
				m.rebuildRows()
			}
			m.state = StateBrowse
		}

	case "n":
		if m.state == StateConfirmDelete {
			m.state = StateBrowse
		}
	}

	return m, nil
}

// startImport reads the entered folder and kicks off the import run.
func (m Model) startImport() (tea.Model, tea.Cmd) {
	root := strings.TrimSpace(m.pathInput.Value())
	if root == "" {
		return m, nil
	}

	folders, err := collectFolders(root)
	if err != nil {
		m.logs = appendLog(m.logs, LogEntry{Message: fmt.Sprintf("Import failed: %v", err), Level: scan.LevelError})
		m.state = StateBrowse
		m.pathInput.Blur()
		return m, nil
	}

	m.pathInput.Blur()
	m.state = StateImporting
	m.err = nil
	m.doneFolders = 0
	m.totalFolders = len(folders)
	m.ctx, m.cancel = context.WithCancel(context.Background())

	lib := m.lib
	m.importer = scan.NewImporter(m.settings, func(song *model.Song) bool {
		return lib.AddSong(song)
	}, m.events.add)

	importer := m.importer
	ctx := m.ctx
	run := func() tea.Msg {
		result, err := importer.Run(ctx, folders)
		return ImportDoneMsg{Result: result, Err: err}
	}

	return m, tea.Batch(run, m.tickProgress(), m.spinner.Tick)
}

// collectFolders expands the import root: a directory with
// subdirectories yields those, one song per subfolder; a directory
// holding files directly is imported as a single song.
func collectFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, filepath.Join(root, entry.Name()))
		}
	}
	if len(folders) == 0 {
		folders = []string{root}
	}
	return folders, nil
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// appendEvents turns drained scanner events into log entries.
func (m *Model) appendEvents(events []scan.Event) {
	for _, event := range events {
		if event.Level == scan.LevelVerbose && !m.settings.Verbose {
			continue
		}
		m.logs = appendLog(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	}
}

// appendLog keeps only the most recent log lines.
func appendLog(logs []LogEntry, entry LogEntry) []LogEntry {
	logs = append(logs, entry)
	if len(logs) > 10 {
		logs = logs[len(logs)-10:]
	}
	return logs
}

// rebuildRows regroups the (possibly filtered) collection by artist.
// Named artists come first, alphabetically; songs without an artist
// land in a single bucket at the end.
func (m *Model) rebuildRows() {
	query := strings.TrimSpace(m.searchInput.Value())

	var songs []*model.Song
	switch {
	case query == "":
		songs = m.lib.Songs()
	case searchFields[m.searchField] == "all":
		songs = m.lib.SearchSongs(query)
	default:
		songs = m.lib.SearchSongs(query, searchFields[m.searchField])
	}

	byArtist := make(map[string][]*model.Song)
	var artists []string
	for _, song := range songs {
		if song.Artist != "" && byArtist[song.Artist] == nil {
			artists = append(artists, song.Artist)
		}
		byArtist[song.Artist] = append(byArtist[song.Artist], song)
	}
	sort.Slice(artists, func(i, j int) bool {
		return strings.ToLower(artists[i]) < strings.ToLower(artists[j])
	})

	rows := make([]row, 0, len(songs)+len(artists)+1)
	for _, artist := range artists {
		rows = append(rows, row{header: true, label: artist})
		for _, song := range byArtist[artist] {
			rows = append(rows, row{song: song})
		}
	}
	if unknown := byArtist[""]; len(unknown) > 0 {
		rows = append(rows, row{header: true, label: unknownArtistLabel})
		for _, song := range unknown {
			rows = append(rows, row{song: song})
		}
	}

	m.rows = rows
	m.clampCursor()
}

// moveCursor shifts the selection to the next song row in the given
// direction, skipping headers.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.rows); i += delta {
		if !m.rows[i].header {
			m.cursor = i
			return
		}
	}
}

// clampCursor parks the cursor on a song row after the rows changed.
func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < len(m.rows) && !m.rows[m.cursor].header {
		return
	}
	for i := range m.rows {
		if !m.rows[i].header {
			m.cursor = i
			return
		}
	}
	m.cursor = 0
}

// selected returns the song under the cursor, or nil.
func (m *Model) selected() *model.Song {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].song
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎼 Partmate"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Your sheet music, recordings and links in one place"))
	b.WriteString("\n\n")

	switch m.state {
	case StateBrowse:
		b.WriteString(m.viewBrowse())
	case StateDetails:
		b.WriteString(m.viewDetails())
	case StateStats:
		b.WriteString(m.viewStats())
	case StateImport:
		b.WriteString(m.viewImport())
	case StateImporting:
		b.WriteString(m.viewImporting())
	case StateImportDone:
		b.WriteString(m.viewImportDone())
	case StateConfirmDelete:
		b.WriteString(m.viewConfirmDelete())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder

	if m.searching || m.searchInput.Value() != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Search (%s): ", searchFields[m.searchField])))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(dimStyle.Render("No songs match."))
		} else {
			b.WriteString(dimStyle.Render("The library is empty. Press i to import folders."))
		}
		b.WriteString("\n")
	} else {
		start, end := m.visibleRange()
		if start > 0 {
			b.WriteString(dimStyle.Render("  ↑ more"))
			b.WriteString("\n")
		}
		for i := start; i < end; i++ {
			r := m.rows[i]
			if r.header {
				b.WriteString(artistStyle.Render(r.label))
				b.WriteString("\n")
				continue
			}
			line := fmt.Sprintf("  %s", songLine(r.song))
			if i == m.cursor {
				line = selectedStyle.Render("▸ " + songLine(r.song))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if end < len(m.rows) {
			b.WriteString(dimStyle.Render("  ↓ more"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d songs", m.lib.SongCount())))
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

// visibleRange windows the row list around the cursor.
func (m Model) visibleRange() (int, int) {
	visible := maxVisibleRows
	if m.height > 14 {
		visible = m.height - 12
	}
	if len(m.rows) <= visible {
		return 0, len(m.rows)
	}
	start := m.cursor - visible/2
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
		start = end - visible
	}
	return start, end
}

// songLine renders one browse entry: title plus a compact media tally.
func songLine(song *model.Song) string {
	title := song.Title
	if title == "" {
		title = "(untitled)"
	}

	var marks []string
	if song.HasDocuments() {
		marks = append(marks, fmt.Sprintf("%d doc", len(song.Documents)))
	}
	if song.HasAudio() {
		marks = append(marks, fmt.Sprintf("%d audio", len(song.Audios)))
	}
	if song.HasVideo() {
		marks = append(marks, fmt.Sprintf("%d video", len(song.Videos)))
	}
	if len(song.Links) > 0 {
		marks = append(marks, fmt.Sprintf("%d link", len(song.Links)))
	}
	if len(marks) == 0 {
		return title
	}
	return fmt.Sprintf("%s  %s", title, dimStyle.Render("["+strings.Join(marks, ", ")+"]"))
}

func (m Model) viewDetails() string {
	song := m.selected()
	if song == nil {
		return errorStyle.Render("No song selected.")
	}

	var b strings.Builder
	b.WriteString(subtitleStyle.Render(song.DisplayName()))
	b.WriteString("\n\n")

	if song.Tempo != "" {
		b.WriteString(fmt.Sprintf("  Tempo: %s\n", song.Tempo))
	}
	if song.Style != "" {
		b.WriteString(fmt.Sprintf("  Style: %s\n", song.Style))
	}
	if song.Path != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  Folder: %s", song.Path)))
		b.WriteString("\n")
	}

	// MediaRefs keeps the media grouped by type, so a heading is due
	// whenever the type changes.
	last := model.MediaType(-1)
	for _, ref := range song.MediaRefs() {
		if ref.Type != last {
			b.WriteString("\n")
			b.WriteString(infoStyle.Render(fmt.Sprintf("  %s:", mediaHeading(ref.Type))))
			b.WriteString("\n")
			last = ref.Type
		}
		b.WriteString(fmt.Sprintf("    • %s\n", ref.Path))
	}

	if notes := song.Notes(); notes != "" {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("  Notes:"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("    %s\n", notes))
	}

	return b.String()
}

// mediaHeading names a media type's section in the details view.
func mediaHeading(mediaType model.MediaType) string {
	switch mediaType {
	case model.MediaDocument:
		return "Documents"
	case model.MediaAudio:
		return "Audio"
	case model.MediaVideo:
		return "Video"
	case model.MediaLink:
		return "Links"
	default:
		return "Other"
	}
}

func (m Model) viewStats() string {
	stats := m.lib.Statistics()

	lines := []string{
		fmt.Sprintf("Songs:    %d", stats.TotalSongs),
		fmt.Sprintf("Artists:  %d", stats.TotalArtists),
		fmt.Sprintf("Styles:   %d", stats.TotalStyles),
		"",
		fmt.Sprintf("With documents: %d", stats.SongsWithDocuments),
		fmt.Sprintf("With audio:     %d", stats.SongsWithAudio),
		fmt.Sprintf("With video:     %d", stats.SongsWithVideo),
	}
	if stats.MostCommonStyle != "" {
		lines = append(lines, "", fmt.Sprintf("Most common style:    %s", stats.MostCommonStyle))
	}
	if stats.MostProlificArtist != "" {
		lines = append(lines, fmt.Sprintf("Most prolific artist: %s", stats.MostProlificArtist))
	}

	return boxStyle.Render("📊 Library Statistics\n\n" + strings.Join(lines, "\n"))
}

func (m Model) viewImport() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Import folder:"))
	b.WriteString("\n\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Each subfolder becomes one song; a folder holding files\ndirectly is imported as a single song."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewImporting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Importing folders..."))
	b.WriteString("\n\n")

	var percent float64
	if m.totalFolders > 0 {
		percent = float64(m.doneFolders) / float64(m.totalFolders)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Folders: %d/%d", m.doneFolders, m.totalFolders)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewImportDone() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render("❌ Import stopped:"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  %s\n\n", m.err.Error()))
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Import finished\n\n"+
			"Imported: %d\n"+
			"Failed:   %d",
		m.result.Imported,
		m.result.Failed,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewConfirmDelete() string {
	song := m.selected()
	if song == nil {
		return errorStyle.Render("No song selected.")
	}

	return boxStyle.Render(fmt.Sprintf(
		"Remove %s from the library?\n\n"+
			"Files on disk are not touched.\n\n"+
			"y: remove • n: keep",
		song.DisplayName(),
	))
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case scan.LevelError:
			style = errorStyle
			prefix = "✗"
		case scan.LevelWarning:
			style = warningStyle
			prefix = "!"
		case scan.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case scan.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateBrowse:
		if m.searching {
			return "tab: field • enter: apply • esc: clear"
		}
		return "↑/↓: move • enter: details • /: search • i: import • s: stats • d: delete • r: reload • q: quit"
	case StateDetails, StateStats:
		return "esc: back"
	case StateImport:
		return "enter: start • esc: back"
	case StateImporting:
		return "esc: cancel"
	case StateImportDone:
		return "enter: back to library • q: quit"
	case StateConfirmDelete:
		return "y: remove • n: keep"
	}
	return ""
}

// Run opens the library and starts the TUI application. With cloud
// sync enabled, a file watcher feeds external store rewrites back into
// the update loop.
func Run(settings *config.Settings) error {
	lib, err := library.New(settings.ToLibraryConfig(), logging.Nop())
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(lib, settings), tea.WithAltScreen())

	if settings.CloudSync {
		w, err := watch.New(settings.LibraryPath(), 0, func() {
			p.Send(LibraryChangedMsg{})
		}, nil)
		if err != nil {
			return fmt.Errorf("watch library: %w", err)
		}
		defer w.Close()
	}

	_, err = p.Run()
	return err
}
