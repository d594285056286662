package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"crate/internal/models"
	"crate/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RecordListView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// RecordLister is the slice of the repository the TUI reads through.
type RecordLister interface {
	List(criteria map[string]any) ([]*models.Record, error)
}

// SyncRunner is the slice of the sync engine the TUI depends on.
type SyncRunner interface {
	Run(ctx context.Context, progress chan<- tasks.Progress) (*tasks.Progress, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	repo         RecordLister
	newRun       func() SyncRunner
	width        int
	height       int
	recordList   list.Model
	records      []*models.Record
	progressChan chan tasks.Progress
	progress     tasks.Progress
	result       *tasks.Progress
	err          error
	help         help.Model
	keys         keyMap
}

type recordsFetchedMsg struct {
	records []*models.Record
	err     error
}

type progressMsg tasks.Progress

type syncCompleteMsg struct {
	result *tasks.Progress
	err    error
}

// NewModel creates a new TUI model with the provided dependencies. newRun must
// return a fresh engine per sync run.
func NewModel(ctx context.Context, repo RecordLister, newRun func() SyncRunner) *Model {
	return &Model{
		ctx:    ctx,
		view:   RecordListView,
		repo:   repo,
		newRun: newRun,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the local collection.
func (m *Model) Init() tea.Cmd {
	return m.fetchRecords()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.recordList.Width() == 0 {
			m.recordList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RecordListView:
			return m.handleRecordListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case recordsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.records = msg.records
		items := make([]list.Item, len(msg.records))
		for i, record := range msg.records {
			items[i] = recordItem{record: record}
		}
		m.recordList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.recordList.Title = fmt.Sprintf("Collection (%d records)", len(msg.records))
		m.recordList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressMsg:
		m.progress = tasks.Progress(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		// Reload so freshly pulled records show up after the run.
		return m, m.fetchRecords()
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case RecordListView:
		return m.renderRecordList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleRecordListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = RecordListView
		return m, nil
	case "y":
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = RecordListView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == RecordListView {
		m.recordList, cmd = m.recordList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchRecords() tea.Cmd {
	return func() tea.Msg {
		records, err := m.repo.List(nil)
		return recordsFetchedMsg{records: records, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progress = tasks.Progress{Phase: tasks.PhasePull}
	m.progressChan = make(chan tasks.Progress, 50)
	progressChan := m.progressChan

	runner := m.newRun()
	go func() {
		result, err := runner.Run(m.ctx, progressChan)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.result, err: m.err}
		}

		snapshot, ok := <-m.progressChan
		if !ok {
			return syncCompleteMsg{result: m.result, err: m.err}
		}
		return progressMsg(snapshot)
	}
}

func (m *Model) renderRecordList() string {
	helpKeys := []key.Binding{m.keys.sync, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.recordList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Sync collection with Discogs?")
	info := fmt.Sprintf("\nLocal records: %d\n\nPull new releases from Discogs, then push unsynced records back.\n", len(m.records))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Collection")

	var phase string
	switch m.progress.Phase {
	case tasks.PhasePull:
		if m.progress.TotalRemoteItems > 0 {
			phase = fmt.Sprintf("Pulling from Discogs (%d/%d)", m.progress.Pulled+m.progress.Skipped, m.progress.TotalRemoteItems)
		} else {
			phase = "Pulling from Discogs..."
		}
	case tasks.PhasePush:
		phase = fmt.Sprintf("Pushing local records (%d pushed)", m.progress.Pushed)
	default:
		phase = "Working..."
	}

	counters := fmt.Sprintf("pulled %d • pushed %d • skipped %d", m.progress.Pulled, m.progress.Pushed, m.progress.Skipped)
	if n := len(m.progress.Errors); n > 0 {
		counters += styles.warn.Render(fmt.Sprintf(" • %d errors", n))
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(counters))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress r to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to go back, q to quit")
	}

	title := styles.ok.Render("✓ Sync Complete!")
	info := fmt.Sprintf(
		"\nPulled: %d\nPushed: %d\nSkipped: %d\nRemote collection size: %d",
		m.result.Pulled,
		m.result.Pushed,
		m.result.Skipped,
		m.result.TotalRemoteItems,
	)

	var failed string
	if len(m.result.Errors) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("%d items failed:", len(m.result.Errors))))
		for _, msg := range m.result.Errors {
			failed += fmt.Sprintf("\n  • %s", msg)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
