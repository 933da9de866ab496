package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/tasks"
)

// HistorySource provides the video records the TUI browses.
type HistorySource interface {
	History(ctx context.Context) ([]models.VideoRecord, error)
	VideoDetail(ctx context.Context, videoID string) (*models.VideoRecord, error)
}

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HistoryListView ViewState = iota
	DetailView
	ConfirmView
	ProcessView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       HistorySource
	engine       *tasks.ProcessEngine
	width        int
	height       int
	videoList    list.Model
	videos       []models.VideoRecord
	selected     *models.VideoRecord
	progressChan chan tasks.ProgressUpdate
	done         chan processCompleteMsg
	progress     tasks.ProgressUpdate
	spin         spinner.Model
	result       *tasks.ProcessResult
	err          error
	help         help.Model
	keys         keyMap
}

type historyFetchedMsg struct {
	videos []models.VideoRecord
	err    error
}

type detailFetchedMsg struct {
	video *models.VideoRecord
	err   error
}

type progressUpdateMsg tasks.ProgressUpdate

type processCompleteMsg struct {
	result *tasks.ProcessResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, source HistorySource, engine *tasks.ProcessEngine) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok
	videoList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	videoList.Title = "Analyzed Videos"
	return &Model{
		ctx:       ctx,
		view:      HistoryListView,
		source:    source,
		engine:    engine,
		videoList: videoList,
		spin:      sp,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching the processing history.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchHistory(), m.spin.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.videoList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case HistoryListView:
			return m.handleHistoryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case historyFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.videos = msg.videos
		items := make([]list.Item, len(msg.videos))
		for i, video := range msg.videos {
			items[i] = videoItem{video: video}
		}
		m.videoList.SetSize(m.width-4, m.height-8)
		return m, m.videoList.SetItems(items)

	case detailFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = HistoryListView
			return m, nil
		}
		m.selected = msg.video
		switch {
		case msg.video.Processed:
			m.view = DetailView
		case msg.video.Processable():
			m.view = ConfirmView
		default:
			m.selected = nil
			m.view = HistoryListView
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case processCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView && m.view != HistoryListView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case HistoryListView:
		return m.renderHistoryList()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case ProcessView:
		return m.renderProcess()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.videoList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(videoItem); ok {
				return m, m.fetchDetail(item.video.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = HistoryListView
		m.selected = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = HistoryListView
		m.selected = nil
		return m, nil
	case "y":
		m.view = ProcessView
		return m, tea.Batch(m.startProcess(), m.spin.Tick)
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = HistoryListView
		m.selected = nil
		m.result = nil
		m.err = nil
		return m, m.fetchHistory()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == HistoryListView {
		m.videoList, cmd = m.videoList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		videos, err := m.source.History(m.ctx)
		return historyFetchedMsg{videos: videos, err: err}
	}
}

func (m *Model) fetchDetail(videoID string) tea.Cmd {
	return func() tea.Msg {
		video, err := m.source.VideoDetail(m.ctx, videoID)
		return detailFetchedMsg{video: video, err: err}
	}
}

func (m *Model) startProcess() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	videoID := m.selected.ID
	done := make(chan processCompleteMsg, 1)

	go func() {
		result, err := m.engine.Process(m.ctx, videoID, m.progressChan)
		done <- processCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()

	m.done = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return processCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderHistoryList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.videoList.View(), helpView)
}

func (m *Model) renderDetail() string {
	title := styles.title.Render(m.selected.Title)

	var body strings.Builder
	if len(m.selected.Keywords) > 0 {
		body.WriteString("Keywords:\n")
		for i, keyword := range m.selected.Keywords {
			body.WriteString(fmt.Sprintf("  %d. %s\n", i+1, keyword))
		}
	} else {
		body.WriteString("No keywords generated yet.\n")
	}

	if len(m.selected.Rankings) > 0 {
		body.WriteString("\nRankings:\n")
		for _, entry := range m.selected.Rankings {
			body.WriteString(fmt.Sprintf("  %s: #%.0f\n", entry.Keyword, entry.Rank))
		}
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n%s", title, body.String(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Analyze '%s'?", m.selected.Title))
	info := "\nRuns text extraction, keyword generation and ranking.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderProcess() string {
	title := styles.title.Render("Analyzing Video")

	var stage string
	switch m.progress.Stage {
	case tasks.StageExtracting:
		stage = fmt.Sprintf("Extracting text [%d/%d]", m.progress.Step, m.progress.Total)
	case tasks.StageGenerating:
		stage = fmt.Sprintf("Generating keywords [%d/%d]", m.progress.Step, m.progress.Total)
	case tasks.StageRanking:
		stage = fmt.Sprintf("Checking rankings [%d/%d]", m.progress.Step, m.progress.Total)
	default:
		stage = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s", title, m.spin.View(), stage, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Analysis failed: %v\n\nPress r to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to go back, q to quit")
	}

	title := styles.ok.Render("✓ Analysis Complete!")
	var keywords strings.Builder
	for i, keyword := range m.result.Keywords {
		keywords.WriteString(fmt.Sprintf("\n  %d. %s", i+1, keyword))
	}

	info := fmt.Sprintf("\nKeywords (%d):%s", len(m.result.Keywords), keywords.String())

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
