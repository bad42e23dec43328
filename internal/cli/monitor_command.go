package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"yt-fetch-bot/internal/model"
)

const defaultMonitorAPI = "http://localhost:8000"

var (
	monitorTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	monitorMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	monitorErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	monitorDoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	monitorActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	monitorPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func runMonitor(args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	apiURL := fs.String("api", defaultMonitorAPI, "base URL of a running API")
	interval := fs.Duration("interval", time.Second, "poll interval")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	m := newMonitorModel(strings.TrimRight(strings.TrimSpace(*apiURL), "/"), *interval)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("monitor requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(monitorModel); ok {
		return fm.fatalErr
	}
	return nil
}

type monitorModel struct {
	apiURL   string
	interval time.Duration
	client   *http.Client

	spinner  spinner.Model
	jobs     []model.Job
	fetchErr error
	fetched  bool
	width    int

	fatalErr error
}

type monitorJobsMsg struct {
	jobs []model.Job
	err  error
}

type monitorPollMsg time.Time

func newMonitorModel(apiURL string, interval time.Duration) monitorModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = monitorActiveStyle
	return monitorModel{
		apiURL:   apiURL,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
		spinner:  sp,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchJobsCmd(), m.pollCmd())
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchJobsCmd()
		}
		return m, nil
	case monitorJobsMsg:
		m.fetched = true
		m.jobs = msg.jobs
		m.fetchErr = msg.err
		return m, nil
	case monitorPollMsg:
		return m, tea.Batch(m.fetchJobsCmd(), m.pollCmd())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m monitorModel) View() string {
	var b strings.Builder
	b.WriteString(monitorTitleStyle.Render("yt-fetch-bot monitor"))
	b.WriteString(monitorMutedStyle.Render("  " + m.apiURL))
	b.WriteString("\n\n")

	switch {
	case !m.fetched:
		b.WriteString(m.spinner.View() + " connecting...\n")
	case m.fetchErr != nil:
		b.WriteString(monitorErrorStyle.Render("cannot reach API: "+m.fetchErr.Error()) + "\n")
	case len(m.jobs) == 0:
		b.WriteString(monitorMutedStyle.Render("no jobs yet") + "\n")
	default:
		rows := make([]string, 0, len(m.jobs)+1)
		rows = append(rows, monitorMutedStyle.Render(
			fmt.Sprintf("%-10s %-9s %-8s %-12s %-8s %s", "ID", "STATUS", "PCT", "SPEED", "ETA", "TITLE")))
		for _, job := range m.jobs {
			rows = append(rows, renderMonitorRow(job))
		}
		b.WriteString(monitorPanelStyle.Render(strings.Join(rows, "\n")))
		b.WriteString("\n")
		b.WriteString(monitorMutedStyle.Render(renderMonitorTotals(m.jobs)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(monitorMutedStyle.Render("r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m monitorModel) fetchJobsCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.Get(m.apiURL + "/api/jobs")
		if err != nil {
			return monitorJobsMsg{err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return monitorJobsMsg{err: fmt.Errorf("unexpected status %s", resp.Status)}
		}
		var jobs []model.Job
		if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
			return monitorJobsMsg{err: fmt.Errorf("decoding job list: %w", err)}
		}
		return monitorJobsMsg{jobs: jobs}
	}
}

func (m monitorModel) pollCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return monitorPollMsg(t)
	})
}

func renderMonitorRow(job model.Job) string {
	title := job.Title
	if title == "" {
		title = job.URL
	}
	if len(title) > 48 {
		title = title[:45] + "..."
	}

	line := fmt.Sprintf("%-10s %-9s %-8s %-12s %-8s %s",
		job.ID, job.Status, job.Progress.Percent, job.Progress.Speed, job.Progress.ETA, title)

	switch job.Status {
	case model.StatusDone:
		return monitorDoneStyle.Render(line)
	case model.StatusError:
		if job.Error != "" {
			line += "  " + job.Error
		}
		return monitorErrorStyle.Render(line)
	case model.StatusRunning:
		return monitorActiveStyle.Render(line)
	default:
		return line
	}
}

func renderMonitorTotals(jobs []model.Job) string {
	var running, queued, done, failed int
	for _, job := range jobs {
		switch job.Status {
		case model.StatusRunning:
			running++
		case model.StatusQueued, model.StatusWaiting:
			queued++
		case model.StatusDone:
			done++
		case model.StatusError:
			failed++
		}
	}
	return fmt.Sprintf("running %d | queued %d | done %d | failed %d", running, queued, done, failed)
}
