package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/daftarhq/daftar/internal/export"
	"github.com/daftarhq/daftar/internal/summary"
	"github.com/daftarhq/daftar/internal/view"
)

type exportState int

const (
	exportStateChoose exportState = iota
	exportStatePath
	exportStateRunning
	exportStateResult
)

type exportAction string

const (
	actionCSV     exportAction = "csv"
	actionPDF     exportAction = "pdf"
	actionSummary exportAction = "summary"
)

type ExportModel struct {
	CommonModel
	exportService *export.Service
	summarizer    *summary.Summarizer
	projector     *view.Projector

	state  exportState
	action string
	form   *huh.Form

	path    string
	spinner spinner.Model
	result  string
	err     error
}

func NewExportModel(expSvc *export.Service, summarizer *summary.Summarizer, projector *view.Projector) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: expSvc,
		summarizer:    summarizer,
		projector:     projector,
		path:          "./exports",
		spinner:       s,
	}
	m.form = m.buildChooseForm()

	return m
}

func (m ExportModel) Title() string { return "Export & Summary" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateRunning:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateChoose:
		return m.updateChoose(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateRunning:
		return m.updateRunning(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateChoose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch exportAction(m.action) {
	case actionSummary:
		m.state = exportStateRunning
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.runSummaryCmd())
	default:
		m.form = m.buildPathForm()
		m.state = exportStatePath
		return m, m.form.Init()
	}
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateChoose
			m.form = m.buildChooseForm()
			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateRunning
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(exportAction(m.action), m.path))
}

func (m ExportModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.result = result.body
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m *ExportModel) buildChooseForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("What do you need?").
				Options(
					huh.NewOption("CSV export", string(actionCSV)),
					huh.NewOption("PDF export", string(actionPDF)),
					huh.NewOption("Summary of the current view", string(actionSummary)),
				).
				Value(&m.action),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m *ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateChoose, exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Working on the current view...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Done!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.result,
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(action exportAction, path string) tea.Cmd {
	proj := m.projector.Project()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		var (
			artifact *export.Artifact
			err      error
		)

		switch action {
		case actionPDF:
			artifact, err = m.exportService.ExportPDF(ctx, proj)
		default:
			artifact, err = m.exportService.ExportCSV(proj)
		}

		if err != nil {
			if errors.Is(err, export.ErrNothingToExport) {
				return exportResultMsg{err: fmt.Errorf("nothing to export in the current view")}
			}

			return exportResultMsg{err: err}
		}

		if err := os.MkdirAll(path, 0o755); err != nil {
			return exportResultMsg{err: err}
		}

		dest := filepath.Join(path, artifact.Filename)
		if err := os.WriteFile(dest, artifact.Data, 0o644); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{body: fmt.Sprintf("Wrote %s", dest)}
	}
}

func (m ExportModel) runSummaryCmd() tea.Cmd {
	proj := m.projector.Project()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		text, err := m.summarizer.Summarize(ctx, proj.All)
		if err != nil {
			if errors.Is(err, summary.ErrBusy) {
				return exportResultMsg{body: "A summary is already being generated."}
			}

			// Failures degrade to the fallback text, never a crash.
			return exportResultMsg{body: summary.Fallback}
		}

		return exportResultMsg{body: text}
	}
}
