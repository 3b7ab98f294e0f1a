package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/daftarhq/daftar/internal/order"
	"github.com/daftarhq/daftar/internal/view"
)

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStateFilter
	ordersStateCreate
	ordersStateConfirmDelete
)

// SnapshotMsg carries a full replacement of the order set from the store
// watcher. The root model forwards it here regardless of the active view.
type SnapshotMsg struct {
	Orders []*order.Order
}

// WaitForSnapshot blocks on the watcher channel and turns the next delivery
// into a message. Re-issue it after every SnapshotMsg.
func WaitForSnapshot(ch <-chan []*order.Order) tea.Cmd {
	return func() tea.Msg {
		orders, ok := <-ch
		if !ok {
			return nil
		}

		return SnapshotMsg{Orders: orders}
	}
}

type OrdersModel struct {
	CommonModel
	orderService *order.Service
	projector    *view.Projector
	selection    *view.Selection

	state   ordersState
	table   table.Model
	visible []*order.Order

	statusIdx int
	sortIdx   int

	form *huh.Form

	// Form bindings
	formName   string
	formRef    string
	formDate   string
	formType   string
	formSearch string
	formDateF  string
	confirmed  bool

	status string
	err    error
}

var sortLabels = map[view.Option]string{
	view.SortDateDesc: "Date ↓",
	view.SortDateAsc:  "Date ↑",
	view.SortNameAsc:  "Name A-Z",
	view.SortNameDesc: "Name Z-A",
	view.SortRefAsc:   "Ref ↑",
	view.SortRefDesc:  "Ref ↓",
}

func NewOrdersModel(orderSvc *order.Service, projector *view.Projector, selection *view.Selection) OrdersModel {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 9},
		{Title: "Status", Width: 14},
		{Title: "Name", Width: 34},
		{Title: "Ref", Width: 10},
		{Title: "By", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := OrdersModel{
		orderService: orderSvc,
		projector:    projector,
		selection:    selection,
		table:        t,
	}
	m.refreshTable()

	return m
}

func (m OrdersModel) Title() string { return "Orders" }

func (m OrdersModel) ShortHelp() string {
	switch m.state {
	case ordersStateFilter, ordersStateCreate:
		return "Navigate form | Esc: cancel"
	case ordersStateConfirmDelete:
		return "Confirm deletion"
	}

	return "Esc: back | n: new | t: toggle status | space: select | a: select all | x: delete | /: filter | s: status | o: sort"
}

func (m OrdersModel) Init() tea.Cmd {
	return nil
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.projector.Replace(msg.Orders)
		m.refreshTable()
		return m, nil

	case orderActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status
		if msg.clearSelection {
			m.selection.Clear()
			m.refreshTable()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ordersStateBrowse:
		return m.updateBrowse(msg)
	case ordersStateFilter, ordersStateCreate, ordersStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m OrdersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case " ":
			if o := m.cursorOrder(); o != nil {
				m.selection.Toggle(o.ID)
				m.refreshTable()
			}
			return m, nil
		case "a":
			m.selection.SelectAllVisible(m.projector.Project().VisibleIDs())
			m.refreshTable()
			return m, nil
		case "t":
			if o := m.cursorOrder(); o != nil {
				return m, m.toggleStatusCmd(o.ID)
			}
			return m, nil
		case "n":
			return m.enterCreateMode()
		case "x":
			return m.enterConfirmDelete()
		case "/":
			return m.enterFilterMode()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % 3
			m.applyParams()
			m.refreshTable()
			return m, nil
		case "o":
			opts := view.Options()
			m.sortIdx = (m.sortIdx + 1) % len(opts)
			m.applyParams()
			m.refreshTable()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m OrdersModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formRef = ""
	m.formDate = time.Now().Format(time.DateOnly)
	m.formType = string(order.TypeExpense)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("ref").
				Title("Reference").
				Placeholder("optional").
				Value(&m.formRef),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("2006-01-02").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(order.TypeExpense)),
					huh.NewOption("Income", string(order.TypeIncome)),
				).
				Value(&m.formType),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m OrdersModel) enterFilterMode() (tea.Model, tea.Cmd) {
	params := m.projector.Params()
	m.formSearch = params.Search
	m.formDateF = params.DateFilter

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("search").
				Title("Search").
				Placeholder("name or ref").
				Value(&m.formSearch),

			huh.NewInput().
				Key("date").
				Title("Date prefix").
				Placeholder("2024 or 2024-03").
				Value(&m.formDateF),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateFilter
	m.table.Blur()
	return m, m.form.Init()
}

func (m OrdersModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	count := m.selection.Count(m.liveIDs())
	if count == 0 {
		m.status = "Nothing selected."
		return m, nil
	}

	m.confirmed = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %d selected order(s)?", count)).
				Value(&m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateConfirmDelete
	m.table.Blur()
	return m, m.form.Init()
}

func (m OrdersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ordersStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	state := m.state
	m.state = ordersStateBrowse
	m.form = nil
	m.table.Focus()

	switch state {
	case ordersStateCreate:
		return m, m.createCmd()
	case ordersStateFilter:
		m.applyParams()
		m.refreshTable()
		return m, nil
	case ordersStateConfirmDelete:
		if !m.confirmed {
			return m, nil
		}
		return m, m.deleteSelectedCmd()
	}

	return m, nil
}

func (m OrdersModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	params := m.projector.Params()

	statusLabels := []string{"All", "Pending", "Completed"}
	sortLabel := sortLabels[params.Sort]
	if sortLabel == "" {
		sortLabel = sortLabels[view.DefaultSort]
	}

	filter := ""
	if params.Search != "" {
		filter = fmt.Sprintf(" | Search: %s", activeStyle(params.Search))
	}
	if params.DateFilter != "" {
		filter += fmt.Sprintf(" | Date: %s", activeStyle(params.DateFilter))
	}

	header := fmt.Sprintf(
		"[s] Status: %s | [o] Sort: %s%s | Selected: %d",
		activeStyle(statusLabels[m.statusIdx]),
		activeStyle(sortLabel),
		filter,
		m.selection.Count(m.liveIDs()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *OrdersModel) applyParams() {
	params := m.projector.Params()

	switch m.statusIdx {
	case 1:
		params.Status = order.StatusPending
	case 2:
		params.Status = order.StatusCompleted
	default:
		params.Status = ""
	}

	params.Sort = view.Options()[m.sortIdx]
	params.Search = m.formSearch
	params.DateFilter = m.formDateF

	m.projector.SetParams(params)
}

func (m *OrdersModel) refreshTable() {
	proj := m.projector.Project()
	m.visible = proj.All

	rows := make([]table.Row, 0, len(proj.All))
	for _, o := range proj.All {
		marker := " "
		if m.selection.Selected(o.ID) {
			marker = "✓"
		}

		rows = append(rows, table.Row{
			marker,
			o.Date,
			string(o.Type),
			string(o.Status),
			o.Name,
			o.RefOrEmpty(),
			o.AddedBy,
		})
	}
	m.table.SetRows(rows)
}

// liveIDs lists every order id in the current snapshot, filtered or not.
func (m OrdersModel) liveIDs() []uuid.UUID {
	snap := m.projector.Snapshot()

	ids := make([]uuid.UUID, len(snap))
	for i, o := range snap {
		ids[i] = o.ID
	}

	return ids
}

func (m OrdersModel) cursorOrder() *order.Order {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return nil
	}

	return m.visible[idx]
}

// Messages

type orderActionMsg struct {
	status         string
	clearSelection bool
	err            error
}

func (m OrdersModel) createCmd() tea.Cmd {
	params := order.CreateParams{
		Name: m.formName,
		Date: m.formDate,
		Type: order.Type(m.formType),
	}
	if ref := strings.TrimSpace(m.formRef); ref != "" {
		params.Ref = &ref
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.orderService.Create(ctx, params); err != nil {
			return orderActionMsg{err: err}
		}

		return orderActionMsg{status: "Order created."}
	}
}

func (m OrdersModel) toggleStatusCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		next, err := m.orderService.ToggleStatus(ctx, id)
		if err != nil {
			return orderActionMsg{err: err}
		}

		return orderActionMsg{status: fmt.Sprintf("Status set to %s.", next)}
	}
}

func (m OrdersModel) deleteSelectedCmd() tea.Cmd {
	// Deletion covers every selected order still in the live set, including
	// ones selected under a different filter.
	ids := m.selection.Present(m.liveIDs())

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.orderService.DeleteBatch(ctx, ids); err != nil {
			// The selection is kept so the delete can be retried.
			return orderActionMsg{err: err}
		}

		return orderActionMsg{
			status:         fmt.Sprintf("Deleted %d order(s).", len(ids)),
			clearSelection: true,
		}
	}
}
