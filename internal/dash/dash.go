// Package dash renders a live terminal dashboard of sensor states fed by the
// polling coordinator.
package dash

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/voltlabs/cebridge/internal/ceapi"
	"github.com/voltlabs/cebridge/internal/coordinator"
	"github.com/voltlabs/cebridge/internal/sensor"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	infoStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// updateMsg carries a coordinator update into the Bubble Tea loop.
type updateMsg coordinator.Update

// errMsg terminates the dashboard with an error.
type errMsg struct{ err error }

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	installation *ceapi.Installation
	updates      <-chan coordinator.Update
	errs         <-chan error

	spin    spinner.Model
	tbl     table.Model
	hasData bool
	lastAt  string
	cost    string
	err     error
}

// NewModel builds a dashboard over the given update and error channels.
func NewModel(installation *ceapi.Installation, updates <-chan coordinator.Update, errs <-chan error) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Device", Width: 24},
			{Title: "Sensor", Width: 32},
			{Title: "Value", Width: 12},
			{Title: "Unit", Width: 5},
		}),
		table.WithHeight(20),
	)
	return &Model{installation: installation, updates: updates, errs: errs, spin: sp, tbl: tbl}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForUpdate())
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case u, ok := <-m.updates:
			if !ok {
				return tea.Quit()
			}
			return updateMsg(u)
		case err := <-m.errs:
			return errMsg{err: err}
		}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case updateMsg:
		m.apply(coordinator.Update(msg))
		return m, m.waitForUpdate()
	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	var tblCmd tea.Cmd
	m.tbl, tblCmd = m.tbl.Update(msg)
	return m, tea.Batch(cmd, tblCmd)
}

func (m *Model) apply(u coordinator.Update) {
	m.hasData = true
	m.lastAt = u.At.Format("15:04:05")
	if u.Tariff != nil {
		if cost := u.Tariff.CostAt(u.At); cost != nil {
			m.cost = fmt.Sprintf("$%.4f/kWh", *cost)
		}
	}

	names := make(map[int64]string, len(m.installation.Devices))
	for _, d := range m.installation.Devices {
		names[d.ID] = d.Name
	}

	ids := make([]int64, 0, len(u.Readings))
	for id := range u.Readings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []table.Row
	for _, id := range ids {
		d := u.Readings[id]
		name := names[id]
		if name == "" {
			name = "device " + strconv.FormatInt(id, 10)
		}
		for _, s := range sensor.States(&d) {
			rows = append(rows, table.Row{name, s.Name, strconv.FormatFloat(s.Value, 'f', -1, 64), s.Unit})
		}
	}
	m.tbl.SetRows(rows)
}

// View implements tea.Model.
func (m *Model) View() string {
	title := titleStyle.Render("cebridge: " + m.installation.Name)
	if m.err != nil {
		return title + "\n" + infoStyle.Render("error: "+m.err.Error()) + "\n"
	}
	if !m.hasData {
		return title + "\n" + m.spin.View() + " waiting for readings…\n"
	}
	status := "updated " + m.lastAt
	if m.cost != "" {
		status += "  current rate " + m.cost
	}
	return title + "\n" + infoStyle.Render(status) + "\n" + m.tbl.View() + "\n" + infoStyle.Render("q to quit") + "\n"
}

// Listen adapts a coordinator into the channels the dashboard consumes.
func Listen(c *coordinator.Coordinator) <-chan coordinator.Update {
	ch := make(chan coordinator.Update, 1)
	c.AddListener(func(u coordinator.Update) {
		// Drop stale frames rather than block the poll loop.
		select {
		case ch <- u:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	})
	return ch
}
