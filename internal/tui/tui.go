package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepview"
)

// View is the part of a sweep view the terminal front-end drives
type View interface {
	Activate(ctx context.Context)
	Visible() []models.Sweep
	ShowAll() bool
	SetShowAll(showAll bool)
	OnDisplayChange()
	DownloadTo(ctx context.Context, record models.Sweep, saver sweepview.Saver) error
}

// FileSaver writes a download and reports the path it ended up at, which
// differs from the suggested name when that file already exists.
type FileSaver interface {
	SaveFile(ctx context.Context, filename string, content []byte) (string, error)
}

// Run shows the sweep table until the user quits. Downloads go to saver.
func Run(ctx context.Context, view View, saver FileSaver) error {
	_, err := bubbletea.NewProgram(newModel(ctx, view, saver), bubbletea.WithContext(ctx)).Run()
	if err == bubbletea.ErrProgramKilled && ctx.Err() != nil {
		return nil
	}
	return err
}

// TickMsg triggers periodic updates
type TickMsg time.Time

type downloadDoneMsg struct {
	path string
	err  error
}

// pathSaver remembers where its FileSaver put the artifact.
type pathSaver struct {
	files FileSaver
	path  string
}

func (p *pathSaver) Save(ctx context.Context, filename string, content []byte) error {
	path, err := p.files.SaveFile(ctx, filename, content)
	if err != nil {
		return err
	}
	p.path = path
	return nil
}

// model is the Bubble Tea model
type model struct {
	ctx   context.Context
	view  View
	saver FileSaver

	sweeps      []models.Sweep
	showAll     bool
	cursor      int
	downloading bool
	status      string
	err         error
}

func newModel(ctx context.Context, view View, saver FileSaver) model {
	return model{
		ctx:     ctx,
		view:    view,
		saver:   saver,
		sweeps:  view.Visible(),
		showAll: view.ShowAll(),
	}
}

// Init implements the Bubble Tea Init method
func (m model) Init() bubbletea.Cmd {
	return tick()
}

// tick fires twice per second
func tick() bubbletea.Cmd {
	return bubbletea.Tick(500*time.Millisecond, func(t time.Time) bubbletea.Msg {
		return TickMsg(t)
	})
}

// Update implements the Bubble Tea Update method
func (m model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, bubbletea.Quit
		case "down", "j":
			if len(m.sweeps) > 0 {
				m.cursor = (m.cursor + 1) % len(m.sweeps)
			}
		case "up", "k":
			if len(m.sweeps) > 0 {
				m.cursor = (m.cursor - 1 + len(m.sweeps)) % len(m.sweeps)
			}
		case "a":
			m.view.SetShowAll(!m.showAll)
			m.view.OnDisplayChange()
			m = m.sync()
			m.status, m.err = "", nil
		case "r":
			m.view.Activate(m.ctx)
			m.status, m.err = "Refreshing...", nil
		case "enter":
			if m.downloading || len(m.sweeps) == 0 {
				return m, nil
			}
			m.downloading = true
			m.status, m.err = "Downloading "+m.sweeps[m.cursor].Filename+"...", nil
			return m, m.download(m.sweeps[m.cursor])
		}
	case downloadDoneMsg:
		m.downloading = false
		if msg.err != nil {
			m.status, m.err = "", msg.err
		} else {
			m.status, m.err = "Saved "+msg.path, nil
		}
	case TickMsg:
		m = m.sync()
		return m, tick()
	}
	return m, nil
}

// sync copies the view's current list into the model, keeping the cursor in bounds
func (m model) sync() model {
	m.sweeps = m.view.Visible()
	m.showAll = m.view.ShowAll()
	if m.cursor >= len(m.sweeps) {
		m.cursor = len(m.sweeps) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m model) download(record models.Sweep) bubbletea.Cmd {
	return func() bubbletea.Msg {
		saver := &pathSaver{files: m.saver}
		err := m.view.DownloadTo(m.ctx, record, saver)
		return downloadDoneMsg{path: saver.path, err: err}
	}
}

// View implements the Bubble Tea View method
func (m model) View() string {
	var b strings.Builder

	subset := "latest sweeps"
	if m.showAll {
		subset = "all sweeps"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sweeps · %s (%d)", subset, len(m.sweeps))))
	b.WriteString("\n")

	if len(m.sweeps) == 0 {
		b.WriteString(rowStyle.Render("No sweeps yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(headerStyle.Render(formatRow("ID", "Device", "Hub time", "Server time", "RSSI", "File")))
		b.WriteString("\n")
		for i, s := range m.sweeps {
			line := formatRow(
				fmt.Sprint(s.ID),
				s.DeviceName,
				s.HubTimestamp.String(),
				s.ServerTimestamp.String(),
				fmt.Sprintf("%.1f", s.RSSI),
				s.Filename,
			)
			if i == m.cursor {
				b.WriteString(selectedRowStyle.Render(line))
			} else {
				b.WriteString(rowStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Download failed: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("a: toggle all/latest · r: refresh · ↑/↓: move · enter: download · q: quit"))
	return b.String()
}

func formatRow(id, device, hub, server, rssi, file string) string {
	return fmt.Sprintf("%-6s %-16s %-20s %-20s %7s  %s", id, device, hub, server, rssi, file)
}
