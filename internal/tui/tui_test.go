package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/sweepview"
	nuts "github.com/vaudience/go-nuts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubView struct {
	mu          sync.Mutex
	latest      []models.Sweep
	all         []models.Sweep
	showAll     bool
	visible     []models.Sweep
	activations int
	downloaded  []int64
	downloadErr error
}

func (v *stubView) Activate(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.activations++
}

func (v *stubView) Visible() []models.Sweep {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

func (v *stubView) ShowAll() bool { return v.showAll }

func (v *stubView) SetShowAll(showAll bool) { v.showAll = showAll }

func (v *stubView) OnDisplayChange() {
	if v.showAll {
		v.visible = v.all
	} else {
		v.visible = v.latest
	}
}

func (v *stubView) DownloadTo(ctx context.Context, record models.Sweep, saver sweepview.Saver) error {
	v.downloaded = append(v.downloaded, record.ID)
	if v.downloadErr != nil {
		return v.downloadErr
	}
	return saver.Save(ctx, record.Filename, []byte("content"))
}

// stubFiles saves into downloads/ where a copy of every file already exists.
type stubFiles struct {
	names []string
}

func (f *stubFiles) SaveFile(ctx context.Context, filename string, content []byte) (string, error) {
	f.names = append(f.names, filename)
	ext := filepath.Ext(filename)
	return filepath.Join("downloads", strings.TrimSuffix(filename, ext)+" (1)"+ext), nil
}

func newStubView() *stubView {
	hub := models.NewInstant(time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC))
	a := models.Sweep{ID: 1, DeviceName: "A", HubTimestamp: hub, ServerTimestamp: hub, Filename: "a.csv"}
	b := models.Sweep{ID: 2, DeviceName: "B", HubTimestamp: models.RawTimestamp("2021-06-09T00:00:00Z"), Filename: "scan_007.bin"}
	v := &stubView{latest: []models.Sweep{a}, all: []models.Sweep{a, b}}
	v.visible = v.latest
	return v
}

func key(s string) bubbletea.KeyMsg {
	switch s {
	case "enter":
		return bubbletea.KeyMsg{Type: bubbletea.KeyEnter}
	case "down":
		return bubbletea.KeyMsg{Type: bubbletea.KeyDown}
	}
	return bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg bubbletea.Msg) (model, bubbletea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestToggleShowsAllSweeps(t *testing.T) {
	view := newStubView()
	m := newModel(context.Background(), view, &stubFiles{})
	assert.Len(t, m.sweeps, 1)
	assert.Contains(t, m.View(), "latest sweeps (1)")

	m, _ = update(t, m, key("a"))
	assert.True(t, view.showAll)
	assert.Len(t, m.sweeps, 2)
	assert.Contains(t, m.View(), "all sweeps (2)")
	assert.Contains(t, m.View(), "2021-06-09T00:00:00Z")

	m, _ = update(t, m, key("a"))
	assert.Len(t, m.sweeps, 1)
}

func TestCursorWrapsAndClamps(t *testing.T) {
	view := newStubView()
	m := newModel(context.Background(), view, &stubFiles{})
	m, _ = update(t, m, key("a"))

	m, _ = update(t, m, key("down"))
	assert.Equal(t, 1, m.cursor)
	m, _ = update(t, m, key("j"))
	assert.Equal(t, 0, m.cursor)
	m, _ = update(t, m, key("k"))
	assert.Equal(t, 1, m.cursor)

	// back to the one-record list
	m, _ = update(t, m, key("a"))
	assert.Equal(t, 0, m.cursor)
}

func TestEnterDownloadsSelectedSweep(t *testing.T) {
	view := newStubView()
	files := &stubFiles{}
	m := newModel(context.Background(), view, files)

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.downloading)
	assert.Contains(t, m.View(), "Downloading a.csv")

	// a second enter while downloading is ignored
	_, again := update(t, m, key("enter"))
	assert.Nil(t, again)

	m, _ = update(t, m, cmd())
	assert.False(t, m.downloading)
	assert.Equal(t, []int64{1}, view.downloaded)
	assert.Equal(t, []string{"a.csv"}, files.names)
	assert.Contains(t, m.View(), "Saved "+filepath.Join("downloads", "a (1).csv"))
}

func TestDownloadFailureIsShown(t *testing.T) {
	view := newStubView()
	view.downloadErr = errors.NewUpstreamError("sweep backend answered 500", 500)
	m := newModel(context.Background(), view, &stubFiles{})

	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "Download failed")
}

func TestRefreshAndTick(t *testing.T) {
	view := newStubView()
	m := newModel(context.Background(), view, &stubFiles{})

	m, _ = update(t, m, key("r"))
	assert.Equal(t, 1, view.activations)
	assert.Contains(t, m.View(), "Refreshing...")

	view.mu.Lock()
	view.visible = nil
	view.mu.Unlock()

	m, cmd := update(t, m, TickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Empty(t, m.sweeps)
	assert.Contains(t, m.View(), "No sweeps yet.")
}

func TestQuit(t *testing.T) {
	m := newModel(context.Background(), newStubView(), &stubFiles{})
	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, bubbletea.Quit(), cmd())
}

func TestEmptyListIgnoresEnter(t *testing.T) {
	view := &stubView{}
	m := newModel(context.Background(), view, &stubFiles{})
	_, cmd := update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.True(t, strings.Contains(m.View(), "No sweeps yet."))
}

func TestLogToFileKeepsLogsOffTheTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sweeptui.log")
	previous := nuts.L

	restore, err := LogToFile(path)
	require.NoError(t, err)
	assert.NotSame(t, previous, nuts.L)

	nuts.L.Infof("[Test] fetched %d sweeps", 3)
	nuts.L.Warnf("[Test] fetch failed")
	restore()
	assert.Same(t, previous, nuts.L)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "fetched 3 sweeps")
	assert.Contains(t, string(content), "fetch failed")
}

func TestLogToFileReportsUnusablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := LogToFile(filepath.Join(blocker, "sweeptui.log"))
	assert.Error(t, err)
}
