package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maki/task"
)

// setupTestStore creates a store in a temporary directory, optionally
// seeding the save file with content
func setupTestStore(t *testing.T, content string) *TextStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.txt")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	store := NewTextStore(path, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadMissingFile(t *testing.T) {
	store := setupTestStore(t, "")

	result, err := store.Load(gmt8)
	require.NoError(t, err)
	assert.Equal(t, StatusNoSaveFile, result.Status)
	assert.Equal(t, 0, result.Loaded())
	assert.NotNil(t, result.Tasks)
	assert.Empty(t, result.Diagnostics)
}

func TestLoadEmptyFile(t *testing.T) {
	store := setupTestStore(t, "")
	require.NoError(t, os.WriteFile(store.Path(), nil, 0o644))

	result, err := store.Load(gmt8)
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, result.Status)
	assert.Equal(t, 0, result.Loaded())
}

func TestLoadCorruptLineThenTodo(t *testing.T) {
	store := setupTestStore(t, "X | notabool | foo\nT | false | buy milk\n")

	result, err := store.Load(gmt8)
	require.NoError(t, err)
	require.Equal(t, 1, result.Loaded())
	assert.Equal(t, "[T][ ] buy milk", result.Tasks[0].Render())
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, 1, result.Diagnostics[0].Line)
}

func TestLoadOverlongLineKeepsLaterRecords(t *testing.T) {
	content := "T | false | first\n" +
		"T | false | " + strings.Repeat("x", 2*maxLineSize) + "\n" +
		"T | false | after long line\n"
	store := setupTestStore(t, content)

	result, err := store.Load(gmt8)
	require.NoError(t, err)
	require.Equal(t, 2, result.Loaded())
	require.Len(t, result.Diagnostics, 1)
	assert.ErrorIs(t, result.Diagnostics[0], ErrLineTooLong)

	require.NoError(t, store.Save(result.Tasks))
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "T | false | first\nT | false | after long line\n", string(data))
}

func TestLoadInterleavedValidAndMalformed(t *testing.T) {
	valid := []string{
		"T | false | one",
		"D | true | two | 2024-03-01T09:00:00+08:00",
		"E | false | three | 2024-03-05T14:00:00+08:00",
		"T | true | four",
	}
	malformed := []string{
		"Q | false | nope",
		"T | yes | nope",
		"D | false | nope | not-a-date",
	}

	var lines []string
	for i, v := range valid {
		lines = append(lines, v)
		if i < len(malformed) {
			lines = append(lines, malformed[i])
		}
	}
	store := setupTestStore(t, strings.Join(lines, "\n")+"\n")

	result, err := store.Load(gmt8)
	require.NoError(t, err)
	require.Equal(t, len(valid), result.Loaded())
	assert.Len(t, result.Diagnostics, len(malformed))

	for i, got := range result.Tasks {
		assert.Equal(t, valid[i], EncodeRecord(got))
	}
}

func TestLoadLogsSkippedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("X | notabool | foo\n"), 0o644))

	var buf bytes.Buffer
	store := NewTextStore(path, zerolog.New(&buf))

	result, err := store.Load(gmt8)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Loaded())
	assert.Contains(t, buf.String(), "skipping malformed record")
	assert.Contains(t, buf.String(), `"line":1`)
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	store := NewTextStore(dir, zerolog.Nop())

	result, err := store.Load(gmt8)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "read", perr.Op)
	assert.Equal(t, dir, perr.Path)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Loaded())
}

func TestSaveWritesRecordFormat(t *testing.T) {
	store := setupTestStore(t, "")

	todo, err := task.NewTodo("buy milk")
	require.NoError(t, err)
	deadline, err := task.NewDeadline("submit report", time.Date(2024, time.March, 1, 9, 0, 0, 0, gmt8))
	require.NoError(t, err)
	deadline.MarkAsDone()
	event, err := task.NewEvent("team lunch", time.Date(2024, time.March, 4, 12, 30, 0, 0, gmt8))
	require.NoError(t, err)

	require.NoError(t, store.Save([]*task.Task{todo, deadline, event}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t,
		"T | false | buy milk\n"+
			"D | true | submit report | 2024-03-01T09:00:00+08:00\n"+
			"E | false | team lunch | 2024-03-04T12:30:00+08:00\n",
		string(data))
}

func TestSaveOverwrites(t *testing.T) {
	store := setupTestStore(t, "T | false | old one\nT | false | old two\nT | false | old three\n")

	todo, err := task.NewTodo("new")
	require.NoError(t, err)
	require.NoError(t, store.Save([]*task.Task{todo}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "T | false | new\n", string(data))

	require.NoError(t, store.Save(nil))
	data, err = os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "data.txt")
	store := NewTextStore(path, zerolog.Nop())

	todo, err := task.NewTodo("buy milk")
	require.NoError(t, err)

	err = store.Save([]*task.Task{todo})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "write", perr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := setupTestStore(t, "")

	todo, err := task.NewTodo("buy milk")
	require.NoError(t, err)
	todo.MarkAsDone()
	deadline, err := task.NewDeadline("submit report", time.Date(2024, time.March, 1, 1, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	event, err := task.NewEvent("concert", time.Date(2024, time.May, 10, 20, 0, 0, 0, gmt8))
	require.NoError(t, err)
	event.MarkAsDone()

	saved := []*task.Task{todo, deadline, event}
	require.NoError(t, store.Save(saved))

	result, err := store.Load(gmt8)
	require.NoError(t, err)
	require.Equal(t, len(saved), result.Loaded())
	assert.Empty(t, result.Diagnostics)

	for i, want := range saved {
		got := result.Tasks[i]
		assert.Equal(t, want.Kind(), got.Kind())
		assert.Equal(t, want.IsDone(), got.IsDone())
		assert.Equal(t, want.Description(), got.Description())

		wantWhen, _ := want.When()
		gotWhen, _ := got.When()
		assert.True(t, wantWhen.Equal(gotWhen))
	}

	assert.Equal(t, "[D][ ] submit report (by: Mar 1 2024, 9:00am)", result.Tasks[1].Render())
}
