package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodos(t *testing.T, descriptions ...string) []*Task {
	t.Helper()

	tasks := make([]*Task, 0, len(descriptions))
	for _, d := range descriptions {
		td, err := NewTodo(d)
		require.NoError(t, err)
		tasks = append(tasks, td)
	}
	return tasks
}

func TestListAddReturnsSize(t *testing.T) {
	l := NewList()
	assert.Equal(t, 0, l.Size())
	assert.NotNil(t, l.All())
	assert.Empty(t, l.All())

	for i, td := range newTodos(t, "a", "b", "c") {
		assert.Equal(t, i+1, l.Add(td))
	}
	assert.Equal(t, 3, l.Size())
}

func TestListAllowsDuplicates(t *testing.T) {
	l := NewList(newTodos(t, "same", "same")...)
	assert.Equal(t, 2, l.Size())
}

func TestListMarkDoneAndUndone(t *testing.T) {
	l := NewList(newTodos(t, "a", "b")...)
	before := l.All()[1].Render()

	got, err := l.MarkDone(2)
	require.NoError(t, err)
	assert.True(t, got.IsDone())
	assert.Equal(t, "[T][X] b", got.Render())

	got, err = l.MarkUndone(2)
	require.NoError(t, err)
	assert.False(t, got.IsDone())
	assert.Equal(t, before, got.Render())
}

func TestListDeleteKeepsOrder(t *testing.T) {
	tasks := newTodos(t, "a", "b", "c", "d")
	l := NewList(tasks...)

	removed, err := l.Delete(2)
	require.NoError(t, err)
	assert.Same(t, tasks[1], removed)
	assert.Equal(t, "[T][ ] b", removed.Render())

	all := l.All()
	require.Len(t, all, 3)
	assert.Same(t, tasks[0], all[0])
	assert.Same(t, tasks[2], all[1])
	assert.Same(t, tasks[3], all[2])
}

func TestListDeleteEnds(t *testing.T) {
	tasks := newTodos(t, "a", "b", "c")
	l := NewList(tasks...)

	last, err := l.Delete(3)
	require.NoError(t, err)
	assert.Same(t, tasks[2], last)

	first, err := l.Delete(1)
	require.NoError(t, err)
	assert.Same(t, tasks[0], first)

	require.Equal(t, 1, l.Size())
	assert.Same(t, tasks[1], l.All()[0])
}

func TestListIndexOutOfRange(t *testing.T) {
	l := NewList(newTodos(t, "a", "b")...)

	ops := map[string]func(int) (*Task, error){
		"get":    l.Get,
		"done":   l.MarkDone,
		"undone": l.MarkUndone,
		"delete": l.Delete,
	}

	for name, op := range ops {
		for _, index := range []int{0, -1, 3, 100} {
			got, err := op(index)
			assert.Nil(t, got, "%s(%d)", name, index)

			var rangeErr *IndexOutOfRangeError
			require.ErrorAs(t, err, &rangeErr, "%s(%d)", name, index)
			assert.Equal(t, index, rangeErr.Index)
			assert.Equal(t, 2, rangeErr.Size)
		}
	}

	assert.Equal(t, 2, l.Size())
	for _, td := range l.All() {
		assert.False(t, td.IsDone())
	}
}

func TestListAllIsSnapshot(t *testing.T) {
	l := NewList(newTodos(t, "a")...)
	snapshot := l.All()

	l.Add(newTodos(t, "b")[0])
	assert.Len(t, snapshot, 1)

	snapshot[0] = nil
	assert.NotNil(t, l.All()[0])
}
