package task

// List is an ordered collection of tasks. Insertion order is display order
// and persisted order. Indexes taken by its methods are 1-based.
type List struct {
	tasks []*Task
}

// NewList creates a list holding the given tasks in order.
func NewList(tasks ...*Task) *List {
	l := &List{tasks: make([]*Task, 0, len(tasks))}
	l.tasks = append(l.tasks, tasks...)
	return l
}

// Add appends a task and returns the new size.
func (l *List) Add(t *Task) int {
	l.tasks = append(l.tasks, t)
	return len(l.tasks)
}

// Get returns the task at index.
func (l *List) Get(index int) (*Task, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	return l.tasks[index-1], nil
}

// MarkDone marks the task at index as done and returns it.
func (l *List) MarkDone(index int) (*Task, error) {
	t, err := l.Get(index)
	if err != nil {
		return nil, err
	}
	t.MarkAsDone()
	return t, nil
}

// MarkUndone marks the task at index as not done and returns it.
func (l *List) MarkUndone(index int) (*Task, error) {
	t, err := l.Get(index)
	if err != nil {
		return nil, err
	}
	t.MarkAsUndone()
	return t, nil
}

// Delete removes the task at index and returns it.
func (l *List) Delete(index int) (*Task, error) {
	if err := l.check(index); err != nil {
		return nil, err
	}
	t := l.tasks[index-1]
	l.tasks = append(l.tasks[:index-1], l.tasks[index:]...)
	return t, nil
}

// All returns a snapshot of the tasks in order. The slice is never nil.
func (l *List) All() []*Task {
	tasks := make([]*Task, len(l.tasks))
	copy(tasks, l.tasks)
	return tasks
}

// Size returns the number of tasks.
func (l *List) Size() int {
	return len(l.tasks)
}

func (l *List) check(index int) error {
	if index < 1 || index > len(l.tasks) {
		return &IndexOutOfRangeError{Index: index, Size: len(l.tasks)}
	}
	return nil
}
