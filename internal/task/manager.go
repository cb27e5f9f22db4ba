package task

import (
	"fmt"

	"github.com/Cruceru-B/todolist/internal/logging"
)

// Saver persists a whole task list.
type Saver interface {
	Save(List) error
}

// Manager applies task operations and persists each successful mutation.
type Manager struct {
	store Saver
	log   *logging.Logger
}

// NewManager returns a Manager that saves through store. logger may be nil.
func NewManager(store Saver, logger *logging.Logger) *Manager {
	return &Manager{store: store, log: logger}
}

// Add appends a new, uncompleted task. An empty dueDate stores NoDueDate.
func (m *Manager) Add(l List, name, priority, dueDate string) (List, error) {
	due := NoDueDate
	if dueDate != "" {
		parsed, err := ParseDueDate(dueDate)
		if err != nil {
			m.log.Warn("add rejected", "err", err)
			return l, err
		}
		due = parsed
	}

	t := Task{Name: name, Completed: false, Priority: priority, DueDate: due}
	next := append(l.Clone(), t)
	if err := m.commit(l, next); err != nil {
		return l, err
	}
	m.log.Info("task added", "op", "add", "index", len(next)-1, "task", name, "priority", priority, "due_date", due)
	return next, nil
}

// View returns the sorted view of l.
func (m *Manager) View(l List) []Entry {
	return View(l)
}

// Complete marks the task at index as completed.
func (m *Manager) Complete(l List, index int) (List, error) {
	return m.update(l, index, "complete", func(t *Task) {
		t.Completed = true
	})
}

// Delete removes the task at index. Later tasks shift down by one.
func (m *Manager) Delete(l List, index int) (List, error) {
	if err := m.checkIndex(l, index, "delete"); err != nil {
		return l, err
	}
	removed := l[index]
	next := make(List, 0, len(l)-1)
	next = append(next, l[:index]...)
	next = append(next, l[index+1:]...)
	if err := m.commit(l, next); err != nil {
		return l, err
	}
	m.log.Info("task deleted", "op", "delete", "index", index, "task", removed.Name)
	return next, nil
}

// EditName replaces the name of the task at index.
func (m *Manager) EditName(l List, index int, name string) (List, error) {
	return m.update(l, index, "edit-name", func(t *Task) {
		t.Name = name
	})
}

// EditPriority replaces the priority of the task at index verbatim.
func (m *Manager) EditPriority(l List, index int, priority string) (List, error) {
	return m.update(l, index, "edit-priority", func(t *Task) {
		t.Priority = priority
	})
}

// EditDueDate replaces the due date of the task at index.
func (m *Manager) EditDueDate(l List, index int, dueDate string) (List, error) {
	if err := m.checkIndex(l, index, "edit-due-date"); err != nil {
		return l, err
	}
	due, err := ParseDueDate(dueDate)
	if err != nil {
		m.log.Warn("edit-due-date rejected", "index", index, "err", err)
		return l, err
	}
	return m.update(l, index, "edit-due-date", func(t *Task) {
		t.DueDate = due
	})
}

func (m *Manager) update(l List, index int, op string, apply func(*Task)) (List, error) {
	if err := m.checkIndex(l, index, op); err != nil {
		return l, err
	}
	next := l.Clone()
	apply(&next[index])
	if err := m.commit(l, next); err != nil {
		return l, err
	}
	t := next[index]
	m.log.Info("task updated", "op", op, "index", index, "task", t.Name, "completed", t.Completed, "priority", t.Priority, "due_date", t.DueDate)
	return next, nil
}

func (m *Manager) checkIndex(l List, index int, op string) error {
	if index < 0 || index >= len(l) {
		m.log.Warn(op+" rejected", "index", index, "len", len(l))
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index+1)
	}
	return nil
}

// commit saves next. On failure the caller keeps prev, so memory never runs
// ahead of storage.
func (m *Manager) commit(prev, next List) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(next); err != nil {
		m.log.Error("save failed", "err", err, "tasks", len(prev))
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
