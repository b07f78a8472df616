// Package memstore is an in-memory task store speaking the same HTTP contract
// the client consumes. It backs `checklist serve` and the client tests.
// Nothing is persisted.
package memstore

import (
	"errors"
	"sync"

	"checklist-cli/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyName    = errors.New("empty user name")
)

// Store keeps users in creation order and their tasks in seed order.
type Store struct {
	mu       sync.RWMutex
	template []TemplateTask
	names    []string
	byUser   map[string][]model.TaskID
	tasks    map[model.TaskID]*model.Task
	newID    func() model.TaskID
}

type StoreOption func(*Store)

// WithTemplate sets the tasks seeded into every new user.
func WithTemplate(tpl []TemplateTask) StoreOption {
	return func(s *Store) { s.template = append([]TemplateTask(nil), tpl...) }
}

// WithIDFunc overrides uuid generation (deterministic ids in tests).
func WithIDFunc(fn func() model.TaskID) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(opts ...StoreOption) *Store {
	s := &Store{
		template: DefaultTemplate(),
		byUser:   map[string][]model.TaskID{},
		tasks:    map[model.TaskID]*model.Task{},
		newID:    func() model.TaskID { return model.TaskID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers name and seeds its tasks. Creating an existing user is a no-op.
// It reports whether a new user was created.
func (s *Store) CreateUser(name string) (bool, error) {
	if name == "" {
		return false, ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[name]; ok {
		return false, nil
	}
	ids := make([]model.TaskID, 0, len(s.template))
	for _, tt := range s.template {
		id := s.newID()
		s.tasks[id] = &model.Task{ID: id, Name: tt.Name, Category: tt.Category, Checked: tt.Checked}
		ids = append(ids, id)
	}
	s.byUser[name] = ids
	s.names = append(s.names, name)
	return true, nil
}

func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Store) UserTasks(name string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, ok := s.byUser[name]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.tasks[id])
	}
	return out, nil
}

func (s *Store) Task(id model.TaskID) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	return *t, nil
}

func (s *Store) SetChecked(id model.TaskID, checked bool) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	t.Checked = checked
	return *t, nil
}
