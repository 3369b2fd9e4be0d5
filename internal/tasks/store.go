// Package tasks keeps a task collection synchronized with the backend.
// Local state changes only after the server confirms an operation.
package tasks

import (
	"context"
	"errors"
	"sync"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/session"
)

// Scope selects which backend collection the store is bound to
type Scope int

const (
	// ScopePersonal is the caller's own tasks
	ScopePersonal Scope = iota
	// ScopeGlobal is every user's tasks (staff view)
	ScopeGlobal
)

// ErrTitleRequired rejects mutations with a blank title before any
// network call is made.
var ErrTitleRequired = errors.New("title is required")

// Fallback messages matching the original front end
const (
	msgFetchFailed    = "Failed to fetch tasks"
	msgSaveFailed     = "Failed to save task"
	msgDeleteFailed   = "Failed to delete task"
	msgSessionExpired = "Token refresh failed. Please log in again."
	msgUpdateNoPerm   = "Failed to update task. You may not have permission."
	msgDeleteNoPerm   = "You do not have permission to delete this task."
	msgStaffNoDelete  = "Staff cannot delete tasks."
)

// Store owns one task list and its two advisory error channels.
// Every backend call goes through the session manager's retry-once
// decorator; a failed refresh surfaces as session.ErrSessionExpired
// with the matching channel set, and the caller redirects to login.
type Store struct {
	api     *api.Client
	session *session.Manager
	scope   Scope

	mu        sync.RWMutex
	tasks     []models.Task
	fetchErr  string
	submitErr string
}

// NewStore creates a store bound to the personal or global collection
func NewStore(client *api.Client, mgr *session.Manager, scope Scope) *Store {
	return &Store{api: client, session: mgr, scope: scope}
}

// FetchAll replaces the local list with the full server collection
func (s *Store) FetchAll(ctx context.Context) error {
	var fetched []models.Task
	err := s.session.Do(ctx, func(token string) error {
		var callErr error
		if s.scope == ScopeGlobal {
			fetched, callErr = s.api.ListAllTasks(ctx, token)
		} else {
			fetched, callErr = s.api.ListTasks(ctx, token)
		}
		return callErr
	})
	if err != nil {
		s.setFetchErr(s.failureMessage(err, msgFetchFailed))
		return err
	}

	s.apply(Action{Type: ActionSet, Tasks: fetched})
	s.setFetchErr("")
	return nil
}

// Add posts a new task and appends the server-confirmed record.
// Only valid on the personal scope; the global view has no add form.
func (s *Store) Add(ctx context.Context, title, description, status string) error {
	if title == "" {
		return ErrTitleRequired
	}

	var created models.Task
	err := s.session.Do(ctx, func(token string) error {
		var callErr error
		created, callErr = s.api.AddTask(ctx, token, title, description, status)
		return callErr
	})
	if err != nil {
		s.setSubmitErr(s.failureMessage(err, msgSaveFailed))
		return err
	}

	s.apply(Action{Type: ActionAdd, Task: created})
	s.setSubmitErr("")
	return nil
}

// Update puts the full record and replaces the matching local one
func (s *Store) Update(ctx context.Context, id int64, title, description, status string) error {
	if title == "" {
		return ErrTitleRequired
	}

	var updated models.Task
	err := s.session.Do(ctx, func(token string) error {
		var callErr error
		if s.scope == ScopeGlobal {
			updated, callErr = s.api.UpdateAnyTask(ctx, token, id, title, description, status)
		} else {
			updated, callErr = s.api.UpdateTask(ctx, token, id, title, description, status)
		}
		return callErr
	})
	if err != nil {
		fallback := msgSaveFailed
		if s.scope == ScopeGlobal {
			fallback = msgUpdateNoPerm
		}
		s.setSubmitErr(s.failureMessage(err, fallback))
		return err
	}

	s.apply(Action{Type: ActionUpdate, Task: updated})
	s.setSubmitErr("")
	return nil
}

// Delete removes a task server-side, then locally
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := s.session.Do(ctx, func(token string) error {
		if s.scope == ScopeGlobal {
			return s.api.DeleteAnyTask(ctx, token, id)
		}
		return s.api.DeleteTask(ctx, token, id)
	})
	if err != nil {
		s.setSubmitErr(s.deleteFailureMessage(err))
		return err
	}

	s.apply(Action{Type: ActionDelete, ID: id})
	s.setSubmitErr("")
	return nil
}

// Tasks returns a copy of the current list
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Stats recomputes the per-status counts from the current list
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CountByStatus(s.tasks)
}

// FetchErr is the advisory list-load error, empty when clear
func (s *Store) FetchErr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchErr
}

// SubmitErr is the advisory mutation error, empty when clear
func (s *Store) SubmitErr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitErr
}

// ClearSubmitErr dismisses the mutation banner
func (s *Store) ClearSubmitErr() {
	s.setSubmitErr("")
}

func (s *Store) apply(action Action) {
	s.mu.Lock()
	s.tasks = Reduce(s.tasks, action)
	s.mu.Unlock()
}

func (s *Store) setFetchErr(msg string) {
	s.mu.Lock()
	s.fetchErr = msg
	s.mu.Unlock()
}

func (s *Store) setSubmitErr(msg string) {
	s.mu.Lock()
	s.submitErr = msg
	s.mu.Unlock()
}

func (s *Store) failureMessage(err error, fallback string) string {
	if errors.Is(err, session.ErrSessionExpired) {
		return msgSessionExpired
	}
	return api.Message(err, fallback)
}

// deleteFailureMessage distinguishes the staff case in the global view:
// staff may edit any task but only superusers may delete, so a staff
// 403 gets its own wording.
func (s *Store) deleteFailureMessage(err error) string {
	if errors.Is(err, session.ErrSessionExpired) {
		return msgSessionExpired
	}
	if s.scope == ScopeGlobal {
		if user, ok := s.session.User(); ok && user.IsStaff && !user.IsSuperuser {
			return msgStaffNoDelete
		}
		return api.Message(err, msgDeleteNoPerm)
	}
	return api.Message(err, msgDeleteFailed)
}
