package views

import (
	"taskdeck/internal/session"
	"taskdeck/internal/tasks"
)

// NewAllTasksView creates the global task list view with owner column.
// It reuses the task collection view over the global-scope store;
// creation happens in the personal view only, and the backend enforces
// the staff edit/superuser delete rules.
func NewAllTasksView(store *tasks.Store, mgr *session.Manager) *TasksView {
	v := newTaskCollectionView(store, mgr)
	v.title = "All Tasks"
	v.showOwner = true
	return v
}
