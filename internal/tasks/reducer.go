package tasks

import "taskdeck/internal/models"

// ActionType enumerates the task-list state transitions
type ActionType int

const (
	// ActionSet replaces the whole list with a fresh server response
	ActionSet ActionType = iota
	// ActionAdd appends a server-confirmed new record
	ActionAdd
	// ActionUpdate replaces the record matching Task.ID
	ActionUpdate
	// ActionDelete removes the record matching ID
	ActionDelete
)

// Action is one task-list state transition
type Action struct {
	Type  ActionType
	Tasks []models.Task // ActionSet
	Task  models.Task   // ActionAdd, ActionUpdate
	ID    int64         // ActionDelete
}

// Reduce applies an action to the task list and returns the new list.
// It never mutates state in place; unknown actions return state unchanged.
func Reduce(state []models.Task, action Action) []models.Task {
	switch action.Type {
	case ActionSet:
		next := make([]models.Task, len(action.Tasks))
		copy(next, action.Tasks)
		return next

	case ActionAdd:
		next := make([]models.Task, 0, len(state)+1)
		next = append(next, state...)
		return append(next, action.Task)

	case ActionUpdate:
		next := make([]models.Task, len(state))
		for i, t := range state {
			if t.ID == action.Task.ID {
				next[i] = action.Task
			} else {
				next[i] = t
			}
		}
		return next

	case ActionDelete:
		next := make([]models.Task, 0, len(state))
		for _, t := range state {
			if t.ID != action.ID {
				next = append(next, t)
			}
		}
		return next
	}
	return state
}
