package models

import "time"

// Task statuses as the backend reports them
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// StatusOptions lists the valid statuses in form display order
var StatusOptions = []string{StatusPending, StatusInProgress, StatusCompleted}

// ValidStatus reports whether s is one of the three task statuses
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Task represents a single task as returned by the backend.
// OwnerUsername is only populated in the global (staff) collection.
type Task struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	OwnerUsername string    `json:"owner_username,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// User is the authenticated user's profile
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Stats holds per-status task counts for the dashboard
type Stats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
}

// CountByStatus computes dashboard stats from a task list
func CountByStatus(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusPending:
			s.Pending++
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		}
	}
	return s
}
