package tasks

import (
	"testing"

	"taskdeck/internal/models"
)

func TestReduceSet(t *testing.T) {
	state := []models.Task{{ID: 1, Title: "old"}}
	incoming := []models.Task{{ID: 2, Title: "a"}, {ID: 3, Title: "b"}}

	next := Reduce(state, Action{Type: ActionSet, Tasks: incoming})

	if len(next) != 2 || next[0].ID != 2 || next[1].ID != 3 {
		t.Errorf("next = %+v", next)
	}
	if len(state) != 1 {
		t.Error("input state mutated")
	}
	// The new list must not alias the action's slice
	incoming[0].Title = "changed"
	if next[0].Title != "a" {
		t.Error("reduced list aliases action slice")
	}
}

func TestReduceAdd(t *testing.T) {
	state := []models.Task{{ID: 1, Title: "first"}}

	next := Reduce(state, Action{Type: ActionAdd, Task: models.Task{ID: 2, Title: "second"}})

	if len(next) != 2 || next[1].ID != 2 {
		t.Errorf("next = %+v", next)
	}
	if len(state) != 1 {
		t.Error("input state mutated")
	}
}

func TestReduceUpdate(t *testing.T) {
	state := []models.Task{
		{ID: 1, Title: "keep", Status: models.StatusPending},
		{ID: 2, Title: "old", Status: models.StatusPending},
	}

	next := Reduce(state, Action{Type: ActionUpdate, Task: models.Task{ID: 2, Title: "new", Status: models.StatusCompleted}})

	if next[0].Title != "keep" {
		t.Errorf("unrelated task changed: %+v", next[0])
	}
	if next[1].Title != "new" || next[1].Status != models.StatusCompleted {
		t.Errorf("task not updated: %+v", next[1])
	}
	if state[1].Title != "old" {
		t.Error("input state mutated")
	}
}

func TestReduceUpdateUnknownIDIsNoop(t *testing.T) {
	state := []models.Task{{ID: 1, Title: "only"}}
	next := Reduce(state, Action{Type: ActionUpdate, Task: models.Task{ID: 99, Title: "ghost"}})
	if len(next) != 1 || next[0].Title != "only" {
		t.Errorf("next = %+v", next)
	}
}

func TestReduceDelete(t *testing.T) {
	state := []models.Task{{ID: 1}, {ID: 2}, {ID: 3}}

	next := Reduce(state, Action{Type: ActionDelete, ID: 2})

	if len(next) != 2 || next[0].ID != 1 || next[1].ID != 3 {
		t.Errorf("next = %+v", next)
	}
	if len(state) != 3 {
		t.Error("input state mutated")
	}
}

func TestReduceDeleteUnknownIDIsNoop(t *testing.T) {
	state := []models.Task{{ID: 1}}
	next := Reduce(state, Action{Type: ActionDelete, ID: 99})
	if len(next) != 1 {
		t.Errorf("next = %+v", next)
	}
}
