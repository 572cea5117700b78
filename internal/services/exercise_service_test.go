package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestExerciseList_SearchIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	seedExercise(t, db, "Wall Squat")
	seedExercise(t, db, "Hamstring Stretch")
	seedExercise(t, db, "squat jump")

	svc := NewExerciseService(db)

	exercises, total, err := svc.List("SQUAT", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(exercises) != 2 {
		t.Fatalf("expected 2 matches regardless of case, got total=%d len=%d", total, len(exercises))
	}
	for _, e := range exercises {
		if e.Title == "Hamstring Stretch" {
			t.Fatalf("non-matching title returned")
		}
	}

	exercises, total, err = svc.List("", 1, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 || len(exercises) != 1 {
		t.Fatalf("expected paged result over full catalog, got total=%d len=%d", total, len(exercises))
	}
}

func TestExerciseDeactivate(t *testing.T) {
	db := openTestDB(t)
	e1 := seedExercise(t, db, "Squat")

	svc := NewExerciseService(db)
	if err := svc.Deactivate(e1.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if _, err := svc.Get(e1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deactivated exercise should be hidden, got %v", err)
	}
	if err := svc.Deactivate(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown exercise, got %v", err)
	}
}
