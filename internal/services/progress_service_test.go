package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/rehabplan-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestProgressRecord_CompletedAtSemantics(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	cx := seedComplex(t, db, instructor.ID, patient.ID, e1)

	svc := NewProgressService(db)

	attempted, err := svc.Record(capabilityCtx(cx.ID), cx.ID, &dto.RecordProgressRequest{
		ExerciseID: e1.ID,
		Completed:  false,
		PainLevel:  intPtr(4),
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if attempted.CompletedAt != nil {
		t.Fatalf("attempted-but-not-completed log must have nil completed_at")
	}

	before := time.Now()
	done, err := svc.Record(capabilityCtx(cx.ID), cx.ID, &dto.RecordProgressRequest{
		ExerciseID: e1.ID,
		Completed:  true,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatalf("completed log must have completed_at set")
	}
	if done.CompletedAt.Before(before) || done.CompletedAt.After(time.Now()) {
		t.Fatalf("completed_at should be the processing time, got %v", done.CompletedAt)
	}
}

func TestProgressRecord_CapabilityBoundToOneComplex(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	cxA := seedComplex(t, db, instructor.ID, patient.ID, e1)
	cxB := seedComplex(t, db, instructor.ID, patient.ID, e1)

	svc := NewProgressService(db)

	// A token resolved for complex A replayed against complex B
	_, err := svc.Record(capabilityCtx(cxA.ID), cxB.ID, &dto.RecordProgressRequest{
		ExerciseID: e1.ID,
		Completed:  true,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProgressRecord_RejectsExerciseOffPlan(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	offPlan := seedExercise(t, db, "Deadlift")
	cx := seedComplex(t, db, instructor.ID, patient.ID, e1)

	svc := NewProgressService(db)
	_, err := svc.Record(capabilityCtx(cx.ID), cx.ID, &dto.RecordProgressRequest{
		ExerciseID: offPlan.ID,
		Completed:  true,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for exercise off the plan, got %v", err)
	}
}

func TestProgressRecord_IdentityMustOwnComplex(t *testing.T) {
	db := openTestDB(t)
	a := seedInstructor(t, db, "a@clinic.test", "instructor")
	b := seedInstructor(t, db, "b@clinic.test", "instructor")
	patient := seedPatient(t, db, a.ID)
	e1 := seedExercise(t, db, "Squat")
	cx := seedComplex(t, db, a.ID, patient.ID, e1)

	svc := NewProgressService(db)
	_, err := svc.Record(identityCtx(b.ID), cx.ID, &dto.RecordProgressRequest{
		ExerciseID: e1.ID,
		Completed:  true,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign instructor, got %v", err)
	}
}

func TestProgressRecord_RatingBounds(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	cx := seedComplex(t, db, instructor.ID, patient.ID, e1)

	svc := NewProgressService(db)
	_, err := svc.Record(capabilityCtx(cx.ID), cx.ID, &dto.RecordProgressRequest{
		ExerciseID: e1.ID,
		PainLevel:  intPtr(11),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for out-of-range pain level, got %v", err)
	}
}

func TestProgressList_SummaryAveragesSkipMissingRatings(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	cx := seedComplex(t, db, instructor.ID, patient.ID, e1)

	svc := NewProgressService(db)
	session := uuid.New()

	// Two rated logs and one unrated; the unrated row must not drag the
	// average toward zero.
	for _, req := range []*dto.RecordProgressRequest{
		{ExerciseID: e1.ID, Completed: true, PainLevel: intPtr(4), DifficultyRating: intPtr(6), SessionID: &session},
		{ExerciseID: e1.ID, Completed: true, PainLevel: intPtr(8), SessionID: &session},
		{ExerciseID: e1.ID, Completed: false},
	} {
		if _, err := svc.Record(capabilityCtx(cx.ID), cx.ID, req); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	resp, err := svc.ListByComplex(capabilityCtx(cx.ID), cx.ID)
	if err != nil {
		t.Fatalf("ListByComplex failed: %v", err)
	}

	if len(resp.Logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(resp.Logs))
	}
	s := resp.Summary
	if s.TotalLogs != 3 || s.CompletedLogs != 2 {
		t.Fatalf("expected 3 total / 2 completed, got %d / %d", s.TotalLogs, s.CompletedLogs)
	}
	if s.AvgPainLevel != 6 {
		t.Fatalf("expected avg pain 6 over non-null rows, got %v", s.AvgPainLevel)
	}
	if s.AvgDifficulty != 6 {
		t.Fatalf("expected avg difficulty 6 over the single rated row, got %v", s.AvgDifficulty)
	}
	if s.SessionCount != 1 {
		t.Fatalf("expected 1 distinct session, got %d", s.SessionCount)
	}
	if s.ActiveDays != 1 {
		t.Fatalf("expected 1 active day, got %d", s.ActiveDays)
	}
}

func TestProgressList_OrdersByCompletionThenCreation(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	cx := seedComplex(t, db, instructor.ID, patient.ID, e1)

	// Timestamps are set explicitly so the effective ordering key differs
	// from insertion order. The key is completed_at, falling back to
	// created_at for attempts that were never completed.
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newest := base.Add(3 * time.Hour)
	oldest := base.Add(1 * time.Hour)
	logs := []models.ProgressLog{
		{ID: uuid.New(), ComplexID: cx.ID, ExerciseID: e1.ID, Completed: true, CompletedAt: &oldest, CreatedAt: base.Add(30 * time.Minute)},
		{ID: uuid.New(), ComplexID: cx.ID, ExerciseID: e1.ID, Completed: false, CreatedAt: base.Add(2 * time.Hour)},
		{ID: uuid.New(), ComplexID: cx.ID, ExerciseID: e1.ID, Completed: true, CompletedAt: &newest, CreatedAt: base},
	}
	for i := range logs {
		if err := db.Create(&logs[i]).Error; err != nil {
			t.Fatalf("failed to insert log: %v", err)
		}
	}

	resp, err := NewProgressService(db).ListByComplex(identityCtx(instructor.ID), cx.ID)
	if err != nil {
		t.Fatalf("ListByComplex failed: %v", err)
	}
	if len(resp.Logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(resp.Logs))
	}

	// newest completion, then the never-completed attempt by creation time,
	// then the oldest completion
	want := []uuid.UUID{logs[2].ID, logs[1].ID, logs[0].ID}
	for i, id := range want {
		if resp.Logs[i].ID != id {
			t.Fatalf("log %d out of order: got %s, want %s", i, resp.Logs[i].ID, id)
		}
	}
}

func TestProgressList_EmptyComplexYieldsZeroSummary(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	cx := seedComplex(t, db, instructor.ID, patient.ID, e1)

	svc := NewProgressService(db)
	resp, err := svc.ListByComplex(identityCtx(instructor.ID), cx.ID)
	if err != nil {
		t.Fatalf("ListByComplex failed: %v", err)
	}
	s := resp.Summary
	if s.TotalLogs != 0 || s.CompletedLogs != 0 || s.AvgPainLevel != 0 || s.AvgDifficulty != 0 || s.SessionCount != 0 || s.ActiveDays != 0 {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
}

func TestSummarizeForPatient_CoversTrashedComplexes(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)
	e1 := seedExercise(t, db, "Squat")
	cx1 := seedComplex(t, db, instructor.ID, patient.ID, e1)
	cx2 := seedComplex(t, db, instructor.ID, patient.ID, e1)

	progress := NewProgressService(db)
	for _, id := range []uuid.UUID{cx1.ID, cx2.ID} {
		if _, err := progress.Record(capabilityCtx(id), id, &dto.RecordProgressRequest{
			ExerciseID: e1.ID, Completed: true, PainLevel: intPtr(2),
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	// Trash one complex; its history must still count
	if err := NewComplexService(db).SoftDelete(cx2.ID, instructor.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	summary, err := progress.SummarizeForPatient(instructor.ID, patient.ID)
	if err != nil {
		t.Fatalf("SummarizeForPatient failed: %v", err)
	}
	if len(summary.Complexes) != 2 {
		t.Fatalf("expected 2 per-complex summaries, got %d", len(summary.Complexes))
	}
	if summary.Overall.TotalLogs != 2 || summary.Overall.CompletedLogs != 2 {
		t.Fatalf("expected overall 2/2, got %d/%d", summary.Overall.TotalLogs, summary.Overall.CompletedLogs)
	}

	trashedCovered := false
	for _, c := range summary.Complexes {
		if c.ComplexID == cx2.ID && c.Deleted && c.Summary.TotalLogs == 1 {
			trashedCovered = true
		}
	}
	if !trashedCovered {
		t.Fatalf("expected the trashed complex summarized with its logs")
	}
}

func TestSummarizeForPatient_ForeignPatient(t *testing.T) {
	db := openTestDB(t)
	a := seedInstructor(t, db, "a@clinic.test", "instructor")
	b := seedInstructor(t, db, "b@clinic.test", "instructor")
	patient := seedPatient(t, db, a.ID)

	svc := NewProgressService(db)
	if _, err := svc.SummarizeForPatient(b.ID, patient.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign patient, got %v", err)
	}
}

func TestSummarizeForPatient_NoComplexesYieldsZeros(t *testing.T) {
	db := openTestDB(t)
	instructor := seedInstructor(t, db, "a@clinic.test", "instructor")
	patient := seedPatient(t, db, instructor.ID)

	svc := NewProgressService(db)
	summary, err := svc.SummarizeForPatient(instructor.ID, patient.ID)
	if err != nil {
		t.Fatalf("SummarizeForPatient failed: %v", err)
	}
	if len(summary.Complexes) != 0 {
		t.Fatalf("expected no per-complex summaries")
	}
	if summary.Overall.TotalLogs != 0 || summary.Overall.AvgPainLevel != 0 {
		t.Fatalf("expected zero overall summary, got %+v", summary.Overall)
	}
}
