package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "quiz.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenStoreRequiresPath(t *testing.T) {
	if _, err := OpenStore("  ", zap.NewNop()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSeedQuestionsIsIdempotent(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	inserted, err := store.SeedQuestions(ctx, DefaultQuestions())
	if err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	if inserted != 5 {
		t.Fatalf("expected 5 inserted questions, got %d", inserted)
	}

	inserted, err = store.SeedQuestions(ctx, DefaultQuestions())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected second seed to insert nothing, got %d", inserted)
	}

	count, err := store.CountQuestions(ctx)
	if err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 questions after re-seed, got %d", count)
	}
}

func TestSeedQuestionsRejectsAnswerOutOfRange(t *testing.T) {
	store := openTempStore(t)

	questions := DefaultQuestions()
	questions[2].Answer = 7
	if _, err := store.SeedQuestions(context.Background(), questions); err == nil {
		t.Fatal("expected error for answer outside 1-4")
	}

	count, err := store.CountQuestions(context.Background())
	if err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to leave 0 questions, got %d", count)
	}
}

func TestCorrectAnswersMatchSeededOrder(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.SeedQuestions(ctx, DefaultQuestions()); err != nil {
		t.Fatalf("seed questions: %v", err)
	}

	answers, err := store.CorrectAnswers(ctx)
	if err != nil {
		t.Fatalf("correct answers: %v", err)
	}
	want := []int{1, 1, 1, 3, 2}
	if len(answers) != len(want) {
		t.Fatalf("expected %d answers, got %d", len(want), len(answers))
	}
	for i, answer := range answers {
		if answer != want[i] {
			t.Fatalf("answer %d: expected %d, got %d", i+1, want[i], answer)
		}
	}
}

func TestQuestionsReturnsStableOrder(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.SeedQuestions(ctx, DefaultQuestions()); err != nil {
		t.Fatalf("seed questions: %v", err)
	}

	questions, err := store.Questions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Question != DefaultQuestions()[i].Question {
			t.Fatalf("question %d out of order: %q", i+1, q.Question)
		}
	}
}

func TestCreateStaffAssignsSequentialStaffIDs(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	first, err := store.CreateStaff(ctx, "alice@example.com", "hash-a")
	if err != nil {
		t.Fatalf("create first staff: %v", err)
	}
	second, err := store.CreateStaff(ctx, "bob@example.com", "hash-b")
	if err != nil {
		t.Fatalf("create second staff: %v", err)
	}

	if first.StaffID != "SID00001" {
		t.Fatalf("expected first staff id SID00001, got %s", first.StaffID)
	}
	if second.StaffID != "SID00002" {
		t.Fatalf("expected second staff id SID00002, got %s", second.StaffID)
	}
	if first.StaffID == second.StaffID {
		t.Fatal("staff ids must be unique")
	}

	count, err := store.CountStaff(ctx)
	if err != nil {
		t.Fatalf("count staff: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 staff rows, got %d", count)
	}
}

func TestCreateStaffRejectsDuplicateEmail(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.CreateStaff(ctx, "alice@example.com", "hash-a"); err != nil {
		t.Fatalf("create staff: %v", err)
	}

	_, err := store.CreateStaff(ctx, "alice@example.com", "hash-b")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	count, err := store.CountStaff(ctx)
	if err != nil {
		t.Fatalf("count staff: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate registration must not add rows, got %d", count)
	}
}

func TestGetStaffByIdentifier(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	created, err := store.CreateStaff(ctx, "alice@example.com", "hash-a")
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}

	byEmail, err := store.GetStaffByIdentifier(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("email lookup returned wrong row: %+v", byEmail)
	}

	byStaffID, err := store.GetStaffByIdentifier(ctx, created.StaffID)
	if err != nil {
		t.Fatalf("lookup by staff id: %v", err)
	}
	if byStaffID.ID != created.ID {
		t.Fatalf("staff id lookup returned wrong row: %+v", byStaffID)
	}

	if _, err := store.GetStaffByIdentifier(ctx, "nobody@example.com"); !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestGetStaffByIDUnknown(t *testing.T) {
	store := openTempStore(t)

	if _, err := store.GetStaffByID(context.Background(), 42); !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}
