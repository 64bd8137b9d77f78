package history

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	store, err := NewStore(db, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestStartAndFinish(t *testing.T) {
	store := setupTestStore(t)

	releaseAt := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if err := store.Start("run-1", "GAMBIR -> BANDUNG", "ARGO PARAHYANGAN", releaseAt); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := store.Finish("run-1", StatusFailed, "payment", "bank accordion not found"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	attempts, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(attempts))
	}

	got := attempts[0]
	if got.Status != StatusFailed {
		t.Fatalf("status = %q", got.Status)
	}
	if got.FailedStep != "payment" {
		t.Fatalf("failed step = %q", got.FailedStep)
	}
	if got.FinishedAt == nil {
		t.Fatal("finished_at not set")
	}
	if !got.ReleaseAt.Equal(releaseAt) {
		t.Fatalf("release_at = %v, want %v", got.ReleaseAt, releaseAt)
	}
}

func TestFinishUnknownAttempt(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Finish("missing", StatusSucceeded, "", ""); err == nil {
		t.Fatal("expected finish of unknown attempt to fail")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := setupTestStore(t)

	base := time.Now()
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		attempt := Attempt{
			ID:        id,
			Route:     "GAMBIR -> BANDUNG",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Status:    StatusSucceeded,
		}
		if err := store.db.Create(&attempt).Error; err != nil {
			t.Fatalf("seed attempt: %v", err)
		}
	}

	attempts, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].ID != "run-c" || attempts[1].ID != "run-b" {
		t.Fatalf("unexpected order: %s, %s", attempts[0].ID, attempts[1].ID)
	}
}
