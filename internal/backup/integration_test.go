package backup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage/sqlite"
)

// TestIntegrationBackupRestoreWorkflow backs up a migrated habits database,
// changes it, restores it, and reopens it through the store.
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "habits.db")
	created := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

	store := sqlite.NewStore(dbPath, time.UTC)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	user := models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Level: 1, CreatedAt: created}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	habit := models.Habit{
		ID: "h1", UserID: "u1", Name: "Lire", Emoji: "📌", Category: "Autre", Color: "blue",
		Schedule: models.Daily{}, CreatedAt: created, UpdatedAt: created,
	}
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	store.Close()

	mgr := NewManager(dbPath, WithClock(steppingClock(time.Date(2026, time.March, 1, 10, 0, 0, 0, time.Local))))
	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store = sqlite.NewStore(dbPath, time.UTC)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	habit.ID, habit.Name = "h2", "Courir"
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	habits, err := store.ListHabits(ctx, "u1")
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits before restore, got %d", len(habits))
	}
	store.Close()

	if _, err := mgr.RestoreBackup(ctx, backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	store = sqlite.NewStore(dbPath, time.UTC)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load after restore failed: %v", err)
	}
	defer store.Close()

	habits, err = store.ListHabits(ctx, "u1")
	if err != nil {
		t.Fatalf("ListHabits after restore failed: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Lire" {
		t.Errorf("expected only the original habit after restore, got %+v", habits)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected the original backup and the pre-restore copy, got %d", len(backups))
	}
}
