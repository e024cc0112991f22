package backup

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habits.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO habits (id, name) VALUES ('h1', 'Lire'), ('h2', 'Courir')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		t.Fatalf("failed to count habits in %s: %v", path, err)
	}
	return count
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(func() time.Time {
		return time.Date(2026, time.March, 10, 9, 30, 0, 0, time.Local)
	}))

	backupPath, err := mgr.CreateBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if got, want := filepath.Base(backupPath), "habits-20260310-093000.db"; got != want {
		t.Errorf("backup name = %q, want %q", got, want)
	}
	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written outside the backup dir: %s", backupPath)
	}
	if count := countHabits(t, backupPath); count != 2 {
		t.Errorf("expected 2 rows in backup, got %d", count)
	}
}

func TestBackupWithNoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	_, err := mgr.CreateBackup(context.Background())
	if !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	fixed := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		backupPath, err := mgr.CreateBackup(context.Background())
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		name := filepath.Base(backupPath)
		if paths[name] {
			t.Errorf("duplicate backup filename: %s", name)
		}
		paths[name] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 5 {
		t.Fatalf("expected 5 backups, got %d", len(backups))
	}
	if got := backups[0].Name(); got != "habits-20260310-093000-4.db" {
		t.Errorf("newest backup = %s, want the highest counter", got)
	}
	if got := backups[4].Name(); got != "habits-20260310-093000.db" {
		t.Errorf("oldest backup = %s, want the uncountered name", got)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(steppingClock(time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local))))

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(context.Background()); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted newest first at index %d", i)
		}
	}
	// The five oldest were removed: the oldest survivor is the sixth one taken.
	if got := backups[len(backups)-1].Name(); got != "habits-20260301-080500.db" {
		t.Errorf("oldest kept backup = %s", got)
	}
}

func TestWithRetention(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath,
		WithClock(steppingClock(time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local))),
		WithRetention(2))

	for i := 0; i < 4; i++ {
		if _, err := mgr.CreateBackup(context.Background()); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(steppingClock(time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local))))

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(context.Background()); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	// Files that don't look like backups are ignored.
	for _, name := range []string{"notes.txt", "habits-garbage.db", "habits-20260301-080000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Size == 0 {
			t.Errorf("backup %s has size 0", b.Name())
		}
		if b.Timestamp.IsZero() {
			t.Errorf("backup %s has a zero timestamp", b.Name())
		}
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name        string
		wantOK      bool
		wantCounter int
	}{
		{"habits-20260310-093000.db", true, 0},
		{"habits-20260310-093000-3.db", true, 3},
		{"habits-20260310-093000-0.db", false, 0},
		{"habits-20260310.db", false, 0},
		{"notes-20260310-093000.db", false, 0},
		{"habits-20260310-093000.sqlite", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, counter, ok := parseBackupName(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if counter != tt.wantCounter {
				t.Errorf("counter = %d, want %d", counter, tt.wantCounter)
			}
			if ts.Year() != 2026 || ts.Month() != time.March || ts.Day() != 10 || ts.Hour() != 9 || ts.Minute() != 30 {
				t.Errorf("timestamp = %v", ts)
			}
		})
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(steppingClock(time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local))))
	ctx := context.Background()

	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("INSERT INTO habits (id, name) VALUES ('h3', 'Méditer')"); err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}
	db.Close()

	if count := countHabits(t, dbPath); count != 3 {
		t.Fatalf("expected 3 rows before restore, got %d", count)
	}

	safetyCopy, err := mgr.RestoreBackup(ctx, backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	if count := countHabits(t, dbPath); count != 2 {
		t.Errorf("expected 2 rows after restore, got %d", count)
	}
	if safetyCopy == "" {
		t.Fatal("expected a safety copy of the replaced database")
	}
	if count := countHabits(t, safetyCopy); count != 3 {
		t.Errorf("safety copy has %d rows, want the 3 from before the restore", count)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file was left behind")
	}
}

func TestRestoreSkipsRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath,
		WithClock(steppingClock(time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local))),
		WithRetention(1))
	ctx := context.Background()

	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if _, err := mgr.RestoreBackup(ctx, backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected the restored backup and the safety copy, got %d backups", len(backups))
	}
}

func TestRestoreWithMissingBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	_, err := mgr.RestoreBackup(context.Background(), mgr.Resolve("habits-20990101-000000.db"))
	if !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	corrupted := filepath.Join(mgr.GetBackupDir(), "corrupted.db")
	if err := os.WriteFile(corrupted, []byte("not a valid sqlite database"), 0600); err != nil {
		t.Fatalf("failed to create corrupted file: %v", err)
	}

	if _, err := mgr.RestoreBackup(context.Background(), corrupted); err == nil {
		t.Error("expected error when restoring from corrupted backup")
	}
	if count := countHabits(t, dbPath); count != 2 {
		t.Errorf("database changed after a failed restore: %d rows", count)
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager("/data/habits.db")
	if got, want := mgr.Resolve("habits-20260310-093000.db"), filepath.Join("/data", "backups", "habits-20260310-093000.db"); got != want {
		t.Errorf("Resolve(name) = %s, want %s", got, want)
	}
	if got := mgr.Resolve("/elsewhere/copy.db"); got != "/elsewhere/copy.db" {
		t.Errorf("Resolve(path) = %s", got)
	}
}
