package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/models"
	"github.com/BradSavary/Habit-Tracker/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"), time.UTC)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, func() { store.Close() }
}

var created = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func seedUser(t *testing.T, s *Store, id, email string) models.User {
	t.Helper()
	u := models.User{ID: id, Name: "Ada", Email: email, PasswordHash: "hash", Level: 1, CreatedAt: created}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func seedHabit(t *testing.T, s *Store, id, userID string, sched models.Schedule) models.Habit {
	t.Helper()
	h := models.Habit{
		ID: id, UserID: userID, Name: "Habit " + id, Emoji: "💪", Category: "Sport", Color: "blue",
		Schedule: sched, CreatedAt: created, UpdatedAt: created,
	}
	if err := s.CreateHabit(context.Background(), h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

func TestInitIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	applied, err := store.Migrate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no pending migrations after Init, got %d applied", applied)
	}

	reopened := NewStore(store.GetConfigPath(), time.UTC)
	if err := reopened.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()
	if err := reopened.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestMigrationStatus(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	st, err := store.MigrationStatus(context.Background())
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if st.Current != st.Latest || len(st.Pending) != 0 {
		t.Errorf("expected an up to date schema, got %+v", st)
	}

	unopened := NewStore(store.GetConfigPath(), time.UTC)
	if _, err := unopened.MigrationStatus(context.Background()); err == nil {
		t.Error("expected an error before the database is opened")
	}
}

func TestLoadWithoutInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"), time.UTC)
	if err := store.Load(context.Background()); err == nil {
		t.Error("expected Load to fail before init")
	}
}

func TestUsers(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, store, "u1", "Ada@Example.com")

	got, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != "u1" || got.Level != 1 || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected user: %+v", got)
	}

	dup := models.User{ID: "u2", Name: "Other", Email: "ADA@example.com", PasswordHash: "x", Level: 1, CreatedAt: created}
	if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for same email, got %v", err)
	}

	if _, err := store.GetUser(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCompareAndSetUserXP(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	seedUser(t, store, "u1", "ada@example.com")

	ok, err := store.CompareAndSetUserXP(ctx, "u1", 0, 100, 2)
	if err != nil || !ok {
		t.Fatalf("CompareAndSetUserXP(0 -> 100) = %v, %v", ok, err)
	}

	// Stale expectation must not overwrite
	ok, err = store.CompareAndSetUserXP(ctx, "u1", 0, 10, 1)
	if err != nil {
		t.Fatalf("CompareAndSetUserXP failed: %v", err)
	}
	if ok {
		t.Error("expected stale compare-and-set to be rejected")
	}

	u, _ := store.GetUser(ctx, "u1")
	if u.XP != 100 || u.Level != 2 {
		t.Errorf("user = xp %d level %d, want 100 / 2", u.XP, u.Level)
	}
}

func TestHabitScheduleRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, store, "u1", "ada@example.com")

	schedules := map[string]models.Schedule{
		"daily":          models.Daily{},
		"weekly-days":    models.WeeklyOnDays{Days: []time.Weekday{time.Monday, time.Friday}},
		"weekly-count":   models.WeeklyCount{Goal: 3},
		"monthly-days":   models.MonthlyOnDays{Days: []int{1, 15, 31}},
		"monthly-count":  models.MonthlyCount{Goal: 4},
		"weekly-no-goal": models.WeeklyCount{},
	}

	for id, sched := range schedules {
		seedHabit(t, store, id, "u1", sched)
	}

	for id, want := range schedules {
		h, err := store.FindHabit(ctx, id, "u1")
		if err != nil {
			t.Fatalf("FindHabit(%s) failed: %v", id, err)
		}
		if got := models.Columns(h.Schedule); !equalColumns(got, models.Columns(want)) {
			t.Errorf("habit %s schedule = %+v, want %+v", id, got, models.Columns(want))
		}
	}

	habits, err := store.ListHabits(ctx, "u1")
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != len(schedules) {
		t.Errorf("ListHabits returned %d habits, want %d", len(habits), len(schedules))
	}
}

func equalColumns(a, b models.ScheduleColumns) bool {
	if a.Frequency != b.Frequency || a.WeeklyGoal != b.WeeklyGoal || a.MonthlyGoal != b.MonthlyGoal {
		return false
	}
	if len(a.WeekDays) != len(b.WeekDays) || len(a.MonthDays) != len(b.MonthDays) {
		return false
	}
	for i := range a.WeekDays {
		if a.WeekDays[i] != b.WeekDays[i] {
			return false
		}
	}
	for i := range a.MonthDays {
		if a.MonthDays[i] != b.MonthDays[i] {
			return false
		}
	}
	return true
}

func TestHabitOwnership(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, store, "u1", "ada@example.com")
	seedUser(t, store, "u2", "bob@example.com")
	h := seedHabit(t, store, "h1", "u1", models.Daily{})

	if _, err := store.FindHabit(ctx, "h1", "u2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected foreign habit to be hidden, got %v", err)
	}

	h.UserID = "u2"
	h.Name = "Hijacked"
	if err := store.UpdateHabit(ctx, h); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected update by another user to fail, got %v", err)
	}
	if err := store.DeleteHabit(ctx, "h1", "u2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected delete by another user to fail, got %v", err)
	}
}

func TestUpdateHabit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, store, "u1", "ada@example.com")
	h := seedHabit(t, store, "h1", "u1", models.WeeklyCount{Goal: 2})

	end := day(31)
	h.Name = "Renamed"
	h.Schedule = models.WeeklyOnDays{Days: []time.Weekday{time.Tuesday}}
	h.EndDate = &end
	h.UpdatedAt = created.Add(time.Hour)
	if err := store.UpdateHabit(ctx, h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	got, err := store.FindHabit(ctx, "h1", "u1")
	if err != nil {
		t.Fatalf("FindHabit failed: %v", err)
	}
	if got.Name != "Renamed" || got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("unexpected habit after update: %+v", got)
	}
	if sched, ok := got.Schedule.(models.WeeklyOnDays); !ok || !sched.HasWeekday(time.Tuesday) {
		t.Errorf("schedule = %#v, want WeeklyOnDays{Tuesday}", got.Schedule)
	}
}

func TestCompletions(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, store, "u1", "ada@example.com")
	seedHabit(t, store, "h1", "u1", models.Daily{})
	seedHabit(t, store, "h2", "u1", models.Daily{})

	for i, d := range []int{3, 5, 9} {
		c := models.Completion{ID: string(rune('a' + i)), HabitID: "h1", Day: day(d), CreatedAt: created}
		if err := store.CreateCompletion(ctx, c); err != nil {
			t.Fatalf("CreateCompletion failed: %v", err)
		}
	}
	if err := store.CreateCompletion(ctx, models.Completion{ID: "x", HabitID: "h2", Day: day(5), CreatedAt: created}); err != nil {
		t.Fatalf("CreateCompletion failed: %v", err)
	}

	dup := models.Completion{ID: "dup", HabitID: "h1", Day: day(5), CreatedAt: created}
	if err := store.CreateCompletion(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for second completion on the same day, got %v", err)
	}

	found, err := store.FindCompletion(ctx, "h1", day(5))
	if err != nil {
		t.Fatalf("FindCompletion failed: %v", err)
	}
	if found.ID != "b" || !found.Day.Equal(day(5)) {
		t.Errorf("unexpected completion: %+v", found)
	}

	ranged, err := store.ListCompletions(ctx, "h1", day(4), day(9))
	if err != nil {
		t.Fatalf("ListCompletions failed: %v", err)
	}
	if len(ranged) != 2 || !ranged[0].Day.Equal(day(5)) {
		t.Errorf("ListCompletions(4..9) = %+v", ranged)
	}

	all, err := store.ListUserCompletions(ctx, "u1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListUserCompletions failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("ListUserCompletions returned %d completions, want 4", len(all))
	}

	if err := store.DeleteCompletion(ctx, "b"); err != nil {
		t.Fatalf("DeleteCompletion failed: %v", err)
	}
	if _, err := store.FindCompletion(ctx, "h1", day(5)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteCompletion(ctx, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestDeleteHabitKeepsLedger(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, store, "u1", "ada@example.com")
	seedHabit(t, store, "h1", "u1", models.Daily{})

	if err := store.CreateCompletion(ctx, models.Completion{ID: "c1", HabitID: "h1", Day: day(5), CreatedAt: created}); err != nil {
		t.Fatalf("CreateCompletion failed: %v", err)
	}
	grant := models.XPGrant{ID: "g1", HabitID: "h1", UserID: "u1", Day: day(5), Amount: 10, CreatedAt: created}
	if err := store.CreateXPGrant(ctx, grant); err != nil {
		t.Fatalf("CreateXPGrant failed: %v", err)
	}

	if err := store.DeleteHabit(ctx, "h1", "u1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	if completions, _ := store.ListCompletions(ctx, "h1", time.Time{}, time.Time{}); len(completions) != 0 {
		t.Errorf("expected completions to be deleted with the habit, got %d", len(completions))
	}
	got, err := store.FindXPGrant(ctx, "h1", "u1", day(5))
	if err != nil {
		t.Fatalf("ledger row should survive habit deletion: %v", err)
	}
	if got.Amount != 10 {
		t.Errorf("grant amount = %d, want 10", got.Amount)
	}
}

func TestXPGrantUnique(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	grant := models.XPGrant{ID: "g1", HabitID: "h1", UserID: "u1", Day: day(5), Amount: 25, CreatedAt: created}
	if err := store.CreateXPGrant(ctx, grant); err != nil {
		t.Fatalf("CreateXPGrant failed: %v", err)
	}

	grant.ID = "g2"
	if err := store.CreateXPGrant(ctx, grant); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for the same habit, user and day, got %v", err)
	}

	grant.ID = "g3"
	grant.Day = day(6)
	if err := store.CreateXPGrant(ctx, grant); err != nil {
		t.Errorf("grant on another day should succeed: %v", err)
	}

	if _, err := store.FindXPGrant(ctx, "h1", "u1", day(7)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMoods(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	seedUser(t, store, "u1", "ada@example.com")
	seedUser(t, store, "u2", "bob@example.com")

	first := models.MoodEntry{ID: "m1", UserID: "u1", Day: day(5), Emoji: "😊", Notes: "good", CreatedAt: created, UpdatedAt: created}
	stored, isNew, err := store.UpsertMood(ctx, first)
	if err != nil || !isNew || stored.ID != "m1" {
		t.Fatalf("UpsertMood(new) = %+v, %v, %v", stored, isNew, err)
	}

	later := created.Add(2 * time.Hour)
	second := models.MoodEntry{ID: "m2", UserID: "u1", Day: day(5), Emoji: "😢", CreatedAt: later, UpdatedAt: later}
	stored, isNew, err = store.UpsertMood(ctx, second)
	if err != nil || isNew {
		t.Fatalf("UpsertMood(existing) = %+v, %v, %v", stored, isNew, err)
	}
	if stored.ID != "m1" || !stored.CreatedAt.Equal(created) {
		t.Errorf("upsert should keep the original id and creation time, got %+v", stored)
	}

	got, err := store.FindMoodByDay(ctx, "u1", day(5))
	if err != nil {
		t.Fatalf("FindMoodByDay failed: %v", err)
	}
	if got.Emoji != "😢" || got.Notes != "" {
		t.Errorf("latest write should win, got %+v", got)
	}

	if _, _, err := store.UpsertMood(ctx, models.MoodEntry{ID: "m3", UserID: "u1", Day: day(7), Emoji: "😐", CreatedAt: created, UpdatedAt: created}); err != nil {
		t.Fatalf("UpsertMood failed: %v", err)
	}
	list, err := store.ListMoods(ctx, "u1", day(1), day(31))
	if err != nil {
		t.Fatalf("ListMoods failed: %v", err)
	}
	if len(list) != 2 || !list[0].Day.Equal(day(7)) {
		t.Errorf("ListMoods should return newest first, got %+v", list)
	}

	if err := store.DeleteMood(ctx, "m1", "u2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected delete by another user to fail, got %v", err)
	}
	if err := store.DeleteMood(ctx, "m1", "u1"); err != nil {
		t.Errorf("DeleteMood failed: %v", err)
	}
}
