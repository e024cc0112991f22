package progression

import (
	"testing"

	"github.com/BradSavary/Habit-Tracker/internal/constants"
)

func TestRewardForEveryLevel(t *testing.T) {
	for level := 1; level <= constants.MaxLevel; level++ {
		r, ok := RewardForLevel(level)
		if !ok {
			t.Fatalf("no reward for level %d", level)
		}
		if r.Level != level {
			t.Errorf("RewardForLevel(%d) returned level %d", level, r.Level)
		}
	}

	if _, ok := RewardForLevel(constants.MaxLevel + 1); ok {
		t.Error("expected no reward past the max level")
	}
}

func TestRewardForLevelTwo(t *testing.T) {
	r, ok := RewardForLevel(2)
	if !ok || r.Emoji != "🏃" || r.Name != "Course" {
		t.Errorf("RewardForLevel(2) = %+v, %v", r, ok)
	}
}

func TestBaseRewards(t *testing.T) {
	base := BaseRewards()
	if len(base) != 8 {
		t.Fatalf("expected 8 base rewards, got %d", len(base))
	}
	first, _ := RewardForLevel(1)
	if first != base[0] {
		t.Errorf("RewardForLevel(1) = %+v, want first base reward %+v", first, base[0])
	}
}

func TestIsRewardUnlocked(t *testing.T) {
	if !IsRewardUnlocked("💪", 1) {
		t.Error("base reward should be unlocked at level 1")
	}
	if IsRewardUnlocked("🌠", 49) {
		t.Error("level 50 reward should be locked at level 49")
	}
	if !IsRewardUnlocked("🌠", 50) {
		t.Error("level 50 reward should be unlocked at level 50")
	}
	if IsRewardUnlocked("🦄", 50) {
		t.Error("unknown emoji should never be unlocked")
	}
}

func TestCountAndNextRewards(t *testing.T) {
	total := len(Rewards())
	count := CountUnlocked(constants.MaxLevel)
	if count.Unlocked != total || count.Percentage != 100 {
		t.Errorf("CountUnlocked(max) = %+v", count)
	}

	count = CountUnlocked(1)
	if count.Unlocked != 8 || count.Total != total {
		t.Errorf("CountUnlocked(1) = %+v", count)
	}

	next := NextRewards(3, 5)
	if len(next) != 5 || next[0].Level != 4 || next[4].Level != 8 {
		t.Errorf("NextRewards(3, 5) = %+v", next)
	}
	if got := NextRewards(constants.MaxLevel, 5); len(got) != 0 {
		t.Errorf("expected no rewards after max level, got %d", len(got))
	}

	r, ok := NextReward(9)
	if !ok || r.Level != 10 {
		t.Errorf("NextReward(9) = %+v, %v", r, ok)
	}
}

func TestRewardsByCategory(t *testing.T) {
	byCat := RewardsByCategory(7)
	if len(byCat["Sport"]) != 7 {
		t.Errorf("expected 7 sport rewards at level 7, got %d", len(byCat["Sport"]))
	}
	if _, ok := byCat["Nature"]; ok {
		t.Error("nature rewards should still be locked at level 7")
	}
}
