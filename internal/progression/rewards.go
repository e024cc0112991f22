package progression

import (
	"golang.org/x/text/unicode/norm"
)

// Reward is a cosmetic emoji unlocked at a level.
type Reward struct {
	Emoji    string `json:"emoji"`
	Level    int    `json:"level"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

// UnlockCount summarizes how many rewards a level has unlocked.
type UnlockCount struct {
	Unlocked   int `json:"unlocked"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// rewards is ordered by level. Level 1 holds the base set available from the start;
// every level from 2 to 50 unlocks exactly one more.
var rewards = []Reward{
	{"💪", 1, "Sport", "Muscle"},
	{"📚", 1, "Apprentissage", "Livres"},
	{"🎨", 1, "Créativité", "Palette"},
	{"🧘", 1, "Santé", "Méditation"},
	{"💼", 1, "Productivité", "Travail"},
	{"❤️", 1, "Social", "Cœur"},
	{"🌟", 1, "Motivation", "Étoile"},
	{"✅", 1, "Productivité", "Check"},

	{"🏃", 2, "Sport", "Course"},
	{"🚴", 3, "Sport", "Vélo"},
	{"🏋️", 4, "Sport", "Haltères"},
	{"🧗", 5, "Sport", "Escalade"},
	{"🏊", 6, "Sport", "Natation"},
	{"⚽", 7, "Sport", "Football"},
	{"🎯", 8, "Productivité", "Cible"},
	{"📝", 9, "Productivité", "Note"},
	{"💡", 10, "Créativité", "Idée"},

	{"🎭", 11, "Créativité", "Théâtre"},
	{"🎬", 12, "Créativité", "Cinéma"},
	{"🎵", 13, "Créativité", "Musique"},
	{"🎸", 14, "Créativité", "Guitare"},
	{"🎹", 15, "Créativité", "Piano"},
	{"📖", 16, "Apprentissage", "Livre ouvert"},
	{"🎓", 17, "Apprentissage", "Diplôme"},
	{"🧠", 18, "Apprentissage", "Cerveau"},
	{"🔬", 19, "Apprentissage", "Science"},
	{"💻", 20, "Productivité", "Ordinateur"},

	{"☕", 21, "Santé", "Café"},
	{"🥗", 22, "Santé", "Salade"},
	{"🍎", 23, "Santé", "Pomme"},
	{"💧", 24, "Santé", "Eau"},
	{"😴", 25, "Santé", "Sommeil"},
	{"🌅", 26, "Santé", "Lever soleil"},
	{"🌙", 27, "Santé", "Nuit"},
	{"🧘‍♀️", 28, "Santé", "Yoga femme"},
	{"💆", 29, "Santé", "Massage"},
	{"🛀", 30, "Santé", "Bain"},

	{"👥", 31, "Social", "Amis"},
	{"🤝", 32, "Social", "Poignée de main"},
	{"💬", 33, "Social", "Discussion"},
	{"📞", 34, "Social", "Téléphone"},
	{"🎉", 35, "Social", "Fête"},
	{"🎁", 36, "Social", "Cadeau"},
	{"🌻", 37, "Nature", "Tournesol"},
	{"🌳", 38, "Nature", "Arbre"},
	{"🌊", 39, "Nature", "Vague"},
	{"⛰️", 40, "Nature", "Montagne"},

	{"🏆", 41, "Motivation", "Trophée"},
	{"👑", 42, "Motivation", "Couronne"},
	{"💎", 43, "Motivation", "Diamant"},
	{"🔥", 44, "Motivation", "Feu"},
	{"⚡", 45, "Motivation", "Éclair"},
	{"🌈", 46, "Motivation", "Arc-en-ciel"},
	{"🚀", 47, "Motivation", "Fusée"},
	{"🎖️", 48, "Motivation", "Médaille"},
	{"⭐", 49, "Motivation", "Étoile brillante"},
	{"🌠", 50, "Motivation", "Étoile filante"},
}

// Rewards returns a copy of the full reward table.
func Rewards() []Reward {
	return append([]Reward(nil), rewards...)
}

// RewardForLevel returns the reward unlocked at level. For level 1 the first base
// reward is returned.
func RewardForLevel(level int) (Reward, bool) {
	for _, r := range rewards {
		if r.Level == level {
			return r, true
		}
	}
	return Reward{}, false
}

// AvailableRewards returns every reward unlocked at or below level.
func AvailableRewards(level int) []Reward {
	var out []Reward
	for _, r := range rewards {
		if r.Level <= level {
			out = append(out, r)
		}
	}
	return out
}

// BaseRewards returns the rewards available from level 1.
func BaseRewards() []Reward {
	return AvailableRewards(1)
}

// IsRewardUnlocked reports whether emoji is unlocked at level. Emoji are compared
// in NFC form; unknown emoji are never unlocked.
func IsRewardUnlocked(emoji string, level int) bool {
	emoji = norm.NFC.String(emoji)
	for _, r := range rewards {
		if norm.NFC.String(r.Emoji) == emoji {
			return r.Level <= level
		}
	}
	return false
}

// RewardsByCategory groups the unlocked rewards by category.
func RewardsByCategory(level int) map[string][]Reward {
	out := make(map[string][]Reward)
	for _, r := range AvailableRewards(level) {
		out[r.Category] = append(out[r.Category], r)
	}
	return out
}

// CountUnlocked returns how much of the table is unlocked at level.
func CountUnlocked(level int) UnlockCount {
	unlocked := len(AvailableRewards(level))
	return UnlockCount{
		Unlocked:   unlocked,
		Total:      len(rewards),
		Percentage: unlocked * 100 / len(rewards),
	}
}

// NextReward returns the reward unlocked at level+1, if any.
func NextReward(level int) (Reward, bool) {
	return RewardForLevel(level + 1)
}

// NextRewards returns up to n rewards unlocked in the next n levels.
func NextRewards(level, n int) []Reward {
	var out []Reward
	for _, r := range rewards {
		if r.Level > level && r.Level <= level+n {
			out = append(out, r)
		}
		if len(out) == n {
			break
		}
	}
	return out
}
