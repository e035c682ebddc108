package quiz

// Achievement is a streak-threshold tier. Tiers unlock in streak-bearing
// modes and are never revoked.
type Achievement struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// Achievements lists every tier in ascending threshold order.
var Achievements = []Achievement{
	{ID: "novice", Name: "Novice Listener", Threshold: 10},
	{ID: "apprentice", Name: "Apprentice Listener", Threshold: 20},
	{ID: "adept", Name: "Adept Listener", Threshold: 50},
	{ID: "expert", Name: "Expert Listener", Threshold: 100},
	{ID: "veteran", Name: "Veteran Listener", Threshold: 150},
	{ID: "master", Name: "Master Listener", Threshold: 250},
	{ID: "grandmaster", Name: "Grandmaster Listener", Threshold: 500},
	{ID: "legend", Name: "Living Legend", Threshold: 1000},
}

// EvaluateAchievements returns the tiers newly reached by streak, given
// the already-unlocked set. It does not mutate unlocked.
func EvaluateAchievements(streak int, unlocked map[string]bool) []Achievement {
	var fresh []Achievement
	for _, a := range Achievements {
		if a.Threshold > streak {
			break
		}
		if !unlocked[a.ID] {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

// AchievementByID looks up a tier by its identifier.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
