package game

const (
	baseStatValue      = 10
	startingStatPoints = 5
	levelUpStatPoints  = 2

	// Luck gives a chance for bonus XP on every grant: each point of luck is
	// a 0.25% chance, and the bonus is a tenth of the granted amount.
	luckBonusChancePerPoint = 0.0025
	luckBonusShare          = 0.1
)

// levelThreshold returns the XP needed to advance from the given level.
func levelThreshold(level int) int {
	return level * 100
}

// applyExperience adds amount XP to p, rolling the luck bonus with the
// provided random source, and resolves level-ups. A single large grant can
// cross several thresholds, so level-ups loop rather than branch. Returns
// the bonus XP granted and the number of levels gained.
func applyExperience(p *Player, amount int, roll func() float64) (bonus, levels int) {
	if amount <= 0 {
		return 0, 0
	}

	if roll() < float64(p.Stats.Luck)*luckBonusChancePerPoint {
		bonus = int(float64(amount) * luckBonusShare)
	}
	p.XP += amount + bonus

	for p.XP >= levelThreshold(p.Level) {
		p.XP -= levelThreshold(p.Level)
		p.Level++
		p.StatPoints += levelUpStatPoints
		levels++
	}

	return bonus, levels
}
