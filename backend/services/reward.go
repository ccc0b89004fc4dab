package services

import "skillpractice/backend/models"

const (
	reviewChallengeXP = 5
	newChallengeXP    = 10
	courseCompleteXP  = 30
	// sessionBonusXP is granted for finishing any session, even an empty one.
	sessionBonusXP = 20
)

var difficultyBaseXP = map[models.Difficulty]int{
	models.DifficultyBeginner:     50,
	models.DifficultyIntermediate: 100,
	models.DifficultyAdvanced:     200,
}

// CourseCompletionReward is the experience granted for completing a whole
// course: the difficulty base, multiplied by 1.5 for an average score of 90
// or more and by 1.2 from 70, floored.
func CourseCompletionReward(difficulty models.Difficulty, averageScore float64) int {
	base, ok := difficultyBaseXP[difficulty]
	if !ok {
		base = difficultyBaseXP[models.DifficultyBeginner]
	}

	switch {
	case averageScore >= 90:
		return base * 3 / 2
	case averageScore >= 70:
		return base * 6 / 5
	default:
		return base
	}
}

// SessionReward is the experience granted for a finished practice session.
func SessionReward(reviewCount, newCount, coursesCompleted int) int {
	return max(reviewCount, 0)*reviewChallengeXP +
		max(newCount, 0)*newChallengeXP +
		max(coursesCompleted, 0)*courseCompleteXP +
		sessionBonusXP
}
