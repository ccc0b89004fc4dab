package models

import "strings"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// difficultyAliases maps the tier labels of older catalogs.
var difficultyAliases = map[string]Difficulty{
	"初级": DifficultyBeginner,
	"中级": DifficultyIntermediate,
	"高级": DifficultyAdvanced,
}

func ParseDifficulty(s string) Difficulty {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := difficultyAliases[s]; ok {
		return d
	}
	return Difficulty(s)
}

// Course is catalog configuration; it is never stored per user.
type Course struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Icon        string      `json:"icon" yaml:"icon"`
	Difficulty  Difficulty  `json:"difficulty" yaml:"difficulty"`
	Challenges  []Challenge `json:"challenges" yaml:"challenges"`
}

// Challenge ids are unique within their course only.
type Challenge struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
}

// PracticeChallenge is a challenge placed in a generated practice session.
type PracticeChallenge struct {
	Challenge
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
	Component   string `json:"component"`
}

type PracticeProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type PracticeSession struct {
	ReviewChallenges []PracticeChallenge `json:"reviewChallenges"`
	NewChallenges    []PracticeChallenge `json:"newChallenges"`
	UserProgress     PracticeProgress    `json:"userProgress"`
}
