package models

import (
	"math"
	"time"
)

// Progress is the completion state of one challenge for one user. The
// (user, course, challenge) triple is unique and is the upsert target.
type Progress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_triple,priority:1;index:idx_progress_user_course,priority:1" json:"userId"`
	CourseID    string     `gorm:"not null;size:128;uniqueIndex:idx_progress_triple,priority:2;index:idx_progress_user_course,priority:2;index" json:"courseId"`
	ChallengeID int        `gorm:"not null;uniqueIndex:idx_progress_triple,priority:3" json:"challengeId"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Score       int        `gorm:"not null;default:0" json:"score"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "user_progress"
}

// ChallengeState is the client-facing view of a progress row.
type ChallengeState struct {
	Completed   bool       `json:"completed"`
	Score       int        `json:"score"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (p Progress) State() ChallengeState {
	return ChallengeState{
		Completed:   p.Completed,
		Score:       p.Score,
		CompletedAt: p.CompletedAt,
	}
}

type CourseStats struct {
	TotalChallenges     int     `json:"totalChallenges"`
	CompletedChallenges int     `json:"completedChallenges"`
	AverageScore        float64 `json:"averageScore"`
	BestScore           int     `json:"bestScore"`
	CompletionRate      float64 `json:"completionRate"`
}

type UserStats struct {
	TotalCourses        int     `json:"totalCourses"`
	TotalChallenges     int     `json:"totalChallenges"`
	CompletedChallenges int     `json:"completedChallenges"`
	AverageScore        float64 `json:"averageScore"`
	BestScore           int     `json:"bestScore"`
	CompletionRate      float64 `json:"completionRate"`
}

type LeaderboardEntry struct {
	Rank                int     `json:"rank"`
	UserID              uint    `json:"userId"`
	Username            string  `json:"username"`
	Experience          int     `json:"experience"`
	CompletedChallenges int     `json:"completedChallenges"`
	AverageScore        float64 `json:"averageScore"`
	BestScore           int     `json:"bestScore"`
}

// CompletionRate is completed/total as a percentage rounded to one decimal,
// and 0 when nothing has been attempted.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// CourseSummary is a catalog course annotated with one user's completion.
// Unlike CourseStats, totals come from the catalog.
type CourseSummary struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Icon                string     `json:"icon"`
	Difficulty          Difficulty `json:"difficulty"`
	TotalChallenges     int        `json:"totalChallenges"`
	CompletedChallenges int        `json:"completedChallenges"`
	CompletionRate      float64    `json:"completionRate"`
	Completed           bool       `json:"completed"`
}

type UserMetrics struct {
	TotalUsers  int64 `json:"totalUsers"`
	ActiveUsers int64 `json:"activeUsers"`
	NewUsers    int64 `json:"newUsers"`
	Admins      int64 `json:"admins"`
}

type CourseActivity struct {
	CourseID            string  `json:"courseId"`
	Title               string  `json:"title,omitempty"`
	Learners            int     `json:"learners"`
	CompletedChallenges int     `json:"completedChallenges"`
	AverageScore        float64 `json:"averageScore"`
}
