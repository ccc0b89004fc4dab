package store

import (
	"context"
	"fmt"
	"strings"

	"skillpractice/backend/models"
)

type aggregateRow struct {
	TotalCourses        int
	TotalChallenges     int
	CompletedChallenges int
	AverageScore        *float64
	BestScore           *int
}

const aggregateColumns = `
	COUNT(*) AS total_challenges,
	COUNT(CASE WHEN completed THEN 1 END) AS completed_challenges,
	AVG(CASE WHEN completed THEN score END) AS average_score,
	MAX(score) AS best_score`

// CourseStats aggregates the user's stored rows for one course. Totals count
// rows, not catalog challenges.
func (s *ProgressStore) CourseStats(ctx context.Context, userID uint, courseID string) (models.CourseStats, error) {
	var row aggregateRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT `+aggregateColumns+` FROM user_progress WHERE user_id = ? AND course_id = ?`,
		userID, courseID,
	).Scan(&row).Error
	if err != nil {
		return models.CourseStats{}, fmt.Errorf("course stats: %w", err)
	}

	return models.CourseStats{
		TotalChallenges:     row.TotalChallenges,
		CompletedChallenges: row.CompletedChallenges,
		AverageScore:        deref(row.AverageScore),
		BestScore:           derefInt(row.BestScore),
		CompletionRate:      models.CompletionRate(row.CompletedChallenges, row.TotalChallenges),
	}, nil
}

func (s *ProgressStore) UserStats(ctx context.Context, userID uint) (models.UserStats, error) {
	var row aggregateRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(DISTINCT course_id) AS total_courses,`+aggregateColumns+` FROM user_progress WHERE user_id = ?`,
		userID,
	).Scan(&row).Error
	if err != nil {
		return models.UserStats{}, fmt.Errorf("user stats: %w", err)
	}

	return models.UserStats{
		TotalCourses:        row.TotalCourses,
		TotalChallenges:     row.TotalChallenges,
		CompletedChallenges: row.CompletedChallenges,
		AverageScore:        deref(row.AverageScore),
		BestScore:           derefInt(row.BestScore),
		CompletionRate:      models.CompletionRate(row.CompletedChallenges, row.TotalChallenges),
	}, nil
}

// Leaderboard ranks every account, including those without progress, by
// experience, then completed challenges, then average score. A non-empty
// courseID restricts the progress columns to that course.
func (s *ProgressStore) Leaderboard(ctx context.Context, courseID string, limit int) ([]models.LeaderboardEntry, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`
		SELECT
			u.id AS user_id,
			u.username AS username,
			u.experience AS experience,
			COUNT(CASE WHEN p.completed THEN 1 END) AS completed_challenges,
			AVG(CASE WHEN p.completed THEN p.score END) AS average_score,
			MAX(p.score) AS best_score
		FROM users u
		LEFT JOIN user_progress p ON p.user_id = u.id`)
	if courseID != "" {
		sb.WriteString(` AND p.course_id = ?`)
		args = append(args, courseID)
	}
	sb.WriteString(`
		GROUP BY u.id, u.username, u.experience
		ORDER BY
			u.experience DESC,
			COUNT(CASE WHEN p.completed THEN 1 END) DESC,
			COALESCE(AVG(CASE WHEN p.completed THEN p.score END), 0) DESC,
			u.id ASC
		LIMIT ?`)
	args = append(args, limit)

	var rows []struct {
		UserID              uint
		Username            string
		Experience          int
		CompletedChallenges int
		AverageScore        *float64
		BestScore           *int
	}
	if err := s.db.WithContext(ctx).Raw(sb.String(), args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	board := make([]models.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		board = append(board, models.LeaderboardEntry{
			Rank:                i + 1,
			UserID:              r.UserID,
			Username:            r.Username,
			Experience:          r.Experience,
			CompletedChallenges: r.CompletedChallenges,
			AverageScore:        deref(r.AverageScore),
			BestScore:           derefInt(r.BestScore),
		})
	}
	return board, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
