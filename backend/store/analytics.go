package store

import (
	"context"
	"fmt"
	"time"

	"skillpractice/backend/models"
)

const (
	activeWindow = 30 * 24 * time.Hour
	newWindow    = 7 * 24 * time.Hour
)

// Metrics counts accounts as of now: active ones logged in within 30 days,
// new ones registered within 7.
func (s *UserStore) Metrics(ctx context.Context, now time.Time) (models.UserMetrics, error) {
	var row models.UserMetrics
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_users,
			COUNT(CASE WHEN last_login > ? THEN 1 END) AS active_users,
			COUNT(CASE WHEN created_at > ? THEN 1 END) AS new_users,
			COUNT(CASE WHEN role = ? THEN 1 END) AS admins
		FROM users`,
		now.Add(-activeWindow), now.Add(-newWindow), models.RoleAdmin,
	).Scan(&row).Error
	if err != nil {
		return models.UserMetrics{}, fmt.Errorf("user metrics: %w", err)
	}
	return row, nil
}

// CourseActivity aggregates all users' rows per course, busiest first.
func (s *ProgressStore) CourseActivity(ctx context.Context) ([]models.CourseActivity, error) {
	var rows []struct {
		CourseID            string
		Learners            int
		CompletedChallenges int
		AverageScore        *float64
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			course_id,
			COUNT(DISTINCT user_id) AS learners,
			COUNT(CASE WHEN completed THEN 1 END) AS completed_challenges,
			AVG(CASE WHEN completed THEN score END) AS average_score
		FROM user_progress
		GROUP BY course_id
		ORDER BY learners DESC, course_id ASC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("course activity: %w", err)
	}

	out := make([]models.CourseActivity, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CourseActivity{
			CourseID:            r.CourseID,
			Learners:            r.Learners,
			CompletedChallenges: r.CompletedChallenges,
			AverageScore:        deref(r.AverageScore),
		})
	}
	return out, nil
}
