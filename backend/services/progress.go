package services

import (
	"context"

	"skillpractice/backend/catalog"
	"skillpractice/backend/models"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// CourseMap is a user's progress keyed by course id, then challenge id.
type CourseMap map[string]map[int]models.ChallengeState

type CourseCompletion struct {
	ExperienceReward int                `json:"experienceReward"`
	TotalExperience  int                `json:"totalExperience"`
	CourseStats      models.CourseStats `json:"courseStats"`
}

// ProgressService exposes per-challenge progress, statistics and the
// course completion reward.
type ProgressService struct {
	catalog  *catalog.Catalog
	progress *store.ProgressStore
	users    *store.UserStore
	log      *utils.Logger
}

func NewProgressService(cat *catalog.Catalog, progress *store.ProgressStore, users *store.UserStore, baseLog *utils.Logger) *ProgressService {
	return &ProgressService{
		catalog:  cat,
		progress: progress,
		users:    users,
		log:      baseLog.With("service", "ProgressService"),
	}
}

func (s *ProgressService) Progress(ctx context.Context, userID uint) (CourseMap, error) {
	rows, err := s.progress.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := CourseMap{}
	for _, row := range rows {
		course, ok := out[row.CourseID]
		if !ok {
			course = map[int]models.ChallengeState{}
			out[row.CourseID] = course
		}
		course[row.ChallengeID] = row.State()
	}
	return out, nil
}

func (s *ProgressService) CourseProgress(ctx context.Context, userID uint, courseID string) (map[int]models.ChallengeState, error) {
	rows, err := s.progress.ListCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	out := make(map[int]models.ChallengeState, len(rows))
	for _, row := range rows {
		out[row.ChallengeID] = row.State()
	}
	return out, nil
}

func (s *ProgressService) GetChallenge(ctx context.Context, userID uint, courseID string, challengeID int) (*models.Progress, error) {
	return s.progress.Get(ctx, userID, courseID, challengeID)
}

func (s *ProgressService) Upsert(ctx context.Context, userID uint, courseID string, challengeID int, completed bool, score int) (*models.Progress, error) {
	return s.progress.Upsert(ctx, userID, courseID, challengeID, completed, score)
}

// DeleteCourse removes the user's rows for one course and reports whether
// any existed.
func (s *ProgressService) DeleteCourse(ctx context.Context, userID uint, courseID string) (bool, error) {
	if courseID == "" {
		return false, nil
	}
	return s.progress.Delete(ctx, userID, courseID, nil)
}

func (s *ProgressService) CourseStats(ctx context.Context, userID uint, courseID string) (models.CourseStats, error) {
	return s.progress.CourseStats(ctx, userID, courseID)
}

func (s *ProgressService) UserStats(ctx context.Context, userID uint) (models.UserStats, error) {
	return s.progress.UserStats(ctx, userID)
}

// Leaderboard ranks users globally, or within one course when courseID is
// set. limit <= 0 means the default.
func (s *ProgressService) Leaderboard(ctx context.Context, courseID string, limit int) ([]models.LeaderboardEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}
	return s.progress.Leaderboard(ctx, courseID, limit)
}

// CompleteCourse grants the completion reward once every catalog challenge
// of the course is completed. Rows for challenge ids the catalog does not
// list never count. Nothing is written when the gate fails.
func (s *ProgressService) CompleteCourse(ctx context.Context, userID uint, courseID string) (*CourseCompletion, error) {
	course, ok := s.catalog.Find(courseID)
	if !ok {
		return nil, ErrCourseNotFound
	}

	done, err := s.progress.CompletedChallenges(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(course.Challenges) == 0 || completedInCatalog(course, done[course.ID]) < len(course.Challenges) {
		return nil, ErrChallengesIncomplete
	}

	stats, err := s.progress.CourseStats(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	reward := CourseCompletionReward(course.Difficulty, stats.AverageScore)
	total, err := s.users.AddExperience(ctx, userID, reward)
	if err != nil {
		return nil, err
	}

	s.log.Info("Course completed",
		"user_id", userID,
		"course_id", courseID,
		"average_score", stats.AverageScore,
		"reward", reward,
		"total_experience", total,
	)
	return &CourseCompletion{
		ExperienceReward: reward,
		TotalExperience:  total,
		CourseStats:      stats,
	}, nil
}

// completedInCatalog counts the completed ids that belong to the course's
// catalog challenges.
func completedInCatalog(course models.Course, completed []int) int {
	ids := make(map[int]struct{}, len(course.Challenges))
	for _, ch := range course.Challenges {
		ids[ch.ID] = struct{}{}
	}
	n := 0
	for _, id := range completed {
		if _, ok := ids[id]; ok {
			n++
		}
	}
	return n
}
