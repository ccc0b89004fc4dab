package services

import (
	"context"
	"math/rand/v2"

	"skillpractice/backend/catalog"
	"skillpractice/backend/models"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"
)

const (
	maxReviewCourses = 2
	fullCreditScore  = 100
)

// RandSource yields uniform ints in [0, n).
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type SessionResult struct {
	NewCourseIDs []string `json:"newCourseIds"`
	ReviewCount  int      `json:"reviewCount"`
	NewCount     int      `json:"newCount"`
}

type SessionReport struct {
	ExperienceReward    int `json:"experienceReward"`
	NewCoursesCompleted int `json:"newCoursesCompleted"`
	TotalExperience     int `json:"totalExperience"`
}

// PracticeService builds smart practice sessions: a review of up to two
// finished courses plus the next unfinished course in catalog order.
type PracticeService struct {
	catalog  *catalog.Catalog
	progress *store.ProgressStore
	users    *store.UserStore
	rand     RandSource
	log      *utils.Logger
}

// NewPracticeService uses the global math/rand source when rnd is nil.
func NewPracticeService(cat *catalog.Catalog, progress *store.ProgressStore, users *store.UserStore, rnd RandSource, baseLog *utils.Logger) *PracticeService {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &PracticeService{
		catalog:  cat,
		progress: progress,
		users:    users,
		rand:     rnd,
		log:      baseLog.With("service", "PracticeService"),
	}
}

// CompletedCourses returns, in catalog order, the courses whose every
// challenge the user has completed. Courses without challenges never count.
func (s *PracticeService) CompletedCourses(ctx context.Context, userID uint, courses []models.Course) ([]models.Course, error) {
	completed, err := s.progress.CompletedChallenges(ctx, userID)
	if err != nil {
		return nil, err
	}
	var done []models.Course
	for _, course := range courses {
		n := len(course.Challenges)
		if n > 0 && completedInCatalog(course, completed[course.ID]) == n {
			done = append(done, course)
		}
	}
	return done, nil
}

func (s *PracticeService) Generate(ctx context.Context, userID uint) (*models.PracticeSession, error) {
	// one snapshot for the whole session
	courses := s.catalog.Courses()

	done, err := s.CompletedCourses(ctx, userID, courses)
	if err != nil {
		return nil, err
	}

	session := &models.PracticeSession{
		ReviewChallenges: []models.PracticeChallenge{},
		NewChallenges:    []models.PracticeChallenge{},
		UserProgress: models.PracticeProgress{
			Completed: len(done),
			Total:     len(courses),
		},
	}

	if len(done) > 0 {
		picked := append([]models.Course(nil), done...)
		k := min(maxReviewCourses, len(picked))
		s.shuffleCourses(picked, k)
		for _, course := range picked[:k] {
			session.ReviewChallenges = append(session.ReviewChallenges, practiceChallenges(course)...)
		}
		s.shuffleChallenges(session.ReviewChallenges)
	}

	if next := len(done); next < len(courses) {
		session.NewChallenges = practiceChallenges(courses[next])
		s.shuffleChallenges(session.NewChallenges)
	}

	s.log.Debug("Practice session generated",
		"user_id", userID,
		"review", len(session.ReviewChallenges),
		"new", len(session.NewChallenges),
		"completed_courses", len(done),
	)
	return session, nil
}

// Complete records a finished session: every challenge of each named new
// course is marked completed with full credit, then the session reward is
// added. Unknown course ids are skipped.
func (s *PracticeService) Complete(ctx context.Context, userID uint, result SessionResult) (*SessionReport, error) {
	completed := 0
	seen := make(map[string]struct{}, len(result.NewCourseIDs))
	for _, id := range result.NewCourseIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		course, ok := s.catalog.Find(id)
		if !ok {
			s.log.Warn("Skipping unknown course in practice session", "user_id", userID, "course_id", id)
			continue
		}
		ids := make([]int, len(course.Challenges))
		for i, ch := range course.Challenges {
			ids[i] = ch.ID
		}
		if err := s.progress.UpsertMany(ctx, userID, course.ID, ids, true, fullCreditScore); err != nil {
			return nil, err
		}
		completed++
	}

	reward := SessionReward(result.ReviewCount, result.NewCount, completed)
	total, err := s.users.AddExperience(ctx, userID, reward)
	if err != nil {
		return nil, err
	}

	s.log.Info("Practice session completed",
		"user_id", userID,
		"new_courses", completed,
		"reward", reward,
		"total_experience", total,
	)
	return &SessionReport{
		ExperienceReward:    reward,
		NewCoursesCompleted: completed,
		TotalExperience:     total,
	}, nil
}

func practiceChallenges(course models.Course) []models.PracticeChallenge {
	out := make([]models.PracticeChallenge, 0, len(course.Challenges))
	for _, ch := range course.Challenges {
		out = append(out, models.PracticeChallenge{
			Challenge:   ch,
			CourseID:    course.ID,
			CourseTitle: course.Title,
			Component:   catalog.ResolveComponent(course.ID, ch.Type, ch.Title),
		})
	}
	return out
}

// shuffleCourses places a uniform sample of k courses at the front of cs
// (partial Fisher-Yates).
func (s *PracticeService) shuffleCourses(cs []models.Course, k int) {
	for i := 0; i < k; i++ {
		j := i + s.rand.IntN(len(cs)-i)
		cs[i], cs[j] = cs[j], cs[i]
	}
}

func (s *PracticeService) shuffleChallenges(cs []models.PracticeChallenge) {
	for i := len(cs) - 1; i > 0; i-- {
		j := s.rand.IntN(i + 1)
		cs[i], cs[j] = cs[j], cs[i]
	}
}
