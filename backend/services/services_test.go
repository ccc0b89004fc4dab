package services

import (
	"context"
	"math/rand/v2"
	"testing"

	"skillpractice/backend/catalog"
	"skillpractice/backend/models"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// lastRand always picks the highest index, which leaves a Fisher-Yates
// shuffle of challenges in its original order.
type lastRand struct{}

func (lastRand) IntN(n int) int { return n - 1 }

type env struct {
	catalog  *catalog.Catalog
	progress *store.ProgressStore
	users    *store.UserStore
	log      *utils.Logger
}

func newEnv(t *testing.T, courses ...models.Course) *env {
	t.Helper()
	db, err := utils.OpenSQLite(utils.SQLiteDSN(":memory:"), nil)
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	t.Cleanup(func() { _ = utils.CloseDB(db) })

	cat, err := catalog.New(courses)
	require.NoError(t, err)

	log := utils.NopLogger()
	return &env{
		catalog:  cat,
		progress: store.NewProgressStore(db, log),
		users:    store.NewUserStore(db, log),
		log:      log,
	}
}

func (e *env) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *env) complete(t *testing.T, userID uint, course models.Course, score int) {
	t.Helper()
	for _, ch := range course.Challenges {
		_, err := e.progress.Upsert(context.Background(), userID, course.ID, ch.ID, true, score)
		require.NoError(t, err)
	}
}

func course(id string, difficulty models.Difficulty, n int) models.Course {
	c := models.Course{ID: id, Title: "Course " + id, Difficulty: difficulty}
	for i := 1; i <= n; i++ {
		c.Challenges = append(c.Challenges, models.Challenge{ID: i, Title: "challenge", Type: "click"})
	}
	return c
}

func courseIDs(items []models.PracticeChallenge) map[string]int {
	out := map[string]int{}
	for _, it := range items {
		out[it.CourseID]++
	}
	return out
}

func TestCourseCompletionReward(t *testing.T) {
	assert.Equal(t, 75, CourseCompletionReward(models.DifficultyBeginner, 95))
	assert.Equal(t, 240, CourseCompletionReward(models.DifficultyAdvanced, 80))
	assert.Equal(t, 100, CourseCompletionReward(models.DifficultyIntermediate, 50))

	assert.Equal(t, 150, CourseCompletionReward(models.DifficultyIntermediate, 90))
	assert.Equal(t, 120, CourseCompletionReward(models.DifficultyIntermediate, 70))
	assert.Equal(t, 120, CourseCompletionReward(models.DifficultyIntermediate, 89.99))
	assert.Equal(t, 50, CourseCompletionReward(models.DifficultyBeginner, 69.9))
	assert.Equal(t, 60, CourseCompletionReward("expert", 75))
}

func TestSessionReward(t *testing.T) {
	assert.Equal(t, 20, SessionReward(0, 0, 0))
	assert.Equal(t, 5*4+10*3+30+20, SessionReward(4, 3, 1))
	assert.Equal(t, 20, SessionReward(-3, -1, -2))
}

func TestGenerateMixesReviewAndNextCourse(t *testing.T) {
	ctx := context.Background()
	x := course("courseX", models.DifficultyBeginner, 2)
	y := course("courseY", models.DifficultyBeginner, 3)
	e := newEnv(t, x, y)
	u := e.user(t, "alice")
	e.complete(t, u.ID, x, 80)

	svc := NewPracticeService(e.catalog, e.progress, e.users, lastRand{}, e.log)
	session, err := svc.Generate(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PracticeProgress{Completed: 1, Total: 2}, session.UserProgress)
	assert.Equal(t, map[string]int{"courseX": 2}, courseIDs(session.ReviewChallenges))

	require.Len(t, session.NewChallenges, 3)
	for i, ch := range session.NewChallenges {
		assert.Equal(t, i+1, ch.ID)
		assert.Equal(t, "courseY", ch.CourseID)
		assert.Equal(t, "Course courseY", ch.CourseTitle)
		assert.Equal(t, catalog.DefaultComponent, ch.Component)
	}

	// finishing courseY leaves nothing new
	e.complete(t, u.ID, y, 100)
	session, err = svc.Generate(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, session.NewChallenges)
	assert.Equal(t, map[string]int{"courseX": 2, "courseY": 3}, courseIDs(session.ReviewChallenges))
	assert.Equal(t, models.PracticeProgress{Completed: 2, Total: 2}, session.UserProgress)
}

func TestCompletedCoursesIgnoresUnknownChallenges(t *testing.T) {
	ctx := context.Background()
	x := course("courseX", models.DifficultyBeginner, 2)
	e := newEnv(t, x, course("courseY", models.DifficultyBeginner, 1))
	u := e.user(t, "carol")
	for _, id := range []int{1, 99} {
		_, err := e.progress.Upsert(ctx, u.ID, "courseX", id, true, 100)
		require.NoError(t, err)
	}

	svc := NewPracticeService(e.catalog, e.progress, e.users, lastRand{}, e.log)
	done, err := svc.CompletedCourses(ctx, u.ID, e.catalog.Courses())
	require.NoError(t, err)
	assert.Empty(t, done)

	session, err := svc.Generate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"courseX": 2}, courseIDs(session.NewChallenges))
}

func TestGenerateForNewUser(t *testing.T) {
	e := newEnv(t, course("a", models.DifficultyBeginner, 2), course("b", models.DifficultyBeginner, 1))
	u := e.user(t, "bob")

	svc := NewPracticeService(e.catalog, e.progress, e.users, lastRand{}, e.log)
	session, err := svc.Generate(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Empty(t, session.ReviewChallenges)
	assert.Equal(t, map[string]int{"a": 2}, courseIDs(session.NewChallenges))
	assert.Equal(t, models.PracticeProgress{Completed: 0, Total: 2}, session.UserProgress)
}

func TestGenerateWithEmptyCatalog(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "carol")

	svc := NewPracticeService(e.catalog, e.progress, e.users, nil, e.log)
	session, err := svc.Generate(context.Background(), u.ID)
	require.NoError(t, err)

	assert.NotNil(t, session.ReviewChallenges)
	assert.NotNil(t, session.NewChallenges)
	assert.Empty(t, session.ReviewChallenges)
	assert.Empty(t, session.NewChallenges)
	assert.Equal(t, models.PracticeProgress{Completed: 0, Total: 0}, session.UserProgress)
}

func TestGenerateReviewsAtMostTwoCourses(t *testing.T) {
	ctx := context.Background()
	courses := []models.Course{
		course("a", models.DifficultyBeginner, 1),
		course("b", models.DifficultyBeginner, 2),
		course("c", models.DifficultyBeginner, 3),
		course("d", models.DifficultyBeginner, 4),
		course("empty", models.DifficultyBeginner, 0),
	}
	e := newEnv(t, courses...)
	u := e.user(t, "dave")
	for _, c := range courses[:3] {
		e.complete(t, u.ID, c, 100)
	}
	// partial progress on d does not make it reviewable
	_, err := e.progress.Upsert(ctx, u.ID, "d", 1, true, 100)
	require.NoError(t, err)

	svc := NewPracticeService(e.catalog, e.progress, e.users, rand.New(rand.NewPCG(7, 11)), e.log)
	for i := 0; i < 20; i++ {
		session, err := svc.Generate(ctx, u.ID)
		require.NoError(t, err)

		review := courseIDs(session.ReviewChallenges)
		assert.Len(t, review, 2)
		for id, n := range review {
			c, ok := e.catalog.Find(id)
			require.True(t, ok)
			assert.Equal(t, len(c.Challenges), n, "course %s is reviewed whole", id)
			assert.NotEqual(t, "d", id)
		}
		assert.Equal(t, map[string]int{"d": 4}, courseIDs(session.NewChallenges))
		assert.Equal(t, 3, session.UserProgress.Completed)
	}
}

func TestCompleteSession(t *testing.T) {
	ctx := context.Background()
	x := course("courseX", models.DifficultyBeginner, 2)
	y := course("courseY", models.DifficultyBeginner, 3)
	e := newEnv(t, x, y)
	u := e.user(t, "erin")

	svc := NewPracticeService(e.catalog, e.progress, e.users, lastRand{}, e.log)
	report, err := svc.Complete(ctx, u.ID, SessionResult{
		NewCourseIDs: []string{"courseY", "nope", "courseY"},
		ReviewCount:  2,
		NewCount:     3,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.NewCoursesCompleted)
	assert.Equal(t, 5*2+10*3+30+20, report.ExperienceReward)
	assert.Equal(t, report.ExperienceReward, report.TotalExperience)

	rows, err := e.progress.ListCourse(ctx, u.ID, "courseY")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.True(t, row.Completed)
		assert.Equal(t, 100, row.Score)
		assert.NotNil(t, row.CompletedAt)
	}

	report, err = svc.Complete(ctx, u.ID, SessionResult{})
	require.NoError(t, err)
	assert.Equal(t, 20, report.ExperienceReward)
	assert.Equal(t, 0, report.NewCoursesCompleted)
	assert.Equal(t, 90+20, report.TotalExperience)
}

func TestCompleteCourse(t *testing.T) {
	ctx := context.Background()
	c := course("click", models.DifficultyBeginner, 2)
	e := newEnv(t, c, course("empty", models.DifficultyAdvanced, 0))
	u := e.user(t, "frank")
	svc := NewProgressService(e.catalog, e.progress, e.users, e.log)

	_, err := svc.CompleteCourse(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.Upsert(ctx, u.ID, "click", 1, true, 95)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, u.ID, "click", 2, false, 40)
	require.NoError(t, err)

	_, err = svc.CompleteCourse(ctx, u.ID, "click")
	assert.ErrorIs(t, err, ErrChallengesIncomplete)
	got, err := e.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Experience)

	_, err = svc.CompleteCourse(ctx, u.ID, "empty")
	assert.ErrorIs(t, err, ErrChallengesIncomplete)

	// ids outside the catalog do not make up for challenge 2
	for _, id := range []int{98, 99} {
		_, err = svc.Upsert(ctx, u.ID, "click", id, true, 100)
		require.NoError(t, err)
	}
	_, err = svc.CompleteCourse(ctx, u.ID, "click")
	assert.ErrorIs(t, err, ErrChallengesIncomplete)
	for _, id := range []int{98, 99} {
		_, err = e.progress.Delete(ctx, u.ID, "click", &id)
		require.NoError(t, err)
	}

	_, err = svc.Upsert(ctx, u.ID, "click", 2, true, 85)
	require.NoError(t, err)

	res, err := svc.CompleteCourse(ctx, u.ID, "click")
	require.NoError(t, err)
	assert.Equal(t, 75, res.ExperienceReward)
	assert.Equal(t, 75, res.TotalExperience)
	assert.Equal(t, 2, res.CourseStats.CompletedChallenges)
	assert.InDelta(t, 90.0, res.CourseStats.AverageScore, 0.001)
	assert.Equal(t, 100.0, res.CourseStats.CompletionRate)
}

func TestProgressMaps(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.user(t, "gina")
	svc := NewProgressService(e.catalog, e.progress, e.users, e.log)

	empty, err := svc.Progress(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.Upsert(ctx, u.ID, "a", 1, true, 90)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, u.ID, "a", 2, false, 10)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, u.ID, "b", 1, true, 70)
	require.NoError(t, err)

	all, err := svc.Progress(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all["a"][1].Completed)
	assert.Equal(t, 10, all["a"][2].Score)
	assert.Nil(t, all["a"][2].CompletedAt)
	assert.Equal(t, 70, all["b"][1].Score)

	courseMap, err := svc.CourseProgress(ctx, u.ID, "a")
	require.NoError(t, err)
	assert.Len(t, courseMap, 2)

	deleted, err := svc.DeleteCourse(ctx, u.ID, "a")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = svc.DeleteCourse(ctx, u.ID, "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.GetChallenge(ctx, u.ID, "a", 1)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
}

func TestLeaderboardLimit(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	for _, name := range []string{"u1", "u2", "u3"} {
		e.user(t, name)
	}
	svc := NewProgressService(e.catalog, e.progress, e.users, e.log)

	board, err := svc.Leaderboard(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, board, 3)

	board, err = svc.Leaderboard(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, 1, board[0].Rank)

	board, err = svc.Leaderboard(ctx, "", 5000)
	require.NoError(t, err)
	assert.Len(t, board, 3)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewAccountService(e.users, e.log).WithHashCost(bcrypt.MinCost)

	_, err := svc.Register(ctx, Registration{Username: "hana", Email: "hana@example.com", Password: "secret1", ConfirmPassword: "secret2"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	user, err := svc.Register(ctx, Registration{Username: "hana", Email: "hana@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = svc.Register(ctx, Registration{Username: "hana", Email: "other@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	assert.ErrorIs(t, err, store.ErrUserConflict)

	ok, err := svc.UsernameAvailable(ctx, "hana")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = svc.EmailAvailable(ctx, "free@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	logged, err := svc.Login(ctx, "hana", "secret1")
	require.NoError(t, err)
	assert.NotNil(t, logged.LastLogin)

	_, err = svc.Login(ctx, "hana@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "hana", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	inactive := false
	_, err = svc.Update(ctx, user.ID, AccountChanges{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "hana", "secret1")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAdminAccountManagement(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewAccountService(e.users, e.log).WithHashCost(bcrypt.MinCost)

	admin, created, err := svc.EnsureAdmin(ctx, NewAccount{Username: "root", Email: "root@example.com", Password: "rootpw"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin())

	plain, err := svc.Create(ctx, NewAccount{Username: "ivan", Email: "ivan@example.com", Password: "ivanpw"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, NewAccount{Username: "jo", Email: "jo@example.com", Password: "jopw12", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, other.IsAdmin())

	promoted, created, err := svc.EnsureAdmin(ctx, NewAccount{Username: "ivan", Password: "newpass"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, plain.ID, promoted.ID)
	assert.True(t, promoted.IsAdmin())
	_, err = svc.Login(ctx, "ivan", "newpass")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, admin.ID, admin.ID), ErrCannotDeleteSelf)
	require.NoError(t, svc.Delete(ctx, admin.ID, other.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID, other.ID), store.ErrUserNotFound)

	_, err = svc.DeleteMany(ctx, admin.ID, nil)
	assert.ErrorIs(t, err, ErrNoUserIDs)
	_, err = svc.DeleteMany(ctx, admin.ID, []uint{plain.ID, admin.ID})
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)

	res, err := svc.DeleteMany(ctx, admin.ID, []uint{plain.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "root", users[0].Username)
}

func TestOverviewAndSearch(t *testing.T) {
	ctx := context.Background()
	a := course("a", models.DifficultyBeginner, 2)
	a.Title = "Mouse clicks"
	b := course("b", models.DifficultyAdvanced, 3)
	b.Title = "URL basics"
	e := newEnv(t, a, b)
	u := e.user(t, "kate")
	e.complete(t, u.ID, a, 90)
	_, err := e.progress.Upsert(ctx, u.ID, "b", 1, true, 60)
	require.NoError(t, err)

	svc := NewProgressService(e.catalog, e.progress, e.users, e.log)

	found, err := svc.SearchCourses(ctx, u.ID, CourseFilter{Search: "url"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].ID)
	assert.Equal(t, 1, found[0].CompletedChallenges)
	assert.Equal(t, 33.3, found[0].CompletionRate)

	found, err = svc.SearchCourses(ctx, u.ID, CourseFilter{Difficulty: models.DifficultyIntermediate})
	require.NoError(t, err)
	assert.Empty(t, found)

	overview, err := svc.Overview(ctx, u)
	require.NoError(t, err)
	require.Len(t, overview.Courses, 2)
	assert.True(t, overview.Courses[0].Completed)
	require.NotNil(t, overview.NextCourse)
	assert.Equal(t, "b", overview.NextCourse.ID)
	assert.Equal(t, 3, overview.Stats.CompletedChallenges)
}

func TestPlatformAnalytics(t *testing.T) {
	ctx := context.Background()
	a := course("a", models.DifficultyBeginner, 2)
	e := newEnv(t, a, course("b", models.DifficultyBeginner, 1))
	u1 := e.user(t, "l1")
	u2 := e.user(t, "l2")
	e.complete(t, u1.ID, a, 80)
	e.complete(t, u2.ID, a, 100)
	_, err := e.progress.Upsert(ctx, u1.ID, "retired", 1, true, 50)
	require.NoError(t, err)
	require.NoError(t, e.users.TouchLastLogin(ctx, u1.ID))

	report, err := NewAnalyticsService(e.catalog, e.progress, e.users).Platform(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Metrics.TotalUsers)
	assert.Equal(t, int64(1), report.Metrics.ActiveUsers)
	assert.Equal(t, int64(0), report.Metrics.Admins)
	assert.Equal(t, 2, report.Catalog)

	require.Len(t, report.Courses, 3)
	assert.Equal(t, models.CourseActivity{CourseID: "a", Title: "Course a", Learners: 2, CompletedChallenges: 4, AverageScore: 90}, report.Courses[0])
	assert.Equal(t, "retired", report.Courses[1].CourseID)
	assert.Empty(t, report.Courses[1].Title)
	assert.Equal(t, models.CourseActivity{CourseID: "b", Title: "Course b"}, report.Courses[2])
}
