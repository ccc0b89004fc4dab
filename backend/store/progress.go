package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillpractice/backend/models"
	"skillpractice/backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressStore persists per-challenge progress rows.
type ProgressStore struct {
	db  *gorm.DB
	log *utils.Logger
	now func() time.Time
}

func NewProgressStore(db *gorm.DB, baseLog *utils.Logger) *ProgressStore {
	return &ProgressStore{
		db:  db,
		log: baseLog.With("store", "ProgressStore"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProgressStore) Get(ctx context.Context, userID uint, courseID string, challengeID int) (*models.Progress, error) {
	return s.get(s.db.WithContext(ctx), userID, courseID, challengeID)
}

func (s *ProgressStore) get(tx *gorm.DB, userID uint, courseID string, challengeID int) (*models.Progress, error) {
	var row models.Progress
	err := tx.Where("user_id = ? AND course_id = ? AND challenge_id = ?", userID, courseID, challengeID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &row, nil
}

// List returns every row of the user ordered by course, then challenge.
func (s *ProgressStore) List(ctx context.Context, userID uint) ([]models.Progress, error) {
	rows := []models.Progress{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("course_id ASC, challenge_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return rows, nil
}

func (s *ProgressStore) ListCourse(ctx context.Context, userID uint, courseID string) ([]models.Progress, error) {
	rows := []models.Progress{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("challenge_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list course progress: %w", err)
	}
	return rows, nil
}

// Upsert writes the row for (user, course, challenge) with one
// INSERT ... ON CONFLICT statement and returns the stored state. A completed
// write stamps completed_at; an uncompleted one keeps whatever timestamp is
// already stored.
func (s *ProgressStore) Upsert(ctx context.Context, userID uint, courseID string, challengeID int, completed bool, score int) (*models.Progress, error) {
	var out *models.Progress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.upsert(tx, userID, courseID, challengeID, completed, score); err != nil {
			return err
		}
		row, err := s.get(tx, userID, courseID, challengeID)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertMany applies the same completion state to several challenges of a
// course in one transaction.
func (s *ProgressStore) UpsertMany(ctx context.Context, userID uint, courseID string, challengeIDs []int, completed bool, score int) error {
	if len(challengeIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, challengeID := range challengeIDs {
			if err := s.upsert(tx, userID, courseID, challengeID, completed, score); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ProgressStore) upsert(tx *gorm.DB, userID uint, courseID string, challengeID int, completed bool, score int) error {
	now := s.now()
	row := models.Progress{
		UserID:      userID,
		CourseID:    courseID,
		ChallengeID: challengeID,
		Completed:   completed,
		Score:       score,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if completed {
		row.CompletedAt = &now
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "challenge_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    gorm.Expr("excluded.completed"),
			"score":        gorm.Expr("excluded.score"),
			"completed_at": gorm.Expr("COALESCE(excluded.completed_at, user_progress.completed_at)"),
			"updated_at":   gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
	if err != nil {
		s.log.Error("Upsert progress failed", "user_id", userID, "course_id", courseID, "challenge_id", challengeID, "error", err)
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// Delete removes the user's rows matching the prefix: all rows when courseID
// is empty, one course when challengeID is nil, otherwise one challenge.
// Matching nothing is not an error.
func (s *ProgressStore) Delete(ctx context.Context, userID uint, courseID string, challengeID *int) (bool, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if courseID != "" {
		q = q.Where("course_id = ?", courseID)
		if challengeID != nil {
			q = q.Where("challenge_id = ?", *challengeID)
		}
	}
	res := q.Delete(&models.Progress{})
	if res.Error != nil {
		return false, fmt.Errorf("delete progress: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CompletedChallenges returns the user's completed challenge ids per
// course, ascending.
func (s *ProgressStore) CompletedChallenges(ctx context.Context, userID uint) (map[string][]int, error) {
	var rows []struct {
		CourseID    string
		ChallengeID int
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Progress{}).
		Select("course_id, challenge_id").
		Where("user_id = ? AND completed = ?", userID, true).
		Order("course_id ASC, challenge_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list completed challenges: %w", err)
	}

	out := make(map[string][]int)
	for _, r := range rows {
		out[r.CourseID] = append(out[r.CourseID], r.ChallengeID)
	}
	return out, nil
}

// Import inserts a row with its own timestamps unless the triple already
// exists. It reports whether a row was written.
func (s *ProgressStore) Import(ctx context.Context, row *models.Progress) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "challenge_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, fmt.Errorf("import progress: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
