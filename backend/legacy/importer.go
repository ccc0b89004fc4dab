// Package legacy imports the JSON files written by the file-backed version
// of the service (users.json and progress.json) into the database.
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"skillpractice/backend/models"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"
)

type userRecord struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Role       string     `json:"role"`
	CreatedAt  *time.Time `json:"createdAt"`
	LastLogin  *time.Time `json:"lastLogin"`
	IsActive   *bool      `json:"isActive"`
	Experience int        `json:"experience"`
}

type usersFile struct {
	Users []userRecord `json:"users"`
}

type challengeRecord struct {
	Completed   bool       `json:"completed"`
	Score       int        `json:"score"`
	CompletedAt *time.Time `json:"completedAt"`
}

// progressFile nests user id → course id → challenge id.
type progressFile struct {
	UserProgress map[string]map[string]map[string]challengeRecord `json:"userProgress"`
}

type Counts struct {
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type Report struct {
	Users    Counts `json:"users"`
	Progress Counts `json:"progress"`
}

// Importer copies legacy records, skipping any that already exist.
type Importer struct {
	users    *store.UserStore
	progress *store.ProgressStore
	log      *utils.Logger
	now      func() time.Time
}

func NewImporter(users *store.UserStore, progress *store.ProgressStore, baseLog *utils.Logger) *Importer {
	return &Importer{
		users:    users,
		progress: progress,
		log:      baseLog.With("component", "legacy-import"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Import reads both files. A missing file is skipped; a malformed one
// aborts the import.
func (im *Importer) Import(ctx context.Context, usersPath, progressPath string) (*Report, error) {
	report := &Report{}

	if usersPath != "" {
		var f usersFile
		found, err := readJSON(usersPath, &f)
		if err != nil {
			return nil, err
		}
		if found {
			report.Users, err = im.importUsers(ctx, f.Users)
			if err != nil {
				return nil, err
			}
		} else {
			im.log.Warn("Users file not found, skipping", "path", usersPath)
		}
	}

	if progressPath != "" {
		var f progressFile
		found, err := readJSON(progressPath, &f)
		if err != nil {
			return nil, err
		}
		if found {
			report.Progress, err = im.importProgress(ctx, f.UserProgress)
			if err != nil {
				return nil, err
			}
		} else {
			im.log.Warn("Progress file not found, skipping", "path", progressPath)
		}
	}

	return report, nil
}

func (im *Importer) importUsers(ctx context.Context, records []userRecord) (Counts, error) {
	var counts Counts
	for _, rec := range records {
		exists, err := im.userExists(ctx, rec)
		if err != nil {
			return counts, err
		}
		if exists {
			im.log.Info("User already exists, skipping", "username", rec.Username)
			counts.Skipped++
			continue
		}

		user := &models.User{
			ID:           rec.ID,
			Username:     rec.Username,
			Email:        rec.Email,
			PasswordHash: rec.Password,
			Role:         rec.Role,
			IsActive:     rec.IsActive == nil || *rec.IsActive,
			Experience:   rec.Experience,
			LastLogin:    rec.LastLogin,
		}
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if rec.CreatedAt != nil {
			user.CreatedAt = *rec.CreatedAt
		}

		if err := im.users.Import(ctx, user); err != nil {
			im.log.Error("User import failed", "username", rec.Username, "error", err)
			counts.Failed++
			continue
		}
		counts.Migrated++
	}

	if counts.Migrated > 0 {
		if err := im.users.SyncIDSequence(ctx); err != nil {
			return counts, err
		}
	}
	im.log.Info("Users imported", "migrated", counts.Migrated, "skipped", counts.Skipped, "failed", counts.Failed)
	return counts, nil
}

func (im *Importer) userExists(ctx context.Context, rec userRecord) (bool, error) {
	lookups := []func() (*models.User, error){
		func() (*models.User, error) { return im.users.FindByUsername(ctx, rec.Username) },
		func() (*models.User, error) { return im.users.FindByEmail(ctx, rec.Email) },
	}
	if rec.ID != 0 {
		lookups = append(lookups, func() (*models.User, error) { return im.users.FindByID(ctx, rec.ID) })
	}
	for _, lookup := range lookups {
		_, err := lookup()
		switch {
		case err == nil:
			return true, nil
		case !errors.Is(err, store.ErrUserNotFound):
			return false, err
		}
	}
	return false, nil
}

func (im *Importer) importProgress(ctx context.Context, data map[string]map[string]map[string]challengeRecord) (Counts, error) {
	var counts Counts
	for rawUserID, courses := range data {
		userID, err := strconv.ParseUint(rawUserID, 10, 64)
		if err != nil || userID == 0 {
			im.log.Warn("Invalid user id in progress file", "user_id", rawUserID)
			counts.Failed += countChallenges(courses)
			continue
		}

		for courseID, challenges := range courses {
			for rawChallengeID, rec := range challenges {
				challengeID, err := strconv.Atoi(rawChallengeID)
				if err != nil {
					im.log.Warn("Invalid challenge id in progress file", "user_id", userID, "course_id", courseID, "challenge_id", rawChallengeID)
					counts.Failed++
					continue
				}

				now := im.now()
				row := &models.Progress{
					UserID:      uint(userID),
					CourseID:    courseID,
					ChallengeID: challengeID,
					Completed:   rec.Completed,
					Score:       rec.Score,
					CompletedAt: rec.CompletedAt,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				if row.Completed && row.CompletedAt == nil {
					row.CompletedAt = &now
				}

				written, err := im.progress.Import(ctx, row)
				switch {
				case err != nil:
					im.log.Error("Progress import failed", "user_id", userID, "course_id", courseID, "challenge_id", challengeID, "error", err)
					counts.Failed++
				case written:
					counts.Migrated++
				default:
					counts.Skipped++
				}
			}
		}
	}
	im.log.Info("Progress imported", "migrated", counts.Migrated, "skipped", counts.Skipped, "failed", counts.Failed)
	return counts, nil
}

func countChallenges(courses map[string]map[string]challengeRecord) int {
	n := 0
	for _, challenges := range courses {
		n += len(challenges)
	}
	return n
}

func readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}
