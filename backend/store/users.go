package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillpractice/backend/models"
	"skillpractice/backend/utils"

	"gorm.io/gorm"
)

// UserStore persists accounts. Experience is only ever changed through
// AddExperience.
type UserStore struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewUserStore(db *gorm.DB, baseLog *utils.Logger) *UserStore {
	return &UserStore{db: db, log: baseLog.With("store", "UserStore")}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	taken, err := s.identityTaken(s.db.WithContext(ctx), user.Username, user.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrUserConflict
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.Experience = 0
	user.IsActive = true

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	s.log.Info("User created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return nil
}

// Import inserts a user as-is (id, hash, experience and timestamps
// included). Used by the legacy data importer.
func (s *UserStore) Import(ctx context.Context, user *models.User) error {
	// gorm omits a false bool with a column default from the INSERT and
	// reads the default back, so the flag is kept aside.
	active := user.IsActive
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserConflict
		}
		return fmt.Errorf("import user: %w", err)
	}
	if !active {
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("is_active", false).Error; err != nil {
			return fmt.Errorf("import user: %w", err)
		}
		user.IsActive = false
	}
	return nil
}

// SyncIDSequence moves the Postgres id sequence past imported ids. Other
// databases derive the next id from the table.
func (s *UserStore) SyncIDSequence(ctx context.Context) error {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	err := s.db.WithContext(ctx).Exec(
		`SELECT setval(pg_get_serial_sequence('users', 'id'), COALESCE(MAX(id), 1)) FROM users`,
	).Error
	if err != nil {
		return fmt.Errorf("sync user id sequence: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "username = ?", username)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *UserStore) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// List returns all accounts, newest first.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, id uint, upd models.UserUpdate) (*models.User, error) {
	changes := map[string]interface{}{}
	if upd.Username != nil {
		changes["username"] = *upd.Username
	}
	if upd.Email != nil {
		changes["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		changes["password_hash"] = *upd.PasswordHash
	}
	if upd.Role != nil {
		changes["role"] = *upd.Role
	}
	if upd.IsActive != nil {
		changes["is_active"] = *upd.IsActive
	}
	if len(changes) == 0 {
		return nil, ErrNothingToUpdate
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var username, email string
		if upd.Username != nil && *upd.Username != existing.Username {
			username = *upd.Username
		}
		if upd.Email != nil && *upd.Email != existing.Email {
			email = *upd.Email
		}
		taken, err := s.identityTaken(tx, username, email, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrUserConflict
		}

		return tx.Model(&models.User{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserConflict
		}
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUserConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) TouchLastLogin(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login", now)
	if res.Error != nil {
		return fmt.Errorf("update last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddExperience increments the stored experience by delta in a single
// UPDATE and returns the new total. Concurrent increments never overwrite
// each other.
func (s *UserStore) AddExperience(ctx context.Context, id uint, delta int) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", id).
			UpdateColumn("experience", gorm.Expr("experience + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("add experience: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Pluck("experience", &total).Error
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("Experience added", "user_id", id, "delta", delta, "total", total)
	return total, nil
}

// Delete removes the account; its progress rows go with it through the
// foreign key cascade.
func (s *UserStore) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *UserStore) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.User{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete users: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Count is used by the bootstrap commands.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *UserStore) identityTaken(tx *gorm.DB, username, email string, exceptID uint) (bool, error) {
	if username == "" && email == "" {
		return false, nil
	}
	q := tx.Model(&models.User{})
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	default:
		q = q.Where("email = ?", email)
	}
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check identity: %w", err)
	}
	return n > 0, nil
}
