package services

import (
	"context"
	"errors"
	"fmt"

	"skillpractice/backend/models"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"

	"golang.org/x/crypto/bcrypt"
)

type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// NewAccount is an admin-created account.
type NewAccount struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AccountChanges is a partial admin update. Empty strings and nil mean
// "unchanged".
type AccountChanges struct {
	Username string
	Email    string
	Password string
	Role     string
	IsActive *bool
}

type BulkDeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// AccountService handles sign-up, login and the admin user management.
type AccountService struct {
	users *store.UserStore
	log   *utils.Logger
	cost  int
}

func NewAccountService(users *store.UserStore, baseLog *utils.Logger) *AccountService {
	return &AccountService{
		users: users,
		log:   baseLog.With("service", "AccountService"),
		cost:  bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AccountService) WithHashCost(cost int) *AccountService {
	s.cost = cost
	return s
}

func (s *AccountService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if reg.Password != reg.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	return s.create(ctx, reg.Username, reg.Email, reg.Password, models.RoleUser)
}

func (s *AccountService) Create(ctx context.Context, acc NewAccount) (*models.User, error) {
	return s.create(ctx, acc.Username, acc.Email, acc.Password, acc.Role)
}

func (s *AccountService) create(ctx context.Context, username, email, password, role string) (*models.User, error) {
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login accepts a username or an email as identifier. A successful login
// stamps the last login time.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, identifier)
	if errors.Is(err, store.ErrUserNotFound) {
		user, err = s.users.FindByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	s.log.Info("User logged in", "user_id", user.ID)
	return s.users.FindByID(ctx, user.ID)
}

func (s *AccountService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *AccountService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return available(s.users.FindByUsername(ctx, username))
}

func (s *AccountService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	return available(s.users.FindByEmail(ctx, email))
}

func available(_ *models.User, err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, store.ErrUserNotFound):
		return true, nil
	default:
		return false, err
	}
}

func (s *AccountService) Update(ctx context.Context, id uint, ch AccountChanges) (*models.User, error) {
	var upd models.UserUpdate
	if ch.Username != "" {
		upd.Username = &ch.Username
	}
	if ch.Email != "" {
		upd.Email = &ch.Email
	}
	if ch.Password != "" {
		hash, err := s.hash(ch.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}
	if ch.Role != "" {
		upd.Role = &ch.Role
	}
	upd.IsActive = ch.IsActive
	return s.users.Update(ctx, id, upd)
}

// Delete removes another user's account. actorID is the admin performing
// the deletion.
func (s *AccountService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrUserNotFound
	}
	s.log.Info("User deleted", "user_id", id, "by", actorID)
	return nil
}

func (s *AccountService) DeleteMany(ctx context.Context, actorID uint, ids []uint) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoUserIDs
	}
	for _, id := range ids {
		if id == actorID {
			return nil, ErrCannotDeleteSelf
		}
	}
	n, err := s.users.DeleteMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.log.Info("Users deleted", "count", n, "by", actorID)
	return &BulkDeleteResult{DeletedCount: n}, nil
}

// EnsureAdmin creates an admin account, or promotes and re-activates the
// existing account with that username. The password is reset either way.
func (s *AccountService) EnsureAdmin(ctx context.Context, acc NewAccount) (user *models.User, created bool, err error) {
	existing, err := s.users.FindByUsername(ctx, acc.Username)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		acc.Role = models.RoleAdmin
		user, err = s.Create(ctx, acc)
		return user, err == nil, err
	case err != nil:
		return nil, false, err
	}

	active := true
	user, err = s.Update(ctx, existing.ID, AccountChanges{
		Password: acc.Password,
		Role:     models.RoleAdmin,
		IsActive: &active,
	})
	return user, false, err
}

func (s *AccountService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
