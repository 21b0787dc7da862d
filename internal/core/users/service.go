package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"Ciale/internal/validation"

	"github.com/google/uuid"
)

type userService struct {
	userRepo UserRepository
	now      func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// Register creates an account with a bcrypt password hash
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if fe := validation.Struct(req); fe != nil {
		return nil, NewValidationError(fe.Field, fe.Message)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		PostIDs:      []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Repository enforces email and username uniqueness
	return s.userRepo.Create(ctx, user)
}

// Authenticate verifies credentials and returns the matching user
func (s *userService) Authenticate(ctx context.Context, req LoginRequest) (*User, error) {
	if fe := validation.Struct(req); fe != nil {
		return nil, NewValidationError(fe.Field, fe.Message)
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = checkPassword(string(dummyHash), req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := checkPassword(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by id
func (s *userService) GetUserByID(ctx context.Context, id string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewValidationError("id", "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username, ignoring case
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewValidationError("username", "is required")
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateProfile applies the fields present in req to the caller's account
func (s *userService) UpdateProfile(ctx context.Context, actingUserID string, req UpdateProfileRequest) (*User, error) {
	if req.UserID != "" && req.UserID != actingUserID {
		return nil, ErrNotAuthorized
	}

	user, err := s.GetUserByID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	updated := user.Clone()

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if fe := validation.Var("username", username, "required,min=3,max=30,username"); fe != nil {
			return nil, NewValidationError(fe.Field, fe.Message)
		}
		updated.Username = username
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if fe := validation.Var("email", email, "required,email,max=254"); fe != nil {
			return nil, NewValidationError(fe.Field, fe.Message)
		}
		updated.Email = email
	}

	if req.Avatar != nil {
		avatar := strings.TrimSpace(*req.Avatar)
		if avatar != "" && !isHTTPURL(avatar) {
			return nil, NewValidationError("avatar", "must be a valid URL")
		}
		updated.Avatar = avatar
	}

	if updated.Username == user.Username && updated.Email == user.Email && updated.Avatar == user.Avatar {
		return user, nil
	}

	updated.UpdatedAt = s.now().UTC()
	return s.userRepo.Update(ctx, updated)
}

// RecordOwnership appends postID to the owner's post list
func (s *userService) RecordOwnership(ctx context.Context, userID, postID string) error {
	if userID == "" || postID == "" {
		return NewValidationError("postIds", "user id and post id are required")
	}
	if err := s.userRepo.AppendPostID(ctx, userID, postID); err != nil {
		return fmt.Errorf("failed to record post %s for user %s: %w", postID, userID, err)
	}
	return nil
}

// RemoveOwnership drops postID from the owner's post list
func (s *userService) RemoveOwnership(ctx context.Context, userID, postID string) error {
	if userID == "" || postID == "" {
		return NewValidationError("postIds", "user id and post id are required")
	}
	if err := s.userRepo.RemovePostID(ctx, userID, postID); err != nil {
		return fmt.Errorf("failed to remove post %s from user %s: %w", postID, userID, err)
	}
	return nil
}

// ListOwnership returns the post ids recorded on every user
func (s *userService) ListOwnership(ctx context.Context) (Ownership, error) {
	return s.userRepo.ListPostIDs(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
