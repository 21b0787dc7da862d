package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"Ciale/internal/auth"
	"Ciale/internal/core/users"
	"Ciale/internal/validation"

	"github.com/google/uuid"
)

type postService struct {
	repo   Repository
	users  UserDirectory
	files  FileDeleter
	logger *slog.Logger
	now    func() time.Time
}

// NewPostService creates a new post service.
// files may be nil, in which case remote media cleanup is skipped.
func NewPostService(repo Repository, directory UserDirectory, files FileDeleter, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		users:  directory,
		files:  files,
		logger: logger,
		now:    time.Now,
	}
}

// CreatePost stores the post and then links it to its owner.
// The two writes are not atomic; a failed link removes the post again, and a
// failed removal is left for ReconcileOwnership.
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.OwnerID == "" {
		return nil, ErrAuthenticationRequired
	}

	content := strings.TrimSpace(req.Content)
	media, err := normalizeMedia(req.Media)
	if err != nil {
		return nil, err
	}
	if err := validateContent(content, media); err != nil {
		return nil, err
	}

	author, err := s.users.GetUserByID(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: author %s does not exist", ErrAuthenticationRequired, req.OwnerID)
		}
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	if claimed := strings.TrimSpace(req.Username); claimed != "" && !strings.EqualFold(claimed, author.Username) {
		return nil, NewValidationError("username", "must match the signed-in user")
	}

	now := s.timestamp()
	post := &Post{
		ID:        uuid.NewString(),
		Owner:     author.ID,
		Username:  author.Username,
		Content:   content,
		Media:     media,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to store post: %w", err)
	}

	if err := s.users.RecordOwnership(ctx, author.ID, post.ID); err != nil {
		s.logger.Error("failed to link post to owner, removing post",
			"error", err,
			"post_id", post.ID,
			"owner", author.ID)

		// The caller's context may already be cancelled
		if delErr := s.repo.Delete(context.WithoutCancel(ctx), post.ID); delErr != nil {
			s.logger.Error("failed to remove unlinked post, left for reconcile sweep",
				"error", delErr,
				"post_id", post.ID)
		}
		return nil, fmt.Errorf("failed to record post ownership: %w", err)
	}

	post.Author = &AuthorView{
		ID:       author.ID,
		Username: author.Username,
		Avatar:   author.Avatar,
	}
	return post, nil
}

// GetPost returns a single post
func (s *postService) GetPost(ctx context.Context, id string) (*Post, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListPosts returns every post, newest first
func (s *postService) ListPosts(ctx context.Context) ([]*Post, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return nonNil(list), nil
}

// SearchPosts filters posts by a case-insensitive substring of username or content
func (s *postService) SearchPosts(ctx context.Context, query string) ([]*Post, error) {
	query = NormalizeQuery(query)
	if query == "" {
		return s.ListPosts(ctx)
	}

	list, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return nonNil(list), nil
}

// UpdatePost replaces the content of a post owned by actor
func (s *postService) UpdatePost(ctx context.Context, id string, actor auth.Identity, content string) (*Post, error) {
	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, post) {
		return nil, ErrNotAuthorized
	}

	content = strings.TrimSpace(content)
	if err := validateContent(content, post.Media); err != nil {
		return nil, err
	}

	return s.repo.UpdateContent(ctx, post.ID, content, s.timestamp())
}

// DeletePost removes a post owned by actor.
// An attached CDN file is deleted first; if that fails the post is kept.
func (s *postService) DeletePost(ctx context.Context, id string, actor auth.Identity) error {
	if actor.UserID == "" {
		return ErrAuthenticationRequired
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(actor, post) {
		return ErrNotAuthorized
	}

	if post.Media != nil && post.Media.FileID != "" && s.files != nil {
		if err := s.files.DeleteFile(ctx, post.Media.FileID); err != nil {
			return fmt.Errorf("failed to delete media file %s: %w", post.Media.FileID, err)
		}
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return err
	}

	if err := s.users.RemoveOwnership(ctx, post.Owner, post.ID); err != nil {
		s.logger.Warn("failed to unlink deleted post from owner, left for reconcile sweep",
			"error", err,
			"post_id", post.ID,
			"owner", post.Owner)
	}
	return nil
}

// ReconcileOwnership makes every user's post list equal to the posts they own
func (s *postService) ReconcileOwnership(ctx context.Context) (*ReconcileReport, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	recorded, err := s.users.ListOwnership(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ownership: %w", err)
	}

	expected := make(map[string]map[string]struct{})
	for _, p := range list {
		if expected[p.Owner] == nil {
			expected[p.Owner] = make(map[string]struct{})
		}
		expected[p.Owner][p.ID] = struct{}{}
	}

	report := &ReconcileReport{}

	for userID, postIDs := range recorded {
		owned := expected[userID]
		for _, postID := range postIDs {
			if _, ok := owned[postID]; ok {
				continue
			}
			if err := s.users.RemoveOwnership(ctx, userID, postID); err != nil {
				return report, fmt.Errorf("failed to remove stale post %s from user %s: %w", postID, userID, err)
			}
			report.Removed++
		}
	}

	for userID, owned := range expected {
		have := make(map[string]struct{}, len(recorded[userID]))
		for _, postID := range recorded[userID] {
			have[postID] = struct{}{}
		}

		for postID := range owned {
			if _, ok := have[postID]; ok {
				continue
			}
			if err := s.users.RecordOwnership(ctx, userID, postID); err != nil {
				if errors.Is(err, users.ErrUserNotFound) {
					s.logger.Warn("post owner no longer exists",
						"post_id", postID,
						"owner", userID)
					report.Skipped++
					continue
				}
				return report, fmt.Errorf("failed to record post %s for user %s: %w", postID, userID, err)
			}
			report.Added++
		}
	}

	return report, nil
}

// timestamp is UTC at microsecond precision so values survive a postgres round trip
func (s *postService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// normalizeMedia treats an all-empty media object as absent
func normalizeMedia(m *Media) (*Media, error) {
	if m == nil {
		return nil, nil
	}

	out := &Media{
		Type:   MediaType(strings.ToLower(strings.TrimSpace(string(m.Type)))),
		URL:    strings.TrimSpace(m.URL),
		FileID: strings.TrimSpace(m.FileID),
	}
	if out.Type == "" && out.URL == "" && out.FileID == "" {
		return nil, nil
	}

	switch out.Type {
	case MediaImage, MediaVideo:
	case "":
		return nil, NewValidationError("media.type", "is required when media is attached")
	default:
		return nil, NewValidationError("media.type", "must be one of: image video")
	}

	if fe := validation.Var("media.url", out.URL, "required,http_url"); fe != nil {
		return nil, NewValidationError(fe.Field, fe.Message)
	}
	return out, nil
}

func validateContent(content string, media *Media) error {
	if content == "" && media == nil {
		return NewValidationError("content", "content or media is required")
	}
	if validation.CharCount(content) > MaxContentLength {
		return NewValidationError("content", fmt.Sprintf("must be at most %d characters", MaxContentLength))
	}
	return nil
}

// validID accepts only the canonical lower-case UUID form ids are stored in
func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func nonNil(list []*Post) []*Post {
	if list == nil {
		return []*Post{}
	}
	return list
}
