package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"Ciale/internal/auth"
	"Ciale/internal/validation"

	"github.com/google/uuid"
)

type mediaService struct {
	images ImageRepository
	videos VideoRepository
	files  FileDeleter
	logger *slog.Logger
	now    func() time.Time
}

// NewMediaService creates the gallery service.
// files may be nil, in which case remote cleanup is skipped.
func NewMediaService(images ImageRepository, videos VideoRepository, files FileDeleter, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &mediaService{
		images: images,
		videos: videos,
		files:  files,
		logger: logger,
		now:    time.Now,
	}
}

func (s *mediaService) ListImages(ctx context.Context) ([]*Image, error) {
	list, err := s.images.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if list == nil {
		list = []*Image{}
	}
	return list, nil
}

func (s *mediaService) GetImage(ctx context.Context, id string) (*Image, error) {
	if !validID(id) {
		return nil, ErrImageNotFound
	}
	return s.images.GetByID(ctx, id)
}

// CreateImage stores an image uploaded by actor
func (s *mediaService) CreateImage(ctx context.Context, actor auth.Identity, req CreateImageRequest) (*Image, error) {
	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.FileID = strings.TrimSpace(req.FileID)
	if fe := validation.Struct(req); fe != nil {
		return nil, NewValidationError(fe.Field, fe.Message)
	}

	now := s.timestamp()
	image := &Image{
		ID:          uuid.NewString(),
		Owner:       actor.UserID,
		Username:    actor.Username,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		FileID:      req.FileID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.images.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	return image, nil
}

// UpdateImage changes the provided fields of an image actor owns
func (s *mediaService) UpdateImage(ctx context.Context, actor auth.Identity, req UpdateImageRequest) (*Image, error) {
	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, NewValidationError("id", "is required")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if fe := validation.Struct(req); fe != nil {
		return nil, NewValidationError(fe.Field, fe.Message)
	}

	image, err := s.GetImage(ctx, strings.TrimSpace(req.ID))
	if err != nil {
		return nil, err
	}
	if image.Owner != actor.UserID {
		return nil, ErrNotAuthorized
	}

	if req.Title != "" {
		image.Title = req.Title
	}
	if req.Description != "" {
		image.Description = req.Description
	}
	if req.ImageURL != "" {
		image.ImageURL = req.ImageURL
	}
	image.UpdatedAt = s.timestamp()

	return s.images.Update(ctx, image)
}

// DeleteImage removes the CDN file and then the image record
func (s *mediaService) DeleteImage(ctx context.Context, actor auth.Identity, id string) error {
	if actor.UserID == "" {
		return ErrAuthenticationRequired
	}

	image, err := s.GetImage(ctx, id)
	if err != nil {
		return err
	}
	if image.Owner != actor.UserID {
		return ErrNotAuthorized
	}

	if err := s.deleteRemote(ctx, image.FileID); err != nil {
		return err
	}
	return s.images.Delete(ctx, image.ID)
}

func (s *mediaService) ListVideos(ctx context.Context) ([]*Video, error) {
	list, err := s.videos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	if list == nil {
		list = []*Video{}
	}
	return list, nil
}

func (s *mediaService) GetVideo(ctx context.Context, id string) (*Video, error) {
	if !validID(id) {
		return nil, ErrVideoNotFound
	}
	return s.videos.GetByID(ctx, id)
}

// CreateVideo stores a video with the default portrait rendition
func (s *mediaService) CreateVideo(ctx context.Context, actor auth.Identity, req CreateVideoRequest) (*Video, error) {
	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	req.FileID = strings.TrimSpace(req.FileID)
	req.ThumbnailURL = strings.TrimSpace(req.ThumbnailURL)
	if fe := validation.Struct(req); fe != nil {
		return nil, NewValidationError(fe.Field, fe.Message)
	}

	quality := DefaultVideoQuality
	if req.Transformation != nil && req.Transformation.Quality != nil {
		quality = *req.Transformation.Quality
		if quality < 1 || quality > 100 {
			return nil, NewValidationError("transformation.quality", "must be between 1 and 100")
		}
	}

	controls := true
	if req.Controls != nil {
		controls = *req.Controls
	}

	now := s.timestamp()
	video := &Video{
		ID:           uuid.NewString(),
		Owner:        actor.UserID,
		Username:     actor.Username,
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		FileID:       req.FileID,
		ThumbnailURL: req.ThumbnailURL,
		Controls:     controls,
		Transformation: Transformation{
			Height:  DefaultVideoHeight,
			Width:   DefaultVideoWidth,
			Quality: quality,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}
	return video, nil
}

// UpdateVideo changes the title and description of a video actor owns
func (s *mediaService) UpdateVideo(ctx context.Context, actor auth.Identity, req UpdateVideoRequest) (*Video, error) {
	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, NewValidationError("id", "is required")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if fe := validation.Struct(req); fe != nil {
		return nil, NewValidationError(fe.Field, fe.Message)
	}

	video, err := s.GetVideo(ctx, strings.TrimSpace(req.ID))
	if err != nil {
		return nil, err
	}
	if video.Owner != actor.UserID {
		return nil, ErrNotAuthorized
	}

	if req.Title != "" {
		video.Title = req.Title
	}
	if req.Description != "" {
		video.Description = req.Description
	}
	video.UpdatedAt = s.timestamp()

	return s.videos.Update(ctx, video)
}

// DeleteVideo removes the CDN file and then the video record
func (s *mediaService) DeleteVideo(ctx context.Context, actor auth.Identity, id string) error {
	if actor.UserID == "" {
		return ErrAuthenticationRequired
	}
	if strings.TrimSpace(id) == "" {
		return NewValidationError("id", "is required")
	}

	video, err := s.GetVideo(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if video.Owner != actor.UserID {
		return ErrNotAuthorized
	}

	if err := s.deleteRemote(ctx, video.FileID); err != nil {
		return err
	}
	return s.videos.Delete(ctx, video.ID)
}

func (s *mediaService) deleteRemote(ctx context.Context, fileID string) error {
	if fileID == "" || s.files == nil {
		return nil
	}
	if err := s.files.DeleteFile(ctx, fileID); err != nil {
		s.logger.Error("failed to delete CDN file",
			"error", err,
			"file_id", fileID)
		return fmt.Errorf("failed to delete media file %s: %w", fileID, err)
	}
	return nil
}

func (s *mediaService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}
