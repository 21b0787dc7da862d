package media

import (
	"context"

	"Ciale/internal/auth"
)

// Service defines the gallery operations for images and videos
type Service interface {
	ListImages(ctx context.Context) ([]*Image, error)
	GetImage(ctx context.Context, id string) (*Image, error)
	CreateImage(ctx context.Context, actor auth.Identity, req CreateImageRequest) (*Image, error)
	UpdateImage(ctx context.Context, actor auth.Identity, req UpdateImageRequest) (*Image, error)
	DeleteImage(ctx context.Context, actor auth.Identity, id string) error

	ListVideos(ctx context.Context) ([]*Video, error)
	GetVideo(ctx context.Context, id string) (*Video, error)
	CreateVideo(ctx context.Context, actor auth.Identity, req CreateVideoRequest) (*Video, error)
	UpdateVideo(ctx context.Context, actor auth.Identity, req UpdateVideoRequest) (*Video, error)
	DeleteVideo(ctx context.Context, actor auth.Identity, id string) error
}

// ImageRepository persists images. Lookups return ErrImageNotFound.
type ImageRepository interface {
	Create(ctx context.Context, image *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	List(ctx context.Context) ([]*Image, error)
	Update(ctx context.Context, image *Image) (*Image, error)
	Delete(ctx context.Context, id string) error
}

// VideoRepository persists videos. Lookups return ErrVideoNotFound.
type VideoRepository interface {
	Create(ctx context.Context, video *Video) error
	GetByID(ctx context.Context, id string) (*Video, error)
	List(ctx context.Context) ([]*Video, error)
	Update(ctx context.Context, video *Video) (*Video, error)
	Delete(ctx context.Context, id string) error
}

// FileDeleter removes an uploaded file from the media CDN
type FileDeleter interface {
	DeleteFile(ctx context.Context, fileID string) error
}
