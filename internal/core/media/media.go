package media

import "time"

// Default video presentation, portrait 1080x1920 at full quality
const (
	DefaultVideoHeight  = 1920
	DefaultVideoWidth   = 1080
	DefaultVideoQuality = 100
)

// Image is a gallery entry whose file lives on the CDN
type Image struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	ID          string    `json:"id" db:"id"`
	Owner       string    `json:"owner" db:"owner_id"`
	Username    string    `json:"username" db:"username"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	FileID      string    `json:"fileId" db:"file_id"`
}

// Transformation is the playback rendition requested from the CDN
type Transformation struct {
	Height  int `json:"height"`
	Width   int `json:"width"`
	Quality int `json:"quality"`
}

// Video is a gallery entry whose file lives on the CDN
type Video struct {
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
	Transformation Transformation `json:"transformation"`
	ID             string         `json:"id" db:"id"`
	Owner          string         `json:"owner" db:"owner_id"`
	Username       string         `json:"username" db:"username"`
	Title          string         `json:"title" db:"title"`
	Description    string         `json:"description" db:"description"`
	VideoURL       string         `json:"videoUrl" db:"video_url"`
	FileID         string         `json:"fileId" db:"file_id"`
	ThumbnailURL   string         `json:"thumbnailUrl,omitempty" db:"thumbnail_url"`
	Controls       bool           `json:"controls" db:"controls"`
}

// CreateImageRequest is the input for adding an image
type CreateImageRequest struct {
	Title       string `json:"title" validate:"required,maxchars=200"`
	Description string `json:"description" validate:"required,maxchars=2000"`
	ImageURL    string `json:"imageUrl" validate:"required,http_url"`
	FileID      string `json:"fileId" validate:"required,max=200"`
}

// UpdateImageRequest changes the non-empty fields of an existing image
type UpdateImageRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"omitempty,maxchars=200"`
	Description string `json:"description" validate:"omitempty,maxchars=2000"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,http_url"`
}

// TransformationRequest lets the uploader pick a quality; dimensions are fixed
type TransformationRequest struct {
	Quality *int `json:"quality,omitempty"`
}

// CreateVideoRequest is the input for adding a video
type CreateVideoRequest struct {
	Transformation *TransformationRequest `json:"transformation,omitempty"`
	Controls       *bool                  `json:"controls,omitempty"`
	Title          string                 `json:"title" validate:"required,maxchars=200"`
	Description    string                 `json:"description" validate:"required,maxchars=2000"`
	VideoURL       string                 `json:"videoUrl" validate:"required,http_url"`
	FileID         string                 `json:"fileId" validate:"required,max=200"`
	ThumbnailURL   string                 `json:"thumbnailUrl,omitempty" validate:"omitempty,http_url"`
}

// UpdateVideoRequest changes the non-empty fields of an existing video
type UpdateVideoRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"omitempty,maxchars=200"`
	Description string `json:"description" validate:"omitempty,maxchars=2000"`
}

// DeleteVideoRequest identifies the video to remove
type DeleteVideoRequest struct {
	ID string `json:"id"`
}
