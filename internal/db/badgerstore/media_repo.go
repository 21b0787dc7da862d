package badgerstore

import (
	"context"
	"time"

	"Ciale/internal/core/media"

	"github.com/dgraph-io/badger/v4"
)

type badgerImageRepo struct {
	images collection[media.Image]
}

// NewImageRepository creates a Badger-backed image repository
func NewImageRepository(store *badger.DB) media.ImageRepository {
	return &badgerImageRepo{
		images: collection[media.Image]{db: store, prefix: imagePrefix, notFound: media.ErrImageNotFound},
	}
}

func (r *badgerImageRepo) Create(ctx context.Context, image *media.Image) error {
	return r.images.create(image.ID, image)
}

func (r *badgerImageRepo) GetByID(ctx context.Context, id string) (*media.Image, error) {
	return r.images.get(id)
}

func (r *badgerImageRepo) List(ctx context.Context) ([]*media.Image, error) {
	list, err := r.images.list()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list,
		func(i *media.Image) time.Time { return i.CreatedAt },
		func(i *media.Image) string { return i.ID })
	return list, nil
}

func (r *badgerImageRepo) Update(ctx context.Context, image *media.Image) (*media.Image, error) {
	if err := r.images.replace(image.ID, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (r *badgerImageRepo) Delete(ctx context.Context, id string) error {
	return r.images.delete(id)
}

type badgerVideoRepo struct {
	videos collection[media.Video]
}

// NewVideoRepository creates a Badger-backed video repository
func NewVideoRepository(store *badger.DB) media.VideoRepository {
	return &badgerVideoRepo{
		videos: collection[media.Video]{db: store, prefix: videoPrefix, notFound: media.ErrVideoNotFound},
	}
}

func (r *badgerVideoRepo) Create(ctx context.Context, video *media.Video) error {
	return r.videos.create(video.ID, video)
}

func (r *badgerVideoRepo) GetByID(ctx context.Context, id string) (*media.Video, error) {
	return r.videos.get(id)
}

func (r *badgerVideoRepo) List(ctx context.Context) ([]*media.Video, error) {
	list, err := r.videos.list()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list,
		func(v *media.Video) time.Time { return v.CreatedAt },
		func(v *media.Video) string { return v.ID })
	return list, nil
}

func (r *badgerVideoRepo) Update(ctx context.Context, video *media.Video) (*media.Video, error) {
	if err := r.videos.replace(video.ID, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (r *badgerVideoRepo) Delete(ctx context.Context, id string) error {
	return r.videos.delete(id)
}
