package service

import (
	"context"
	"fmt"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/repository"
	"marketplace-backend/internal/shared"
	"marketplace-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MediaKind selects which category field an upload replaces.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaIcon  MediaKind = "icon"
)

// Size returns the bounding box (px) the upload is scaled into.
func (k MediaKind) Size() int {
	if k == MediaIcon {
		return 128
	}
	return 800
}

func ParseMediaKind(s string) (MediaKind, error) {
	switch k := MediaKind(s); k {
	case MediaImage, MediaIcon:
		return k, nil
	default:
		return "", model.ErrInvalidMedia.WithMessage("Unknown media kind %q (expected image or icon)", s)
	}
}

// ObjectStore is the part of the object storage the media service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	KeyFromURL(rawURL string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageFitter validates and scales uploads.
type ImageFitter interface {
	ValidateImage(data []byte) error
	Fit(data []byte, size int) ([]byte, error)
}

// MediaTaskEnqueuer hands replaced objects to the worker.
type MediaTaskEnqueuer interface {
	EnqueueDeleteCategoryMedia(ctx context.Context, payload shared.DeleteCategoryMediaPayload) error
}

type mediaService struct {
	tx     repository.TxRunner
	store  ObjectStore
	images ImageFitter
	tasks  MediaTaskEnqueuer
	cache  readCache
}

func NewMediaService(
	tx repository.TxRunner,
	store ObjectStore,
	images ImageFitter,
	tasks MediaTaskEnqueuer,
	c cache.Cache,
) MediaService {
	return &mediaService{
		tx:     tx,
		store:  store,
		images: images,
		tasks:  tasks,
		cache:  readCache{cache: c},
	}
}

// Upload stores a new image or icon for category id and returns its URL.
// The object it replaces is deleted asynchronously.
func (s *mediaService) Upload(ctx context.Context, id int64, kind MediaKind, data []byte) (string, error) {
	// ========== STEP 1: Validate and scale ==========
	if err := s.images.ValidateImage(data); err != nil {
		return "", model.ErrInvalidMedia.WithMessage("%s", err.Error())
	}
	scaled, err := s.images.Fit(data, kind.Size())
	if err != nil {
		return "", model.ErrInvalidMedia.WithMessage("%s", err.Error())
	}

	// ========== STEP 2: Upload the new object ==========
	key := fmt.Sprintf("categories/%d/%s-%s.jpg", id, kind, uuid.NewString())
	url, err := s.store.Upload(ctx, key, scaled, "image/jpeg")
	if err != nil {
		return "", model.NewStorageError("upload category media", err)
	}

	// ========== STEP 3: Point the category at it ==========
	var previous *string
	err = s.tx.WithinTx(ctx, func(repo repository.Repository) error {
		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return model.ErrNotFound
		}

		update := model.CategoryUpdate{}
		if kind == MediaIcon {
			previous = current.Icon
			update.Icon = model.Some(url)
		} else {
			previous = current.Image
			update.Image = model.Some(url)
		}

		affected, err := repo.Update(ctx, id, update)
		if err != nil {
			return err
		}
		if affected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove orphaned category media")
		}
		return "", model.NewStorageError("attach category media", err)
	}

	s.cache.invalidate(ctx)

	// ========== STEP 4: Schedule cleanup of the replaced object ==========
	if previous != nil {
		s.scheduleCleanup(ctx, id, *previous)
	}

	log.Info().
		Int64("category_id", id).
		Str("kind", string(kind)).
		Str("key", key).
		Msg("Category media uploaded")

	return url, nil
}

// scheduleCleanup enqueues deletion of ref when it points into our bucket.
// Enqueue failures leave an orphaned object and are only logged.
func (s *mediaService) scheduleCleanup(ctx context.Context, id int64, ref string) {
	oldKey, err := s.store.KeyFromURL(ref)
	if err != nil {
		return
	}
	payload := shared.DeleteCategoryMediaPayload{CategoryID: id, ObjectKey: oldKey}
	if err := s.tasks.EnqueueDeleteCategoryMedia(ctx, payload); err != nil {
		log.Warn().Err(err).Int64("category_id", id).Str("key", oldKey).Msg("Failed to enqueue media cleanup")
	}
}

func (s *mediaService) DeleteObject(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return model.NewStorageError("delete category media", err)
	}
	return nil
}
