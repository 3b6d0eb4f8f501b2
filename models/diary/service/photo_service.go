package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PhotoStorage is the object store behind diary photos.
type PhotoStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Options tunes photo uploads and share links.
type Options struct {
	MaxUploadBytes int64
	PhotoURLTTL    time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = 10 << 20
	}
	if o.PhotoURLTTL <= 0 {
		o.PhotoURLTTL = 15 * time.Minute
	}
	return o
}

// sniffLen matches what mimetype reads by default.
const sniffLen = 3072

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
	"image/gif":  true,
}

func (s *DiaryService) photosEnabled() error {
	if s.photos == nil {
		return apperrors.New(apperrors.ServerError, "Photo storage is not configured", "")
	}
	return nil
}

// UploadPhoto stores an image for one trip day. The content type is taken
// from the bytes themselves, not from the client.
func (s *DiaryService) UploadPhoto(ctx context.Context, userID, tripID string, day int, body io.Reader, size int64) (*types.DiaryPhoto, error) {
	log := logger.GetLogger()
	if err := s.photosEnabled(); err != nil {
		return nil, err
	}
	if day < 1 {
		return nil, apperrors.ValidationFailed("Day number must be at least 1", "")
	}
	if size <= 0 {
		return nil, apperrors.ValidationFailed("Photo is empty", "")
	}
	if size > s.opts.MaxUploadBytes {
		return nil, apperrors.ValidationFailed("Photo is too large", fmt.Sprintf("limit is %d bytes", s.opts.MaxUploadBytes))
	}
	trip, err := s.trips.FetchTrip(ctx, userID, tripID, false)
	if err != nil {
		return nil, err
	}
	if err := checkDayInTrip(trip, day); err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperrors.ValidationFailed("Failed to read photo", err.Error())
	}
	head = head[:n]
	mtype := mimetype.Detect(head)
	contentType := mtype.String()
	if !allowedPhotoTypes[contentType] {
		return nil, apperrors.ValidationFailed("Unsupported photo type", contentType)
	}

	photo := &types.DiaryPhoto{
		ID:          uuid.NewString(),
		TripID:      tripID,
		DayNumber:   day,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  userID,
	}
	photo.ObjectKey = fmt.Sprintf("trips/%s/days/%d/%s%s", tripID, day, photo.ID, mtype.Extension())

	reader := io.MultiReader(bytes.NewReader(head), io.LimitReader(body, size-int64(n)))
	if err := s.photos.Put(ctx, photo.ObjectKey, contentType, reader, size); err != nil {
		log.Errorw("Failed to upload photo", "tripID", tripID, "day", day, "error", err)
		return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to store photo")
	}
	if err := s.diary.CreatePhoto(ctx, photo); err != nil {
		if delErr := s.photos.Delete(ctx, photo.ObjectKey); delErr != nil {
			log.Warnw("Failed to remove orphaned photo", "key", photo.ObjectKey, "error", delErr)
		}
		return nil, storeError(err, "Trip", tripID)
	}

	if url, err := s.photos.PresignGet(ctx, photo.ObjectKey, s.opts.PhotoURLTTL); err == nil {
		photo.URL = url
	}
	log.Infow("Diary photo uploaded", "tripID", tripID, "day", day, "photoID", photo.ID, "contentType", contentType)
	return photo, nil
}

// ListPhotos returns a day's photos with short-lived download URLs.
func (s *DiaryService) ListPhotos(ctx context.Context, userID, tripID string, day int) ([]types.DiaryPhoto, error) {
	if err := s.photosEnabled(); err != nil {
		return nil, err
	}
	if _, err := s.trips.FetchTrip(ctx, userID, tripID, false); err != nil {
		return nil, err
	}
	photos, err := s.diary.ListPhotos(ctx, tripID, day)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	for i := range photos {
		url, err := s.photos.PresignGet(ctx, photos[i].ObjectKey, s.opts.PhotoURLTTL)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ServerError, "Failed to sign photo URL")
		}
		photos[i].URL = url
	}
	if photos == nil {
		photos = []types.DiaryPhoto{}
	}
	return photos, nil
}
