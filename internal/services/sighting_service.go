package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/geo"
	"github.com/straytracker/stray-tracker-backend/internal/models"
	"github.com/straytracker/stray-tracker-backend/internal/storage"
	"github.com/straytracker/stray-tracker-backend/internal/uploads"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrValidation wraps all malformed-input failures. Raised before any write.
	ErrValidation = errors.New("validation failed")

	ErrStrayNotFound    = errors.New("stray not found")
	ErrSightingNotFound = errors.New("sighting not found")
	ErrNotOwner         = errors.New("only the reporter or an admin can delete a sighting")
)

// Photo finalization outcome statuses.
const (
	PhotoAttached = "attached"
	PhotoSkipped  = "skipped"
	PhotoFailed   = "failed"
)

type SightingService struct {
	db        *gorm.DB
	store     storage.ObjectStore
	publicURL string
}

func NewSightingService(db *gorm.DB, store storage.ObjectStore, publicURL string) *SightingService {
	return &SightingService{db: db, store: store, publicURL: publicURL}
}

// validateCreate runs every input check before anything is written. A zero
// StrayID means a new stray will be created, which requires species and size.
func validateCreate(req *dto.CreateSightingRequest, now time.Time) error {
	if !geo.ValidLat(req.Lat) {
		return fmt.Errorf("%w: lat must be within [-90, 90]", ErrValidation)
	}
	if !geo.ValidLng(req.Lng) {
		return fmt.Errorf("%w: lng must be within [-180, 180]", ErrValidation)
	}
	if req.SightingTime != nil && req.SightingTime.After(now) {
		return fmt.Errorf("%w: sighting_time cannot be in the future", ErrValidation)
	}
	if req.StrayID == 0 {
		if !models.ValidSpecies(req.Species) {
			return fmt.Errorf("%w: species is required for a new stray (cat, dog or other)", ErrValidation)
		}
		if !models.ValidSize(req.AnimalSize) {
			return fmt.Errorf("%w: animal_size is required for a new stray (small, medium or large)", ErrValidation)
		}
	}
	return nil
}

// Create validates and persists a sighting report. When no stray is
// referenced, a new stray is created first with status "spotted". Staged
// photo keys are finalized afterwards; a missing or broken key skips that
// photo and never fails the sighting.
func (s *SightingService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateSightingRequest) (*dto.CreateSightingResponse, error) {
	now := time.Now()
	if err := validateCreate(req, now); err != nil {
		return nil, err
	}

	var stray models.Stray
	if req.StrayID != 0 {
		if err := s.db.First(&stray, req.StrayID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStrayNotFound
			}
			return nil, fmt.Errorf("failed to load stray: %w", err)
		}
	} else {
		loc := datatypes.NewJSONType(models.Location{Lat: req.Lat, Lng: req.Lng})
		stray = models.Stray{
			Name:     req.StrayName,
			Species:  req.Species,
			Size:     req.AnimalSize,
			Status:   "spotted",
			Location: &loc,
		}
		if err := s.db.Create(&stray).Error; err != nil {
			return nil, fmt.Errorf("failed to create stray: %w", err)
		}
	}

	sightingTime := now
	if req.SightingTime != nil {
		sightingTime = *req.SightingTime
	}

	sighting := models.Sighting{
		StrayID:      stray.ID,
		UserID:       userID,
		Lat:          req.Lat,
		Lng:          req.Lng,
		Description:  req.Description,
		SightingTime: sightingTime,
	}
	if req.Location != nil {
		sighting.Address1 = req.Location.Address1
		sighting.City = req.Location.City
		sighting.Postcode = req.Location.Postcode
		sighting.Country = req.Location.Country
	}
	if err := s.db.Create(&sighting).Error; err != nil {
		return nil, fmt.Errorf("failed to create sighting: %w", err)
	}

	outcomes := s.finalizePhotos(ctx, &sighting, userID, req.ImageKeys)

	var hydrated models.Sighting
	if err := s.db.Preload("Stray").Preload("User").Preload("Photos").First(&hydrated, sighting.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload sighting: %w", err)
	}

	return &dto.CreateSightingResponse{Sighting: &hydrated, Photos: outcomes}, nil
}

// finalizePhotos turns staged keys into permanent photo rows: resolve every
// key against the object store, then batch-insert whatever survived.
func (s *SightingService) finalizePhotos(ctx context.Context, sighting *models.Sighting, userID uuid.UUID, keys []string) []dto.PhotoOutcome {
	if len(keys) == 0 {
		return nil
	}

	photos, outcomes := resolveStagedPhotos(ctx, s.store, s.publicURL, sighting.ID, userID, keys)

	if len(photos) > 0 {
		if err := s.db.Create(&photos).Error; err != nil {
			slog.Error("photo batch insert failed", "sighting_id", sighting.ID, "count", len(photos), "error", err)
			for i := range outcomes {
				if outcomes[i].Status == PhotoAttached {
					outcomes[i].Status = PhotoFailed
					outcomes[i].Reason = "database insert failed"
				}
			}
		}
	}

	return outcomes
}

// resolveStagedPhotos probes each staged key and builds the photo rows for
// the ones that exist. Absent keys are skipped (an upload may have expired or
// never finished) and never abort the batch. Surviving objects are copied out
// of the staging prefix so the periodic cleanup can never reclaim a finalized
// photo.
func resolveStagedPhotos(ctx context.Context, store storage.ObjectStore, publicURL string, sightingID uint, userID uuid.UUID, keys []string) ([]models.SightingPhoto, []dto.PhotoOutcome) {
	outcomes := make([]dto.PhotoOutcome, 0, len(keys))
	photos := make([]models.SightingPhoto, 0, len(keys))

	for _, key := range keys {
		info, err := store.Stat(ctx, key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				outcomes = append(outcomes, dto.PhotoOutcome{Key: key, Status: PhotoSkipped, Reason: "staged object not found"})
				continue
			}
			outcomes = append(outcomes, dto.PhotoOutcome{Key: key, Status: PhotoFailed, Reason: err.Error()})
			slog.Error("photo probe failed", "key", key, "sighting_id", sightingID, "error", err)
			continue
		}

		filename := uploads.StagedFilename(key)
		permKey := uploads.PermanentKey(sightingID, filename)
		if err := store.Copy(ctx, key, permKey); err != nil {
			outcomes = append(outcomes, dto.PhotoOutcome{Key: key, Status: PhotoFailed, Reason: err.Error()})
			slog.Error("photo copy failed", "key", key, "sighting_id", sightingID, "error", err)
			continue
		}

		photo := models.SightingPhoto{
			SightingID: sightingID,
			UserID:     userID,
			Key:        permKey,
			URL:        publicURL + "/" + permKey,
			Filename:   filename,
			Size:       info.Size,
			MimeType:   info.ContentType,
		}

		// The thumbnail variant is best effort; a sighting photo without a
		// thumb still renders from the full image.
		thumbStaged := uploads.ThumbKey(key)
		if _, err := store.Stat(ctx, thumbStaged); err == nil {
			permThumb := uploads.ThumbKey(permKey)
			if err := store.Copy(ctx, thumbStaged, permThumb); err == nil {
				photo.ThumbKey = permThumb
				photo.ThumbURL = publicURL + "/" + permThumb
			}
		}

		photos = append(photos, photo)
		outcomes = append(outcomes, dto.PhotoOutcome{Key: key, Status: PhotoAttached})
	}

	return photos, outcomes
}

// Delete removes a sighting with everything hanging off it. Blob deletion is
// attempted before the rows go away: a crash mid-delete leaves orphaned blobs
// (reclaimable later) rather than photo rows pointing at nothing.
func (s *SightingService) Delete(ctx context.Context, sightingID uint, callerID uuid.UUID, callerRole string) (*models.Sighting, error) {
	var sighting models.Sighting
	if err := s.db.Preload("Photos").First(&sighting, sightingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSightingNotFound
		}
		return nil, fmt.Errorf("failed to load sighting: %w", err)
	}

	if sighting.UserID != callerID && !models.RoleAtLeast(callerRole, models.RoleAdmin) {
		return nil, ErrNotOwner
	}

	for _, photo := range sighting.Photos {
		if err := s.store.Delete(ctx, photo.Key); err != nil {
			slog.Error("photo blob delete failed", "key", photo.Key, "sighting_id", sightingID, "error", err)
		}
		if photo.ThumbKey != "" {
			if err := s.store.Delete(ctx, photo.ThumbKey); err != nil {
				slog.Error("thumb blob delete failed", "key", photo.ThumbKey, "sighting_id", sightingID, "error", err)
			}
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sighting_id = ?", sightingID).Delete(&models.SightingPhoto{}).Error; err != nil {
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.CommunityPost{}).Where("sighting_id = ?", sightingID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Unscoped().Delete(&models.PostComment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostReaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Unscoped().Delete(&models.CommunityPost{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Sighting{}, sightingID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete sighting: %w", err)
	}

	return &sighting, nil
}

// Update applies a partial edit. Rebinding the sighting to another stray
// requires that stray to exist.
func (s *SightingService) Update(ctx context.Context, sightingID uint, req *dto.UpdateSightingRequest) (*models.Sighting, error) {
	var sighting models.Sighting
	if err := s.db.First(&sighting, sightingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSightingNotFound
		}
		return nil, fmt.Errorf("failed to load sighting: %w", err)
	}

	updates := map[string]interface{}{}
	if req.StrayID != nil {
		var stray models.Stray
		if err := s.db.First(&stray, *req.StrayID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStrayNotFound
			}
			return nil, fmt.Errorf("failed to load stray: %w", err)
		}
		updates["stray_id"] = *req.StrayID
	}
	if req.Lat != nil {
		if !geo.ValidLat(*req.Lat) {
			return nil, fmt.Errorf("%w: lat must be within [-90, 90]", ErrValidation)
		}
		updates["lat"] = *req.Lat
	}
	if req.Lng != nil {
		if !geo.ValidLng(*req.Lng) {
			return nil, fmt.Errorf("%w: lng must be within [-180, 180]", ErrValidation)
		}
		updates["lng"] = *req.Lng
	}
	if req.SightingTime != nil {
		if req.SightingTime.After(time.Now()) {
			return nil, fmt.Errorf("%w: sighting_time cannot be in the future", ErrValidation)
		}
		updates["sighting_time"] = *req.SightingTime
	}
	if req.Address1 != nil {
		updates["address1"] = *req.Address1
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Postcode != nil {
		updates["postcode"] = *req.Postcode
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(&sighting).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update sighting: %w", err)
		}
	}

	var updated models.Sighting
	if err := s.db.Preload("Stray").Preload("User").Preload("Photos").First(&updated, sightingID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload sighting: %w", err)
	}
	return &updated, nil
}
