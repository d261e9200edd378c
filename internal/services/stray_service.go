package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/geo"
	"github.com/straytracker/stray-tracker-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultRadiusKm is the nearby-search radius when the caller gives none.
const DefaultRadiusKm = 5.0

type StrayService struct {
	db *gorm.DB
}

func NewStrayService(db *gorm.DB) *StrayService {
	return &StrayService{db: db}
}

type nearbyRow struct {
	StrayID    uint
	SightingID uint
	DistanceKm float64
}

// latestSightingSQL picks each stray's single most recent sighting. Ties on
// sighting_time resolve to the highest id, so the winner is deterministic.
const latestSightingSQL = `
SELECT DISTINCT ON (stray_id) id, stray_id, lat, lng
FROM sightings
ORDER BY stray_id, sighting_time DESC, id DESC`

// FindStraysWithinRadius returns the strays whose most recent sighting lies
// strictly within radiusKm of center, closest first. A stray that was seen
// nearby last month but elsewhere yesterday is not "nearby": only the latest
// sighting counts. Each result carries exactly that sighting, its reporter,
// and at most the latest photo.
func (s *StrayService) FindStraysWithinRadius(ctx context.Context, center geo.Point, radiusKm float64, page dto.PageParams) ([]dto.NearbyStray, error) {
	if !geo.ValidLat(center.Lat) || !geo.ValidLng(center.Lng) {
		return nil, fmt.Errorf("%w: center out of range", ErrValidation)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrValidation)
	}
	page = page.Normalize()

	minLat, maxLat, minLng, maxLng := geo.BoundingBox(center, radiusKm)

	query := fmt.Sprintf(`
SELECT * FROM (
	SELECT ls.stray_id, ls.id AS sighting_id, %s AS distance_km
	FROM (%s) ls
	WHERE ls.lat BETWEEN ? AND ? AND ls.lng BETWEEN ? AND ?
) d
WHERE d.distance_km < ?
ORDER BY d.distance_km ASC
LIMIT ? OFFSET ?`, geo.HaversineSQL("ls.lat", "ls.lng"), latestSightingSQL)

	var rows []nearbyRow
	err := s.db.WithContext(ctx).Raw(query,
		center.Lat, center.Lng, center.Lat,
		minLat, maxLat, minLng, maxLng,
		radiusKm,
		page.Limit, page.Offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("nearby strays query: %w", err)
	}
	if len(rows) == 0 {
		return []dto.NearbyStray{}, nil
	}

	strayIDs := make([]uint, 0, len(rows))
	sightingIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		strayIDs = append(strayIDs, r.StrayID)
		sightingIDs = append(sightingIDs, r.SightingID)
	}

	var strays []models.Stray
	if err := s.db.WithContext(ctx).Find(&strays, strayIDs).Error; err != nil {
		return nil, fmt.Errorf("load nearby strays: %w", err)
	}
	strayByID := make(map[uint]*models.Stray, len(strays))
	for i := range strays {
		strayByID[strays[i].ID] = &strays[i]
	}

	var sightings []models.Sighting
	if err := s.db.WithContext(ctx).Preload("User").Find(&sightings, sightingIDs).Error; err != nil {
		return nil, fmt.Errorf("load nearby sightings: %w", err)
	}
	sightingByID := make(map[uint]models.Sighting, len(sightings))
	for _, sg := range sightings {
		sightingByID[sg.ID] = sg
	}

	// At most one photo per sighting: the most recently uploaded.
	var photos []models.SightingPhoto
	err = s.db.WithContext(ctx).Raw(`
SELECT DISTINCT ON (sighting_id) *
FROM sighting_photos
WHERE sighting_id IN ?
ORDER BY sighting_id, created_at DESC, id DESC`, sightingIDs).Scan(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("load sighting photos: %w", err)
	}
	photoBySighting := make(map[uint]models.SightingPhoto, len(photos))
	for _, p := range photos {
		photoBySighting[p.SightingID] = p
	}

	results := make([]dto.NearbyStray, 0, len(rows))
	for _, r := range rows {
		stray, ok := strayByID[r.StrayID]
		if !ok {
			continue
		}
		sighting, ok := sightingByID[r.SightingID]
		if !ok {
			continue
		}
		if photo, ok := photoBySighting[r.SightingID]; ok {
			sighting.Photos = []models.SightingPhoto{photo}
		}
		stray.Sightings = []models.Sighting{sighting}
		results = append(results, dto.NearbyStray{Stray: stray, DistanceKm: r.DistanceKm})
	}
	return results, nil
}

// FindSightingsWithinRadius returns every sighting within radiusKm of center,
// closest first, no per-stray collapsing. For list views that want the full
// observation history of an area.
func (s *StrayService) FindSightingsWithinRadius(ctx context.Context, center geo.Point, radiusKm float64, page dto.PageParams) ([]dto.NearbySighting, error) {
	if !geo.ValidLat(center.Lat) || !geo.ValidLng(center.Lng) {
		return nil, fmt.Errorf("%w: center out of range", ErrValidation)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrValidation)
	}
	page = page.Normalize()

	minLat, maxLat, minLng, maxLng := geo.BoundingBox(center, radiusKm)

	query := fmt.Sprintf(`
SELECT * FROM (
	SELECT s.id AS sighting_id, s.stray_id, %s AS distance_km
	FROM sightings s
	WHERE s.lat BETWEEN ? AND ? AND s.lng BETWEEN ? AND ?
) d
WHERE d.distance_km < ?
ORDER BY d.distance_km ASC
LIMIT ? OFFSET ?`, geo.HaversineSQL("s.lat", "s.lng"))

	var rows []nearbyRow
	err := s.db.WithContext(ctx).Raw(query,
		center.Lat, center.Lng, center.Lat,
		minLat, maxLat, minLng, maxLng,
		radiusKm,
		page.Limit, page.Offset,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("nearby sightings query: %w", err)
	}
	if len(rows) == 0 {
		return []dto.NearbySighting{}, nil
	}

	sightingIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		sightingIDs = append(sightingIDs, r.SightingID)
	}

	var sightings []models.Sighting
	if err := s.db.WithContext(ctx).Preload("Stray").Preload("User").Find(&sightings, sightingIDs).Error; err != nil {
		return nil, fmt.Errorf("load sightings: %w", err)
	}
	byID := make(map[uint]*models.Sighting, len(sightings))
	for i := range sightings {
		byID[sightings[i].ID] = &sightings[i]
	}

	results := make([]dto.NearbySighting, 0, len(rows))
	for _, r := range rows {
		if sg, ok := byID[r.SightingID]; ok {
			results = append(results, dto.NearbySighting{Sighting: sg, DistanceKm: r.DistanceKm})
		}
	}
	return results, nil
}

// Search lists strays matched by species/status/size filters and an optional
// substring across name, description, colors and markings. No geo component.
func (s *StrayService) Search(ctx context.Context, filter dto.StrayFilter) (*dto.StrayListResponse, error) {
	if filter.Species != "" && !models.ValidSpecies(filter.Species) {
		return nil, fmt.Errorf("%w: unknown species %q", ErrValidation, filter.Species)
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
	}
	if filter.Size != "" && !models.ValidSize(filter.Size) {
		return nil, fmt.Errorf("%w: unknown size %q", ErrValidation, filter.Size)
	}
	page := filter.Page.Normalize()

	q := s.db.WithContext(ctx).Model(&models.Stray{})
	if filter.Species != "" {
		q = q.Where("species = ?", filter.Species)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Size != "" {
		q = q.Where("size = ?", filter.Size)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR colors ILIKE ? OR markings ILIKE ?", like, like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count strays: %w", err)
	}

	var strays []models.Stray
	if err := q.Order("updated_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&strays).Error; err != nil {
		return nil, fmt.Errorf("list strays: %w", err)
	}

	return &dto.StrayListResponse{
		Strays: strays,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

// Get loads one stray with its sightings newest-first.
func (s *StrayService) Get(ctx context.Context, strayID uint) (*models.Stray, error) {
	var stray models.Stray
	err := s.db.WithContext(ctx).
		Preload("Sightings", func(db *gorm.DB) *gorm.DB {
			return db.Order("sighting_time DESC, id DESC")
		}).
		Preload("Sightings.User").
		Preload("Sightings.Photos").
		Preload("Caretaker").
		First(&stray, strayID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStrayNotFound
		}
		return nil, fmt.Errorf("load stray: %w", err)
	}
	return &stray, nil
}

// Update applies a partial edit to a stray. Species and size can change but
// never become empty; status transitions are free-form within the enum.
func (s *StrayService) Update(ctx context.Context, strayID uint, req *dto.UpdateStrayRequest) (*models.Stray, error) {
	var stray models.Stray
	if err := s.db.WithContext(ctx).First(&stray, strayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStrayNotFound
		}
		return nil, fmt.Errorf("load stray: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Species != nil {
		if !models.ValidSpecies(*req.Species) {
			return nil, fmt.Errorf("%w: unknown species %q", ErrValidation, *req.Species)
		}
		updates["species"] = *req.Species
	}
	if req.Size != nil {
		if !models.ValidSize(*req.Size) {
			return nil, fmt.Errorf("%w: unknown size %q", ErrValidation, *req.Size)
		}
		updates["size"] = *req.Size
	}
	if req.AgeBracket != nil {
		if *req.AgeBracket != "" && !models.ValidAge(*req.AgeBracket) {
			return nil, fmt.Errorf("%w: unknown age bracket %q", ErrValidation, *req.AgeBracket)
		}
		updates["age_bracket"] = *req.AgeBracket
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Breed != nil {
		updates["breed"] = *req.Breed
	}
	if req.Colors != nil {
		updates["colors"] = *req.Colors
	}
	if req.Markings != nil {
		updates["markings"] = *req.Markings
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.HealthNotes != nil {
		updates["health_notes"] = *req.HealthNotes
	}
	if req.CareRequirements != nil {
		updates["care_requirements"] = *req.CareRequirements
	}
	if req.Location != nil {
		if !geo.ValidLat(req.Location.Lat) || !geo.ValidLng(req.Location.Lng) {
			return nil, fmt.Errorf("%w: location out of range", ErrValidation)
		}
		updates["location"] = datatypes.NewJSONType(*req.Location)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&stray).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update stray: %w", err)
		}
	}

	var updated models.Stray
	if err := s.db.WithContext(ctx).First(&updated, strayID).Error; err != nil {
		return nil, fmt.Errorf("reload stray: %w", err)
	}
	return &updated, nil
}
