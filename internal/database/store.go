package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"train_schedule/internal/models"
)

// Store is the schedule's persistence layer. Every record passes through
// its model's BeforeSave validation on the way in.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// requireRow fails with ErrReferenceNotFound unless model has a live row with id.
func requireRow(tx *gorm.DB, model interface{}, name string, id uint) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrReferenceNotFound, name, id)
	}
	return nil
}

// requireUnused fails with ErrInUse if any live row of model has column = id.
func requireUnused(tx *gorm.DB, model interface{}, column string, id uint) error {
	var n int64
	if err := tx.Model(model).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d dependent rows", ErrInUse, n)
	}
	return nil
}

// deleteByID soft-deletes one row after checking nothing live points at it.
func (s *Store) deleteByID(ctx context.Context, model interface{}, id uint, dependent interface{}, column string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(model, id).Error; err != nil {
			return err
		}
		if dependent != nil {
			if err := requireUnused(tx, dependent, column, id); err != nil {
				return err
			}
		}
		return tx.Delete(model, id).Error
	})
	return translate(err, ErrInUse)
}

// --- Stations ---

func (s *Store) CreateStation(ctx context.Context, st *models.Station) error {
	return translate(s.db.WithContext(ctx).Create(st).Error, ErrReferenceNotFound)
}

// GetStation loads a station and its platforms in number order.
func (s *Store) GetStation(ctx context.Context, id uint) (*models.Station, error) {
	var st models.Station
	err := s.db.WithContext(ctx).
		Preload("Platforms", func(db *gorm.DB) *gorm.DB { return db.Order("platform_num") }).
		First(&st, id).Error
	if err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return &st, nil
}

// ListStations returns stations ordered by name, optionally only one city's.
func (s *Store) ListStations(ctx context.Context, city string) ([]models.Station, error) {
	q := s.db.WithContext(ctx).Order("name")
	if city != "" {
		q = q.Where("city = ?", city)
	}
	var stations []models.Station
	if err := q.Find(&stations).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return stations, nil
}

func (s *Store) UpdateStation(ctx context.Context, st *models.Station) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(st).Error, ErrReferenceNotFound)
}

// DeleteStation refuses while platforms still belong to the station.
func (s *Store) DeleteStation(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Station{}, id, &models.Platform{}, "station_id")
}

// --- Platforms ---

func (s *Store) CreatePlatform(ctx context.Context, p *models.Platform) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Station{}, "station", p.StationID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(p).Error
	})
	return translate(err, ErrReferenceNotFound)
}

func (s *Store) GetPlatform(ctx context.Context, id uint) (*models.Platform, error) {
	var p models.Platform
	if err := s.db.WithContext(ctx).Preload("Station").First(&p, id).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return &p, nil
}

// ListPlatforms returns all platforms, or one station's when stationID != 0.
func (s *Store) ListPlatforms(ctx context.Context, stationID uint) ([]models.Platform, error) {
	q := s.db.WithContext(ctx).Order("station_id").Order("platform_num")
	if stationID != 0 {
		q = q.Where("station_id = ?", stationID)
	}
	var platforms []models.Platform
	if err := q.Find(&platforms).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return platforms, nil
}

func (s *Store) UpdatePlatform(ctx context.Context, p *models.Platform) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Station{}, "station", p.StationID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(p).Error
	})
	return translate(err, ErrReferenceNotFound)
}

func (s *Store) DeletePlatform(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Platform{}, id, &models.Assignment{}, "platform_id")
}

// --- Trains ---

func (s *Store) CreateTrain(ctx context.Context, t *models.Train) error {
	return translate(s.db.WithContext(ctx).Create(t).Error, ErrReferenceNotFound)
}

func (s *Store) GetTrain(ctx context.Context, id uint) (*models.Train, error) {
	var t models.Train
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return &t, nil
}

// ListTrains returns trains by number, optionally of one service type.
func (s *Store) ListTrains(ctx context.Context, serviceType string) ([]models.Train, error) {
	q := s.db.WithContext(ctx).Order("train_num")
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}
	var trains []models.Train
	if err := q.Find(&trains).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return trains, nil
}

func (s *Store) UpdateTrain(ctx context.Context, t *models.Train) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error, ErrReferenceNotFound)
}

func (s *Store) DeleteTrain(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Train{}, id, &models.Assignment{}, "train_id")
}

// --- Assignments ---

// AssignmentFilter narrows ListAssignments. Zero values match everything.
// From/To select assignments whose window overlaps [From, To).
type AssignmentFilter struct {
	PlatformID uint
	TrainID    uint
	StationID  uint
	From       *time.Time
	To         *time.Time
}

func (s *Store) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAssignmentRefs(tx, a); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(a).Error
	})
	return translate(err, ErrReferenceNotFound)
}

func requireAssignmentRefs(tx *gorm.DB, a *models.Assignment) error {
	if err := requireRow(tx, &models.Train{}, "train", a.TrainID); err != nil {
		return err
	}
	return requireRow(tx, &models.Platform{}, "platform", a.PlatformID)
}

// GetAssignment loads an assignment with its train, platform and station.
func (s *Store) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var a models.Assignment
	err := s.db.WithContext(ctx).
		Preload("Train").
		Preload("Platform.Station").
		First(&a, id).Error
	if err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return &a, nil
}

// ListAssignments returns matching assignments ordered by arrival.
func (s *Store) ListAssignments(ctx context.Context, f AssignmentFilter) ([]models.Assignment, error) {
	q := s.db.WithContext(ctx).
		Preload("Train").
		Preload("Platform").
		Order("assignments.arrival_time").
		Order("assignments.id")
	if f.PlatformID != 0 {
		q = q.Where("assignments.platform_id = ?", f.PlatformID)
	}
	if f.TrainID != 0 {
		q = q.Where("assignments.train_id = ?", f.TrainID)
	}
	if f.StationID != 0 {
		q = q.Joins("JOIN platforms ON platforms.id = assignments.platform_id AND platforms.deleted_at IS NULL").
			Where("platforms.station_id = ?", f.StationID)
	}
	if f.From != nil {
		q = q.Where("assignments.departure_time > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("assignments.arrival_time < ?", *f.To)
	}

	var assignments []models.Assignment
	if err := q.Find(&assignments).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return assignments, nil
}

func (s *Store) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAssignmentRefs(tx, a); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(a).Error
	})
	return translate(err, ErrReferenceNotFound)
}

func (s *Store) DeleteAssignment(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Assignment{}, id, nil, "")
}

// PurgeDepartedBefore soft-deletes assignments that left before cutoff.
func (s *Store) PurgeDepartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("departure_time < ?", cutoff).
		Delete(&models.Assignment{})
	if res.Error != nil {
		return 0, translate(res.Error, ErrInUse)
	}
	return res.RowsAffected, nil
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, ErrReferenceNotFound)
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	return &u, nil
}
