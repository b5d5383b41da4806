package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/visitor-registration-backend/internal/app/model"
	apperrors "github.com/ikkim/visitor-registration-backend/internal/errors"
	"github.com/ikkim/visitor-registration-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDuplicateIdentificationNumber = errors.New("identification number already registered")
	ErrDatabaseUnavailable           = errors.New("database unavailable")
)

type VisitorRepository interface {
	// FindByIdentificationNumber returns gorm.ErrRecordNotFound when no visitor matches.
	FindByIdentificationNumber(ctx context.Context, number string) (*model.Visitor, error)
	// Create inserts the visitor in its own transaction. A unique-constraint
	// violation is returned wrapped in ErrDuplicateIdentificationNumber.
	Create(ctx context.Context, visitor *model.Visitor) error
	CountByIdentificationNumber(ctx context.Context, number string) (int64, error)
	FindAll(ctx context.Context) ([]model.Visitor, error)
	Ping(ctx context.Context) error
}

type visitorRepository struct {
	db *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) VisitorRepository {
	return &visitorRepository{db: db}
}

func (r *visitorRepository) FindByIdentificationNumber(ctx context.Context, number string) (*model.Visitor, error) {
	logger.Debug("Finding visitor by identification number in database", map[string]interface{}{
		"identification_number": number,
	})

	var visitor model.Visitor
	err := r.db.WithContext(ctx).
		Where("identification_number = ?", number).
		First(&visitor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("No visitor with identification number in database", map[string]interface{}{
				"identification_number": number,
			})
			return nil, err
		}
		logger.Error("Failed to find visitor by identification number in database", err, map[string]interface{}{
			"identification_number": number,
		})
		return nil, err
	}

	logger.Debug("Visitor found by identification number in database", map[string]interface{}{
		"visitor_id":            visitor.ID,
		"identification_number": number,
	})
	return &visitor, nil
}

func (r *visitorRepository) Create(ctx context.Context, visitor *model.Visitor) error {
	logger.Debug("Creating visitor in database", map[string]interface{}{
		"identification_number": visitor.IdentificationNumber,
		"visitor_type":          visitor.VisitorType,
	})

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction for visitor creation", tx.Error, map[string]interface{}{
			"identification_number": visitor.IdentificationNumber,
		})
		return tx.Error
	}

	if err := tx.Create(visitor).Error; err != nil {
		tx.Rollback()
		return r.insertError(visitor, err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return r.insertError(visitor, err)
	}

	logger.Debug("Visitor created in database", map[string]interface{}{
		"visitor_id":            visitor.ID,
		"identification_number": visitor.IdentificationNumber,
	})
	return nil
}

func (r *visitorRepository) insertError(visitor *model.Visitor, err error) error {
	if apperrors.IsDuplicateKey(err) {
		logger.Warn("Unique constraint rejected visitor insert", map[string]interface{}{
			"identification_number": visitor.IdentificationNumber,
			"error":                 err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrDuplicateIdentificationNumber, err)
	}

	logger.Error("Failed to create visitor in database", err, map[string]interface{}{
		"identification_number": visitor.IdentificationNumber,
	})
	return err
}

func (r *visitorRepository) CountByIdentificationNumber(ctx context.Context, number string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Where("identification_number = ?", number).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count visitors by identification number", err, map[string]interface{}{
			"identification_number": number,
		})
		return 0, err
	}
	return count, nil
}

func (r *visitorRepository) FindAll(ctx context.Context) ([]model.Visitor, error) {
	logger.Debug("Finding all visitors in database")

	var visitors []model.Visitor
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&visitors).Error; err != nil {
		logger.Error("Failed to find visitors in database", err)
		return nil, err
	}

	logger.Debug("Visitors found in database", map[string]interface{}{
		"count": len(visitors),
	})
	return visitors, nil
}

func (r *visitorRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// unavailableVisitorRepository stands in when no database handle could be opened,
// so the process can still serve health checks and clean 500s.
type unavailableVisitorRepository struct {
	cause error
}

func NewUnavailableVisitorRepository(cause error) VisitorRepository {
	return &unavailableVisitorRepository{cause: cause}
}

func (r *unavailableVisitorRepository) err() error {
	return fmt.Errorf("%w: %w", ErrDatabaseUnavailable, r.cause)
}

func (r *unavailableVisitorRepository) FindByIdentificationNumber(context.Context, string) (*model.Visitor, error) {
	return nil, r.err()
}

func (r *unavailableVisitorRepository) Create(context.Context, *model.Visitor) error {
	return r.err()
}

func (r *unavailableVisitorRepository) CountByIdentificationNumber(context.Context, string) (int64, error) {
	return 0, r.err()
}

func (r *unavailableVisitorRepository) FindAll(context.Context) ([]model.Visitor, error) {
	return nil, r.err()
}

func (r *unavailableVisitorRepository) Ping(context.Context) error {
	return r.err()
}
