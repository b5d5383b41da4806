package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ikkim/visitor-registration-backend/internal/app/model"
	"github.com/ikkim/visitor-registration-backend/internal/app/repository"
	apperrors "github.com/ikkim/visitor-registration-backend/internal/errors"
	"github.com/ikkim/visitor-registration-backend/pkg/logger"
	"gorm.io/gorm"
)

// RegisterVisitorInput is the candidate record as received from the client.
// Empty strings mean the field was absent.
type RegisterVisitorInput struct {
	IdentificationNumber string
	IdentificationType   string
	FirstNames           string
	LastNames            string
	VisitorType          string
	RepresentedCompany   string
}

type VisitorService interface {
	// RegisterVisitor validates input, rejects duplicates and stores a new visitor.
	// Failures are *apperrors.AppError values of kind Validation, Conflict or Internal.
	RegisterVisitor(ctx context.Context, input RegisterVisitorInput) (*model.Visitor, error)
	CheckHealth(ctx context.Context) error
}

type visitorService struct {
	visitorRepo repository.VisitorRepository
	now         func() time.Time
}

func NewVisitorService(visitorRepo repository.VisitorRepository) VisitorService {
	return &visitorService{
		visitorRepo: visitorRepo,
		now:         time.Now,
	}
}

type requiredField struct {
	name  string
	value string
}

type limitedField struct {
	name  string
	value string
	max   int
}

func (s *visitorService) RegisterVisitor(ctx context.Context, input RegisterVisitorInput) (*model.Visitor, error) {
	input = normalize(input)

	logger.Info("Registering visitor", map[string]interface{}{
		"identification_number": input.IdentificationNumber,
		"visitor_type":          input.VisitorType,
	})

	if err := validate(input); err != nil {
		logger.Warn("Visitor registration rejected", map[string]interface{}{
			"identification_number": input.IdentificationNumber,
			"field":                 err.Field,
			"code":                  err.Code,
		})
		return nil, err
	}

	existing, err := s.visitorRepo.FindByIdentificationNumber(ctx, input.IdentificationNumber)
	switch {
	case err == nil && existing != nil:
		logger.Warn("Visitor already registered", map[string]interface{}{
			"identification_number": input.IdentificationNumber,
			"visitor_id":            existing.ID,
		})
		return nil, duplicateError(input.IdentificationNumber, nil)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logger.Error("Failed to check existing visitor", err, map[string]interface{}{
			"identification_number": input.IdentificationNumber,
		})
		return nil, apperrors.NewInternal(apperrors.InternalDatabaseError, "Failed to register visitor", err)
	}

	visitor := &model.Visitor{
		IdentificationNumber: input.IdentificationNumber,
		IdentificationType:   input.IdentificationType,
		FirstNames:           input.FirstNames,
		LastNames:            input.LastNames,
		VisitorType:          model.VisitorType(input.VisitorType),
		RegisteredAt:         s.now().UTC(),
	}
	if input.RepresentedCompany != "" {
		company := input.RepresentedCompany
		visitor.RepresentedCompany = &company
	}

	if err := s.visitorRepo.Create(ctx, visitor); err != nil {
		// A concurrent request can pass the pre-check too; the unique index decides.
		if errors.Is(err, repository.ErrDuplicateIdentificationNumber) {
			logger.Warn("Visitor insert lost uniqueness race", map[string]interface{}{
				"identification_number": input.IdentificationNumber,
			})
			return nil, duplicateError(input.IdentificationNumber, err)
		}
		logger.Error("Failed to create visitor", err, map[string]interface{}{
			"identification_number": input.IdentificationNumber,
		})
		return nil, apperrors.NewInternal(apperrors.InternalDatabaseError, "Failed to register visitor", err)
	}

	logger.Info("Visitor registered successfully", map[string]interface{}{
		"visitor_id":            visitor.ID,
		"identification_number": visitor.IdentificationNumber,
	})
	return visitor, nil
}

func (s *visitorService) CheckHealth(ctx context.Context) error {
	if err := s.visitorRepo.Ping(ctx); err != nil {
		logger.Warn("Database health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func normalize(input RegisterVisitorInput) RegisterVisitorInput {
	return RegisterVisitorInput{
		IdentificationNumber: strings.TrimSpace(input.IdentificationNumber),
		IdentificationType:   strings.TrimSpace(input.IdentificationType),
		FirstNames:           strings.TrimSpace(input.FirstNames),
		LastNames:            strings.TrimSpace(input.LastNames),
		VisitorType:          strings.TrimSpace(input.VisitorType),
		RepresentedCompany:   strings.TrimSpace(input.RepresentedCompany),
	}
}

// validate applies the checks in a fixed order and reports the first failure.
func validate(input RegisterVisitorInput) *apperrors.AppError {
	required := []requiredField{
		{"identification_number", input.IdentificationNumber},
		{"identification_type", input.IdentificationType},
		{"first_names", input.FirstNames},
		{"last_names", input.LastNames},
		{"visitor_type", input.VisitorType},
	}
	for _, f := range required {
		if f.value == "" {
			return apperrors.NewValidation(apperrors.ValidationRequired, f.name,
				fmt.Sprintf("Field %s is required", f.name))
		}
	}

	visitorType := model.VisitorType(input.VisitorType)
	if !visitorType.Valid() {
		return apperrors.NewValidation(apperrors.ValidationInvalidInput, "visitor_type",
			fmt.Sprintf("Field visitor_type must be '%s' or '%s'", model.VisitorTypeBusiness, model.VisitorTypePersonal))
	}

	if visitorType == model.VisitorTypeBusiness && input.RepresentedCompany == "" {
		return apperrors.NewValidation(apperrors.ValidationRequired, "represented_company",
			"Field represented_company is required for Business visitors")
	}

	limited := []limitedField{
		{"identification_number", input.IdentificationNumber, model.MaxIdentificationNumberLen},
		{"identification_type", input.IdentificationType, model.MaxIdentificationTypeLen},
		{"first_names", input.FirstNames, model.MaxNamesLen},
		{"last_names", input.LastNames, model.MaxNamesLen},
		{"represented_company", input.RepresentedCompany, model.MaxRepresentedCompanyLen},
	}
	for _, f := range limited {
		if utf8.RuneCountInString(f.value) > f.max {
			return apperrors.NewValidation(apperrors.ValidationTooLong, f.name,
				fmt.Sprintf("Field %s must be at most %d characters", f.name, f.max))
		}
	}

	return nil
}

func duplicateError(number string, cause error) *apperrors.AppError {
	return apperrors.NewConflict(apperrors.ResourceAlreadyExists,
		fmt.Sprintf("A visitor with identification number %s is already registered", number), cause)
}
