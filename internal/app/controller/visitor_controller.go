package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/visitor-registration-backend/internal/app/service"
	apperrors "github.com/ikkim/visitor-registration-backend/internal/errors"
	"github.com/ikkim/visitor-registration-backend/internal/middleware"
)

type VisitorController struct {
	visitorService service.VisitorService
}

func NewVisitorController(visitorService service.VisitorService) *VisitorController {
	return &VisitorController{
		visitorService: visitorService,
	}
}

// RegisterVisitorRequest is validated by the service, not by binding tags.
type RegisterVisitorRequest struct {
	IdentificationNumber string `json:"identification_number"`
	IdentificationType   string `json:"identification_type"`
	FirstNames           string `json:"first_names"`
	LastNames            string `json:"last_names"`
	VisitorType          string `json:"visitor_type"`
	RepresentedCompany   string `json:"represented_company"`
}

// RegisterVisitor registers a new visitor
// POST /api/visitors
func (ctrl *VisitorController) RegisterVisitor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterVisitorRequest
	if err := bindJSONObject(c, &req); err != nil {
		log.Warn("Invalid register visitor request", map[string]interface{}{
			"error": err.Error(),
		})
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			apperrors.RespondWithAppError(c, apperrors.NewValidation(apperrors.ValidationInvalidInput, typeErr.Field,
				fmt.Sprintf("Field %s must be a string", typeErr.Field)))
			return
		}
		apperrors.BadRequest(c, apperrors.ValidationInvalidJSON, "Request body must be a valid JSON object")
		return
	}

	visitor, err := ctrl.visitorService.RegisterVisitor(c.Request.Context(), service.RegisterVisitorInput{
		IdentificationNumber: req.IdentificationNumber,
		IdentificationType:   req.IdentificationType,
		FirstNames:           req.FirstNames,
		LastNames:            req.LastNames,
		VisitorType:          req.VisitorType,
		RepresentedCompany:   req.RepresentedCompany,
	})
	if err != nil {
		appErr := apperrors.As(err)
		fields := map[string]interface{}{
			"identification_number": req.IdentificationNumber,
			"kind":                  appErr.Kind.String(),
			"code":                  appErr.Code,
		}
		if appErr.Kind == apperrors.KindInternal {
			log.Error("Failed to register visitor", err, fields)
		} else {
			log.Warn("Visitor registration refused", fields)
		}
		apperrors.RespondWithAppError(c, appErr)
		return
	}

	log.Info("Visitor registered successfully", map[string]interface{}{
		"visitor_id": visitor.ID,
	})

	apperrors.Success(c, http.StatusCreated, "Visitor registered successfully", visitor)
}

// bindJSONObject decodes the whole body into obj. Unlike gin's JSON binding,
// which stops after the first value, trailing data is a syntax error.
func bindJSONObject(c *gin.Context, obj interface{}) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	return json.Unmarshal(body, obj)
}

// Health reports whether the database is reachable
// GET /health
func (ctrl *VisitorController) Health(c *gin.Context) {
	if err := ctrl.visitorService.CheckHealth(c.Request.Context()); err != nil {
		apperrors.ServiceUnavailable(c, "Database unavailable")
		return
	}

	apperrors.Success(c, http.StatusOK, "Visitor registration API is running", gin.H{
		"database": "up",
	})
}
