package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/visitor-registration-backend/internal/app/model"
	"github.com/ikkim/visitor-registration-backend/internal/app/repository"
	"github.com/ikkim/visitor-registration-backend/internal/app/service"
	"github.com/ikkim/visitor-registration-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVisitorControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	visitorRepo := repository.NewVisitorRepository(testDB)
	visitorService := service.NewVisitorService(visitorRepo)
	ctrl := NewVisitorController(visitorService)

	router := gin.New()
	router.POST("/api/visitors", ctrl.RegisterVisitor)
	router.GET("/health", ctrl.Health)

	return router, testDB
}

func postVisitor(router *gin.Engine, body []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest("POST", "/api/visitors", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func countVisitors(t *testing.T, testDB *gorm.DB) int64 {
	var count int64
	require.NoError(t, testDB.Model(&model.Visitor{}).Count(&count).Error)
	return count
}

const anaRuiz = `{"identification_number":"123","identification_type":"CC","first_names":"Ana","last_names":"Ruiz","visitor_type":"Personal"}`

func TestVisitorController_RegisterVisitor_Success(t *testing.T) {
	router, testDB := setupVisitorControllerTest(t)

	w, response := postVisitor(router, []byte(anaRuiz))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, float64(201), response["status_code"])
	assert.Equal(t, "Visitor registered successfully", response["message"])

	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotZero(t, data["id"])
	assert.Equal(t, "123", data["identification_number"])
	assert.Equal(t, "CC", data["identification_type"])
	assert.Equal(t, "Ana", data["first_names"])
	assert.Equal(t, "Ruiz", data["last_names"])
	assert.Equal(t, "Personal", data["visitor_type"])
	assert.Contains(t, data, "represented_company")
	assert.Nil(t, data["represented_company"])
	assert.NotEmpty(t, data["registered_at"])

	assert.Equal(t, int64(1), countVisitors(t, testDB))
}

func TestVisitorController_RegisterVisitor_Business(t *testing.T) {
	router, _ := setupVisitorControllerTest(t)

	body, _ := json.Marshal(RegisterVisitorRequest{
		IdentificationNumber: "900123",
		IdentificationType:   "NIT",
		FirstNames:           "Luis",
		LastNames:            "Gómez",
		VisitorType:          "Business",
		RepresentedCompany:   "Acme",
	})

	w, response := postVisitor(router, body)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Acme", data["represented_company"])
}

func TestVisitorController_RegisterVisitor_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "Missing identification number",
			body:      `{"identification_type":"CC","first_names":"Ana","last_names":"Ruiz","visitor_type":"Personal"}`,
			wantField: "identification_number",
		},
		{
			name:      "Empty last names",
			body:      `{"identification_number":"1","identification_type":"CC","first_names":"Ana","last_names":"","visitor_type":"Personal"}`,
			wantField: "last_names",
		},
		{
			name:      "Invalid visitor type",
			body:      `{"identification_number":"1","identification_type":"CC","first_names":"Ana","last_names":"Ruiz","visitor_type":"VIP"}`,
			wantField: "visitor_type",
		},
		{
			name:      "Business without company",
			body:      `{"identification_number":"1","identification_type":"CC","first_names":"Ana","last_names":"Ruiz","visitor_type":"Business"}`,
			wantField: "represented_company",
		},
		{
			name:      "Business with null company",
			body:      `{"identification_number":"1","identification_type":"CC","first_names":"Ana","last_names":"Ruiz","visitor_type":"Business","represented_company":null}`,
			wantField: "represented_company",
		},
		{
			name:      "JSON null body",
			body:      `null`,
			wantField: "identification_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, testDB := setupVisitorControllerTest(t)

			w, response := postVisitor(router, []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "error", response["status"])
			assert.Equal(t, float64(400), response["status_code"])
			assert.Equal(t, tt.wantField, response["field"])
			assert.Contains(t, response["error"], tt.wantField)
			assert.Zero(t, countVisitors(t, testDB))
		})
	}
}

func TestVisitorController_RegisterVisitor_MalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Truncated object", body: `{"identification_number":`},
		{name: "Empty body", body: ``},
		{name: "Array instead of object", body: `[1,2,3]`},
		{name: "Trailing garbage", body: anaRuiz + ` not-json{`},
		{name: "Two objects", body: anaRuiz + anaRuiz},
		{name: "Bare string", body: `"123"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, testDB := setupVisitorControllerTest(t)

			w, response := postVisitor(router, []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "error", response["status"])
			assert.Equal(t, "VALIDATION_INVALID_JSON", response["code"])
			assert.Zero(t, countVisitors(t, testDB))
		})
	}
}

func TestVisitorController_RegisterVisitor_WrongFieldType(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "Number for identification number",
			body:      `{"identification_number":124,"identification_type":"CC","first_names":"Ana","last_names":"Ruiz","visitor_type":"Personal"}`,
			wantField: "identification_number",
		},
		{
			name:      "Object for company",
			body:      `{"identification_number":"124","identification_type":"CC","first_names":"Ana","last_names":"Ruiz","visitor_type":"Business","represented_company":{"name":"Acme"}}`,
			wantField: "represented_company",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, testDB := setupVisitorControllerTest(t)

			w, response := postVisitor(router, []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_INVALID_INPUT", response["code"])
			assert.Equal(t, tt.wantField, response["field"])
			assert.Equal(t, "Field "+tt.wantField+" must be a string", response["error"])
			assert.Zero(t, countVisitors(t, testDB))
		})
	}
}

func TestVisitorController_RegisterVisitor_Duplicate(t *testing.T) {
	router, testDB := setupVisitorControllerTest(t)

	first, _ := postVisitor(router, []byte(anaRuiz))
	require.Equal(t, http.StatusCreated, first.Code)

	w, response := postVisitor(router, []byte(anaRuiz))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", response["status"])
	assert.Equal(t, float64(409), response["status_code"])
	assert.Contains(t, response["error"], "123")
	assert.NotContains(t, response, "data")
	assert.Equal(t, int64(1), countVisitors(t, testDB))
}

func TestVisitorController_RegisterVisitor_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	visitorRepo := repository.NewUnavailableVisitorRepository(errors.New("dial tcp: connection refused"))
	ctrl := NewVisitorController(service.NewVisitorService(visitorRepo))

	router := gin.New()
	router.POST("/api/visitors", ctrl.RegisterVisitor)
	router.GET("/health", ctrl.Health)

	w, response := postVisitor(router, []byte(anaRuiz))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, float64(500), response["status_code"])
	assert.Equal(t, "Failed to register visitor", response["error"])

	req := httptest.NewRequest("GET", "/health", nil)
	hw := httptest.NewRecorder()
	router.ServeHTTP(hw, req)
	assert.Equal(t, http.StatusServiceUnavailable, hw.Code)
}

func TestVisitorController_Health(t *testing.T) {
	router, _ := setupVisitorControllerTest(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, "up", response["data"].(map[string]interface{})["database"])
}
