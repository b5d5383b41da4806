package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "pgx unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "pgx foreign key violation", err: &pgconn.PgError{Code: "23503", Message: "duplicate key"}, want: false},
		{name: "lib/pq unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '123'"}, want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1048}, want: false},
		{name: "sqlite unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: true},
		{name: "sqlite not null", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, want: false},
		{name: "message fallback", err: errors.New("UNIQUE constraint failed: visitors.identification_number"), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKey(tt.err))
		})
	}
}

func TestAppError_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidation(ValidationRequired, "first_names", "missing").HTTPStatus())
	assert.Equal(t, http.StatusConflict, NewConflict(ResourceAlreadyExists, "dup", nil).HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, NewInternal(InternalDatabaseError, "db", nil).HTTPStatus())
}

func TestAs(t *testing.T) {
	cause := errors.New("disk full")

	wrapped := fmt.Errorf("register: %w", NewConflict(ResourceAlreadyExists, "dup", nil))
	assert.Equal(t, KindConflict, As(wrapped).Kind)

	plain := As(cause)
	assert.Equal(t, KindInternal, plain.Kind)
	assert.ErrorIs(t, plain, cause)

	assert.Nil(t, As(nil))
}

func TestRespondWithAppError_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		RespondWithAppError(c, NewValidation(ValidationRequired, "last_names", "Field last_names is required"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, float64(400), body["status_code"])
	assert.Equal(t, "Field last_names is required", body["error"])
	assert.Equal(t, "last_names", body["field"])
	assert.NotContains(t, body, "data")
}

func TestSuccess_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		Success(c, http.StatusCreated, "done", gin.H{"id": 1})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(201), body["status_code"])
	assert.Equal(t, "done", body["message"])
	assert.NotContains(t, body, "error")
}
