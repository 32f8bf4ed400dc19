package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError("iqr multiplier must be positive"),
			want: "[VALIDATION] iqr multiplier must be positive",
		},
		{
			name: "with cause",
			err:  NewIOError("failed to open input file", os.ErrNotExist),
			want: "[IO] failed to open input file: file does not exist",
		},
		{
			name: "schema error",
			err:  NewSchemaError("required column missing: ended_at", nil),
			want: "[SCHEMA] required column missing: ended_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := os.ErrPermission
	err := NewIOError("failed to read input", cause)

	assert.True(t, stderrors.Is(err, os.ErrPermission))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeIO, appErr.Type)
}

func TestAppErrorSurvivesWrapping(t *testing.T) {
	inner := NewParseError("invalid timestamp", nil).
		WithContext("row", 42).
		WithContext("column", "started_at")
	wrapped := fmt.Errorf("clean stage: %w", inner)

	var appErr *AppError
	require.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeParse, appErr.Type)
	assert.Equal(t, 42, appErr.Context["row"])
	assert.Equal(t, "started_at", appErr.Context["column"])
}

func TestIsType(t *testing.T) {
	schemaErr := fmt.Errorf("load: %w", NewSchemaError("missing column", nil))

	assert.True(t, IsType(schemaErr, ErrTypeSchema))
	assert.False(t, IsType(schemaErr, ErrTypeIO))
	assert.False(t, IsType(stderrors.New("plain"), ErrTypeSchema))
	assert.False(t, IsType(nil, ErrTypeSchema))
}

func TestWithContextInitializesMap(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "write failed"}
	err.WithContext("path", "reports/summary.csv")

	assert.Equal(t, "reports/summary.csv", err.Context["path"])
}
