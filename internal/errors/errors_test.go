package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapErrorError(t *testing.T) {
	testCases := []struct {
		name     string
		err      *SitemapError
		expected string
	}{
		{
			name: "message only",
			err: &SitemapError{
				Type:    ErrorTypeValidation,
				Message: "priority out of range",
			},
			expected: "priority out of range",
		},
		{
			name: "code and component",
			err: &SitemapError{
				Type:      ErrorTypeIO,
				Code:      "write_failed",
				Component: "writer",
				Message:   "cannot write sitemap",
			},
			expected: "[write_failed] component:writer cannot write sitemap",
		},
		{
			name: "with path and cause",
			err: &SitemapError{
				Type:    ErrorTypeIO,
				Code:    "mkdir_failed",
				Path:    "/out/sitemap.xml",
				Message: "cannot create directory",
				Cause:   stderrors.New("permission denied"),
			},
			expected: "[mkdir_failed] /out/sitemap.xml cannot create directory: permission denied",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestSitemapErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewIOError("write_failed", "cannot write chunk", cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestSitemapErrorIs(t *testing.T) {
	a := NewSecurityError("path_traversal", "bad filename")
	b := NewSecurityError("path_traversal", "different message")
	c := NewSecurityError("other_code", "bad filename")

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
	assert.False(t, a.Is(stderrors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := NewIOError("write_failed", "cannot write", nil).
		WithContext("pages", 42).
		WithContext("output", "/srv/site")

	require.NotNil(t, err.Context)
	assert.Equal(t, 42, err.Context["pages"])
	assert.Equal(t, "/srv/site", err.Context["output"])
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(NewValidationError("bad_priority", "out of range")))
	assert.False(t, IsRecoverable(NewSecurityError("path_traversal", "escape")))
	assert.False(t, IsRecoverable(stderrors.New("plain error")))
	assert.False(t, IsRecoverable(nil))

	wrapped := fmt.Errorf("outer: %w", NewValidationError("bad_priority", "out of range"))
	assert.True(t, IsRecoverable(wrapped))
}

func TestIsType(t *testing.T) {
	err := NewConfigError("missing_base_url", "no base URL configured")

	assert.True(t, IsType(err, ErrorTypeConfig))
	assert.False(t, IsType(err, ErrorTypeIO))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeConfig))
}

func TestInvalidDateError(t *testing.T) {
	err := InvalidDateError("not-a-date")

	assert.Contains(t, err.Error(), "Invalid date provided: not-a-date")
	assert.False(t, err.Recoverable)
	assert.Equal(t, ErrorTypeValidation, err.Type)
}

func TestPathTraversalError(t *testing.T) {
	err := PathTraversalError("../../etc/passwd")

	assert.Contains(t, err.Error(), "../../etc/passwd")
	assert.Equal(t, ErrorTypeSecurity, err.Type)
	assert.False(t, err.Recoverable)
}
