package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CategoryRender, SeverityError, "certificate render failed")
	assert.Equal(t, "render (error): certificate render failed", err.Error())

	cause := stderrors.New("disk full")
	wrapped := Wrap(cause, CategoryFileSystem, SeverityFatal, "recursive copy failed")
	assert.Equal(t, "filesystem (fatal): recursive copy failed: disk full", wrapped.Error())
	assert.Equal(t, cause, stderrors.Unwrap(wrapped))
}

func TestWithContext(t *testing.T) {
	err := SourceMissing("/abs/frontend/dist")
	require.NotNil(t, err.Context)
	assert.Equal(t, "/abs/frontend/dist", err.Context["path"])
	assert.Equal(t, CategoryPublish, err.Category)
}

func TestCategoryHelpers(t *testing.T) {
	err := StudentNotFound("Ada Lovelace", "S-1")
	assert.True(t, IsCategory(err, CategoryNotFound))
	assert.False(t, IsCategory(err, CategoryRoster))
	assert.Equal(t, CategoryNotFound, GetCategory(err))

	plain := stderrors.New("plain")
	assert.Equal(t, CategoryInternal, GetCategory(plain))
	assert.False(t, IsCategory(plain, CategoryInternal))
}

func TestConstructorsCarryContext(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := CopyFailed("/src", "/dst", cause)
	assert.Equal(t, "/src", err.Context["source"])
	assert.Equal(t, "/dst", err.Context["dest"])
	assert.Equal(t, cause, err.Cause)

	re := RosterUnavailable("students.csv", cause)
	assert.Equal(t, CategoryRoster, re.Category)
	assert.Equal(t, "students.csv", re.Context["path"])
}
