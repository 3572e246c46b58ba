package sqlidentity_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	sqlidentity "github.com/goliatone/go-sql-identity"
	"github.com/stretchr/testify/assert"
)

func TestStructuredErrorProperties(t *testing.T) {
	t.Run("ErrSessionNotFound", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryNotFound, sqlidentity.ErrSessionNotFound.Category)
		assert.Equal(t, sqlidentity.TextCodeSessionNotFound, sqlidentity.ErrSessionNotFound.TextCode)
		assert.Equal(t, goerrors.CodeNotFound, sqlidentity.ErrSessionNotFound.Code)
		assert.Equal(t, "session not found", sqlidentity.ErrSessionNotFound.Message)
		assert.True(t, goerrors.IsNotFound(sqlidentity.ErrSessionNotFound))
	})

	t.Run("ErrStateViolation", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryBadInput, sqlidentity.ErrStateViolation.Category)
		assert.Equal(t, sqlidentity.TextCodeStateViolation, sqlidentity.ErrStateViolation.TextCode)
		assert.Equal(t, goerrors.CodeBadRequest, sqlidentity.ErrStateViolation.Code)
	})

	t.Run("ErrTokenUnsendable", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryInternal, sqlidentity.ErrTokenUnsendable.Category)
		assert.Equal(t, sqlidentity.TextCodeTokenUnsendable, sqlidentity.ErrTokenUnsendable.TextCode)
		assert.Equal(t, goerrors.CodeInternal, sqlidentity.ErrTokenUnsendable.Code)
	})

	t.Run("ErrMissingStore", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryInternal, sqlidentity.ErrMissingStore.Category)
		assert.Equal(t, sqlidentity.TextCodeBadConfig, sqlidentity.ErrMissingStore.TextCode)
		assert.Equal(t, goerrors.CodeInternal, sqlidentity.ErrMissingStore.Code)
	})
}
