package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	t.Run("Kind survives wrapping", func(t *testing.T) {
		cause := NewError(KindNotFound, "document not found: doc_x")
		wrapped := fmt.Errorf("query failed: %w", cause)

		assert.True(t, IsKind(wrapped, KindNotFound))
		assert.Equal(t, KindNotFound, KindOf(wrapped))
	})

	t.Run("WrapError preserves the cause chain", func(t *testing.T) {
		cause := errors.New("disk full")
		err := WrapError(KindStorage, "failed to save document", cause)

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed to save document")
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("Unclassified errors default to storage", func(t *testing.T) {
		assert.Equal(t, KindStorage, KindOf(errors.New("boom")))
		assert.False(t, IsKind(errors.New("boom"), KindStorage))
	})

	t.Run("Public message hides wrapped detail", func(t *testing.T) {
		cause := errors.New("dial tcp 10.0.0.5: connection refused")
		err := WrapError(KindUpstream, "embedding generation failed", cause)

		assert.Equal(t, "embedding generation failed", PublicMessage(err))
		assert.Equal(t, "internal error", PublicMessage(errors.New("raw")))
	})

	t.Run("Errorf formats the message", func(t *testing.T) {
		err := Errorf(KindInvalidInput, "invalid result count: %d", 0)
		assert.Equal(t, "invalid result count: 0", err.Message)
		assert.Equal(t, KindInvalidInput, err.Kind)
	})
}
