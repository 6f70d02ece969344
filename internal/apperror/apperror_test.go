package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("Wrapped application error", func(t *testing.T) {
		err := fmt.Errorf("checkout: %w", Validation("cart is empty"))
		assert.True(t, IsValidation(err))
		assert.False(t, IsNotFound(err))
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("Plain error is internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, KindInternal, KindOf(err))
		assert.False(t, IsConflict(err))
	})

	t.Run("Nil error", func(t *testing.T) {
		assert.False(t, IsNotFound(nil))
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindNotFound, http.StatusNotFound, "NOT_FOUND"},
		{KindValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{KindForbidden, http.StatusForbidden, "FORBIDDEN"},
		{KindConflict, http.StatusConflict, "CONFLICT"},
		{KindUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
			assert.Equal(t, tt.code, tt.kind.String())
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, cause, "cart line exists")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cart line exists: duplicate key", err.Error())
}
