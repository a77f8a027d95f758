package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"table-for-two-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := apperr.New(apperr.NotFound, "pair not found")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	// Kind survives further wrapping.
	wrapped := fmt.Errorf("loading pair: %w", err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(wrapped))

	// Unkinded errors are internal.
	assert.Equal(t, apperr.Internal, apperr.KindOf(errors.New("boom")))
}

func TestMessageOf(t *testing.T) {
	err := apperr.New(apperr.PermissionDenied, "only the host can end this pair")
	assert.Equal(t, "only the host can end this pair", apperr.MessageOf(err))

	// Internal details never reach the caller.
	assert.Equal(t, "internal error", apperr.MessageOf(errors.New("pq: connection refused")))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("no rows")
	err := apperr.Wrap(apperr.NotFound, "restaurant not found", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "restaurant not found")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Unauthenticated:    http.StatusUnauthorized,
		apperr.InvalidArgument:    http.StatusBadRequest,
		apperr.NotFound:           http.StatusNotFound,
		apperr.PermissionDenied:   http.StatusForbidden,
		apperr.AlreadyExists:      http.StatusConflict,
		apperr.ResourceExhausted:  http.StatusConflict,
		apperr.FailedPrecondition: http.StatusPreconditionFailed,
		apperr.Internal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), string(kind))
	}
}
