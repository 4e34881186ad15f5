package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("missing field"), http.StatusBadRequest},
		{Authentication("no token"), http.StatusUnauthorized},
		{Authorization("not allowed"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{Internal("boom", errors.New("store down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusCode(tc.err))
	}
}

func TestMessageHidesInternalCause(t *testing.T) {
	err := Internal("failed to fetch project", errors.New("connection refused to mongo:27017"))

	assert.Equal(t, "failed to fetch project", Message(err))
	// The cause stays available for logs.
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMessageForUntypedError(t *testing.T) {
	assert.Equal(t, "unexpected server error", Message(errors.New("nil pointer dereference")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling invite: %w", Conflict("user is already a member of the project"))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}
