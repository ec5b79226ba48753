package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Invalid("items required"), http.StatusBadRequest},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("Order not found"), http.StatusNotFound},
		{Conflict("email taken"), http.StatusConflict},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create order: %w", Invalid("Invalid add-on: %s", "Extra Spice"))
	assert.True(t, Is(err, KindInvalidInput))
	assert.Contains(t, err.Error(), "Invalid add-on: Extra Spice")
}

func TestInternalEchoesRawMessage(t *testing.T) {
	raw := errors.New("connection refused")
	err := Internal(raw)
	assert.Equal(t, "connection refused", err.Error())
	assert.ErrorIs(t, err, raw)
	assert.Nil(t, Internal(nil))
}
