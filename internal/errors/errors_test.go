package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gobayes/domain/core"
)

func TestFromDomain_ClassifiesKinds(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{core.NewPreconditionError("n", "must be positive"), CodePrecondition, http.StatusBadRequest},
		{core.NewShapeMismatchError("draws", 2, 3), CodeShapeMismatch, http.StatusBadRequest},
		{core.NewConfigurationError("need two variants"), CodeConfiguration, http.StatusUnprocessableEntity},
		{fmt.Errorf("bf: %w", core.NewNonConvergenceError("quad", 1, 1)), CodeNonConvergence, http.StatusServiceUnavailable},
		{core.NewExperimentNotFoundError("x"), CodeNotFound, http.StatusNotFound},
		{fmt.Errorf("boom"), CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		appErr := FromDomain(tt.err)
		assert.Equal(t, tt.code, appErr.Code, tt.err.Error())
		assert.Equal(t, tt.status, HTTPStatus(appErr.Code))
	}
	assert.Nil(t, FromDomain(nil))
}

func TestWrap_KeepsCodeAndCause(t *testing.T) {
	base := core.NewPreconditionError("trials", "too few")
	wrapped := Wrapf(base, "update variant %s", "a")

	assert.Equal(t, CodePrecondition, GetCode(wrapped))
	assert.True(t, core.IsPreconditionError(wrapped))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))

	rewrapped := Wrap(ConfigInvalid("bad"), "load")
	assert.Equal(t, CodeConfigInvalid, GetCode(rewrapped))
	assert.Nil(t, Wrap(nil, "x"))
}
