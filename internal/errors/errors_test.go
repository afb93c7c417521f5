package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"findash/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error", ConfigInvalid("bad port"), CodeConfigInvalid},
		{"wrapped app error", fmt.Errorf("loading: %w", IOFailure("x.csv", os.ErrNotExist)), CodeIOFailure},
		{"validation sentinel", fmt.Errorf("%w: no dates", core.ErrValidationFailed), CodeValidationError},
		{"insufficient sentinel", core.NewInsufficientDataError(3, 10), CodeInsufficientData},
		{"unknown column", core.NewUnknownColumnError("x"), CodeInvalidInput},
		{"plain", stderrors.New("boom"), CodeInternalError},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	base := fmt.Errorf("%w: empty", core.ErrValidationFailed)

	err := Wrap(base, "upload rejected")

	assert.Equal(t, CodeValidationError, GetCode(err))
	assert.True(t, core.IsValidationError(err))
	assert.Equal(t, "upload rejected: "+base.Error(), err.Error())
	assert.Nil(t, Wrap(nil, "x"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeNotFound, stderrors.New("sheet missing"))

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(core.ErrValidationFailed))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad json")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(IOFailure("f", nil)))
	assert.Equal(t, http.StatusOK, HTTPStatus(core.NewInsufficientDataError(1, 10)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("boom")))
}
