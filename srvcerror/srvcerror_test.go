package srvcerror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/programme-lv/dsalearn/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStatusIsInternal(t *testing.T) {
	err := srvcerror.New("some_code", "something broke")
	assert.Equal(t, http.StatusInternalServerError, err.HttpStatusCode())
	assert.Equal(t, "something broke", err.Error())
	assert.Equal(t, "some_code", err.ErrorCode())
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	base := srvcerror.New("problem_not_found", "Problem not found").
		SetHttpStatusCode(http.StatusNotFound)
	wrapped := fmt.Errorf("lookup: %w", base)

	require.True(t, srvcerror.HasCode(wrapped, "problem_not_found"))
	require.False(t, srvcerror.HasCode(wrapped, "invalid_input"))
	require.False(t, srvcerror.HasCode(errors.New("plain"), "problem_not_found"))
}

func TestDebugInfoIsUnwrapped(t *testing.T) {
	cause := errors.New("fork/exec: no such file")
	err := srvcerror.ErrInternalSE().SetDebug(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", err.Error())
}
