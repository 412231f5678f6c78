package judge

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/dsalearn/srvcerror"
)

const ErrCodeInvalidInput = "invalid_input"

func ErrNoCode() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidInput,
		"No code provided",
	).SetHttpStatusCode(http.StatusBadRequest)
}

func ErrCodeTooLong(length int, maxLength int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidInput,
		"Code too long",
	).SetDebug(fmt.Errorf("code has %d characters, limit is %d", length, maxLength)).
		SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeTimeLimitExceeded = "time_limit_exceeded"

func ErrTimeLimitExceeded() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeTimeLimitExceeded,
		TimeLimitExceededMsg,
	).SetHttpStatusCode(http.StatusRequestTimeout)
}

const ErrCodeExecutionFault = "execution_fault"

func ErrExecutionFault(err error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeExecutionFault,
		err.Error(),
	).SetDebug(err).
		SetHttpStatusCode(http.StatusInternalServerError)
}
