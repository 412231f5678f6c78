package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/programme-lv/dsalearn/srvcerror"
)

type ErrorResponse struct {
	ErrMsg  string `json:"error"`
	ErrCode string `json:"code,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func WriteSuccessJson(w http.ResponseWriter, data any) {
	WriteJson(w, http.StatusOK, data)
}

func WriteErrorJson(w http.ResponseWriter, errMsg string, statusCode int, errCode string) {
	WriteJson(w, statusCode, ErrorResponse{
		ErrMsg:  errMsg,
		ErrCode: errCode,
	})
}

func writeInternalErrorJson(w http.ResponseWriter, errMsg string) {
	WriteErrorJson(w,
		errMsg,
		http.StatusInternalServerError,
		srvcerror.ErrCodeInternalServerError)
}

// HandleError writes err as a JSON error body. Service errors keep their
// status and code; anything else becomes a 500 carrying the error text.
func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	srvcErr := &srvcerror.Error{}
	if errors.As(err, &srvcErr) {
		if srvcErr.HttpStatusCode() == http.StatusInternalServerError {
			logger.Error("internal server error", "error", err, "debug", srvcErr.DebugInfo())
		} else if srvcErr.DebugInfo() != nil {
			logger.Warn("service error", "error", err, "debug", srvcErr.DebugInfo())
		} else {
			logger.Debug("service error", "error", err)
		}
		WriteErrorJson(w, srvcErr.Error(), srvcErr.HttpStatusCode(), srvcErr.ErrorCode())
		return
	}
	logger.Error("internal server error", "error", err)
	writeInternalErrorJson(w, err.Error())
}
