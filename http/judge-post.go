package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/dsalearn/httpjson"
	"github.com/programme-lv/dsalearn/judge"
	"github.com/programme-lv/dsalearn/srvcerror"
)

const (
	submissionIDHeader = "X-Submission-Id"
	maxRequestBytes    = 1 << 20
)

func decodeJsonBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return srvcerror.New(judge.ErrCodeInvalidInput, "Invalid JSON body").
			SetDebug(err).
			SetHttpStatusCode(http.StatusBadRequest)
	}
	return nil
}

func (httpserver *HttpServer) postSubmit(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var request SubmitRequest
	if err := decodeJsonBody(w, r, &request); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	report, err := httpserver.judge.RunSubmission(r.Context(), request.Code, request.ProblemID)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	w.Header().Set(submissionIDHeader, report.ID.String())
	httpjson.WriteSuccessJson(w, mapSubmissionReport(report))
}

func (httpserver *HttpServer) postRun(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var request RunRequest
	if err := decodeJsonBody(w, r, &request); err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	res, err := httpserver.judge.RunRaw(r.Context(), request.Code)
	switch {
	case err == nil:
		httpjson.WriteSuccessJson(w, RunResponse{
			Success:       true,
			Output:        res.Stdout,
			Error:         res.Stderr,
			ExecutionTime: res.ExecutionTime(),
		})
	case srvcerror.HasCode(err, judge.ErrCodeInvalidInput):
		httpjson.HandleError(logger, w, err)
	case srvcerror.HasCode(err, judge.ErrCodeTimeLimitExceeded):
		httpjson.WriteJson(w, http.StatusRequestTimeout, RunFailure{
			Success: false,
			Error:   judge.TimeLimitExceededMsg,
		})
	default:
		logger.Error("raw run failed", "error", err)
		httpjson.WriteJson(w, http.StatusInternalServerError, RunFailure{
			Success: false,
			Error:   err.Error(),
		})
	}
}
