package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/programme-lv/dsalearn/content"
	"github.com/programme-lv/dsalearn/httpjson"
	"github.com/programme-lv/dsalearn/judge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJudge struct {
	report judge.SubmissionReport
	raw    judge.ExecutionResult
	err    error

	gotCode      string
	gotProblemID string
}

func (f *fakeJudge) RunSubmission(ctx context.Context, code string, problemID string) (judge.SubmissionReport, error) {
	f.gotCode, f.gotProblemID = code, problemID
	return f.report, f.err
}

func (f *fakeJudge) RunRaw(ctx context.Context, code string) (judge.ExecutionResult, error) {
	f.gotCode = code
	return f.raw, f.err
}

// countingStore records how often problems are fetched from the store.
type countingStore struct {
	*content.Store
	problemGets atomic.Int32
}

func (s *countingStore) GetProblem(problemID string) (content.Problem, error) {
	s.problemGets.Add(1)
	return s.Store.GetProblem(problemID)
}

func embeddedStore(t *testing.T) *content.Store {
	t.Helper()
	store, err := content.Embedded()
	require.NoError(t, err)
	return store
}

func newTestServer(t *testing.T, j Judge, opts Options) *HttpServer {
	t.Helper()
	return NewHttpServer(embeddedStore(t), j, opts)
}

func do(t *testing.T, srv *HttpServer, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestGetOverview(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	rec := do(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	overview := decode[Overview](t, rec)
	require.Contains(t, overview, content.CategoryDataStructures)
	require.Contains(t, overview, content.CategoryAlgorithms)
	assert.Equal(t, "arrays", overview[content.CategoryDataStructures][0].ID)
	assert.Equal(t, "sorting", overview[content.CategoryAlgorithms][0].ID)
	assert.Len(t, overview[content.CategoryDataStructures], 5)
}

func TestGetTopic(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	rec := do(t, srv, http.MethodGet, "/learn/data_structures/arrays", "")
	require.Equal(t, http.StatusOK, rec.Code)
	topic := decode[Topic](t, rec)
	assert.Equal(t, "Arrays", topic.Title)
	assert.Equal(t, content.CategoryDataStructures, topic.Category)
	assert.Contains(t, topic.Body, "<h2>Arrays</h2>")

	// topic exists, but under the other category
	rec = do(t, srv, http.MethodGet, "/learn/algorithms/arrays", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decode[httpjson.ErrorResponse](t, rec)
	assert.Equal(t, "Topic not found", errResp.ErrMsg)
	assert.Equal(t, content.ErrCodeTopicNotFound, errResp.ErrCode)
}

func TestListProblems(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	rec := do(t, srv, http.MethodGet, "/problems", "")
	require.Equal(t, http.StatusOK, rec.Code)
	problems := decode[[]ProblemSummary](t, rec)
	require.Len(t, problems, 5)
	assert.Equal(t, "two_sum", problems[0].ID)
	assert.Equal(t, "Easy", problems[0].Difficulty)
}

func TestGetProblemHidesTestCases(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	rec := do(t, srv, http.MethodGet, "/problem/valid_parentheses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "test_cases")
	assert.NotContains(t, rec.Body.String(), "([)]")

	problem := decode[Problem](t, rec)
	assert.Equal(t, "is_valid", problem.EntryPoint)
	assert.Equal(t, 4, problem.TestCaseCount)
	assert.Contains(t, problem.StarterCode, "def is_valid(s):")

	rec = do(t, srv, http.MethodGet, "/problem/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decode[httpjson.ErrorResponse](t, rec)
	assert.Equal(t, "Problem not found", errResp.ErrMsg)
}

func TestProblemViewIsCached(t *testing.T) {
	store := &countingStore{Store: embeddedStore(t)}
	srv := NewHttpServer(store, &fakeJudge{}, Options{})

	for i := 0; i < 3; i++ {
		rec := do(t, srv, http.MethodGet, "/problem/two_sum", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.EqualValues(t, 1, store.problemGets.Load())

	// misses are not cached
	for i := 0; i < 2; i++ {
		rec := do(t, srv, http.MethodGet, "/problem/nope", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.EqualValues(t, 3, store.problemGets.Load())
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	rec := do(t, srv, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPostSubmit(t *testing.T) {
	errText := "Traceback: boom"
	fake := &fakeJudge{report: judge.SubmissionReport{
		ID:        uuid.MustParse("0192f1c4-0000-7000-8000-000000000001"),
		ProblemID: "two_sum",
		Success:   false,
		AllPassed: false,
		Results: []judge.TestResult{
			{TestCase: 1, Input: "[[2, 7, 11, 15], 9]", Expected: "[0, 1]", Output: "[0, 1]", Passed: true, ExecutionTime: "0.021s"},
			{TestCase: 2, Input: "[[3, 2, 4], 6]", Expected: "[1, 2]", Passed: false, ExecutionTime: "0.020s", Error: &errText},
		},
	}}
	srv := newTestServer(t, fake, Options{})

	rec := do(t, srv, http.MethodPost, "/submit", `{"code":"def two_sum(a, b): pass","problem_id":"two_sum"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0192f1c4-0000-7000-8000-000000000001", rec.Header().Get(submissionIDHeader))
	assert.Equal(t, "def two_sum(a, b): pass", fake.gotCode)
	assert.Equal(t, "two_sum", fake.gotProblemID)

	resp := decode[SubmitResponse](t, rec)
	assert.False(t, resp.Success)
	assert.False(t, resp.AllPassed)
	assert.Equal(t, 1, resp.PassedCount)
	require.Len(t, resp.Results, 2)
	assert.Nil(t, resp.Results[0].Error)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, errText, *resp.Results[1].Error)

	// a passing case still serializes its error as null
	assert.Contains(t, rec.Body.String(), `"error":null`)
}

func TestPostSubmitRejections(t *testing.T) {
	// a missing interpreter turns any spawn into a fault, so 4xx here
	// means nothing was executed
	j := judge.NewJudge(embeddedStore(t), judge.Params{PythonBin: "/nonexistent/python", MaxCodeLength: 20})
	srv := newTestServer(t, j, Options{})

	tests := []struct {
		name    string
		body    string
		status  int
		code    string
		message string
	}{
		{"empty code", `{"code":"","problem_id":"two_sum"}`, http.StatusBadRequest, judge.ErrCodeInvalidInput, "No code provided"},
		{"missing code", `{"problem_id":"two_sum"}`, http.StatusBadRequest, judge.ErrCodeInvalidInput, "No code provided"},
		{"too long", `{"code":"` + strings.Repeat("x", 21) + `","problem_id":"two_sum"}`, http.StatusBadRequest, judge.ErrCodeInvalidInput, "Code too long"},
		{"unknown problem", `{"code":"pass","problem_id":"nope"}`, http.StatusNotFound, content.ErrCodeProblemNotFound, "Problem not found"},
		{"malformed json", `{"code":`, http.StatusBadRequest, judge.ErrCodeInvalidInput, "Invalid JSON body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/submit", tc.body)
			require.Equal(t, tc.status, rec.Code)
			errResp := decode[httpjson.ErrorResponse](t, rec)
			assert.Equal(t, tc.code, errResp.ErrCode)
			assert.Equal(t, tc.message, errResp.ErrMsg)
		})
	}
}

func TestPostSubmitUnexpectedError(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{err: errors.New("execution aborted: context canceled")}, Options{})

	rec := do(t, srv, http.MethodPost, "/submit", `{"code":"pass","problem_id":"two_sum"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	errResp := decode[httpjson.ErrorResponse](t, rec)
	assert.Equal(t, "execution aborted: context canceled", errResp.ErrMsg)
}

func TestPostRun(t *testing.T) {
	fake := &fakeJudge{raw: judge.ExecutionResult{Stdout: "hello\n", Stderr: ""}}
	srv := newTestServer(t, fake, Options{})

	rec := do(t, srv, http.MethodPost, "/run", `{"code":"print('hello')"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "print('hello')", fake.gotCode)

	resp := decode[RunResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "hello\n", resp.Output)
	assert.Equal(t, "", resp.Error)
	assert.Equal(t, "0.000s", resp.ExecutionTime)
}

func TestPostRunSilentScriptKeepsOutputKey(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	rec := do(t, srv, http.MethodPost, "/run", `{"code":"x = 1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"output":"","error":"","execution_time":"0.000s"}`,
		rec.Body.String())
}

func TestPostRunFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"timeout", judge.ErrTimeLimitExceeded(), http.StatusRequestTimeout, `{"success":false,"error":"Time Limit Exceeded"}`},
		{"fault", judge.ErrExecutionFault(errors.New("failed to start python3")), http.StatusInternalServerError, `{"success":false,"error":"failed to start python3"}`},
		{"invalid", judge.ErrNoCode(), http.StatusBadRequest, `{"error":"No code provided","code":"invalid_input"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeJudge{err: tc.err}, Options{})
			rec := do(t, srv, http.MethodPost, "/run", `{"code":"x"}`)
			require.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestJudgeEndpointsAreRateLimited(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{RateLimitRps: 0.001, RateLimitBurst: 2})

	for i := 0; i < 2; i++ {
		rec := do(t, srv, http.MethodPost, "/run", `{"code":"x"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, srv, http.MethodPost, "/run", `{"code":"x"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	errResp := decode[httpjson.ErrorResponse](t, rec)
	assert.Equal(t, errCodeTooManyRequests, errResp.ErrCode)

	// content pages are not throttled
	rec = do(t, srv, http.MethodGet, "/problems", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponsesAreCompressed(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/learn/algorithms/sorting", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestStatsGroupByRoutePattern(t *testing.T) {
	srv := newTestServer(t, &fakeJudge{}, Options{})

	do(t, srv, http.MethodGet, "/learn/data_structures/arrays", "")
	do(t, srv, http.MethodGet, "/learn/algorithms/sorting", "")
	do(t, srv, http.MethodGet, "/ping", "")

	snap := srv.stats.snapshot()
	assert.Equal(t, 2, snap["GET /learn/{category}/{topicId}"])
	assert.Equal(t, 1, snap["GET /ping"])
}

func TestSubmitEndToEnd(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	store := embeddedStore(t)
	srv := newTestServer(t, judge.NewJudge(store, judge.Params{}), Options{})

	body, err := json.Marshal(SubmitRequest{
		Code:      "def binary_search(nums, target):\n    return nums.index(target) if target in nums else -1\n",
		ProblemID: "binary_search",
	})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodPost, "/submit", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[SubmitResponse](t, rec)
	assert.True(t, resp.AllPassed)
	assert.True(t, resp.Success)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "-1", resp.Results[1].Output)
	assert.NotEmpty(t, rec.Header().Get(submissionIDHeader))
}
