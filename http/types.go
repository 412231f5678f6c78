package http

type TopicSummary struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Overview maps a category id (data_structures, algorithms) to its topics.
type Overview map[string][]TopicSummary

type Topic struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"` // HTML
}

type ProblemSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// Problem is the public view of a problem. Test cases stay hidden.
type Problem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Difficulty    string `json:"difficulty"`
	Description   string `json:"description"`
	StarterCode   string `json:"starter_code"`
	EntryPoint    string `json:"entry_point"`
	TestCaseCount int    `json:"test_case_count"`
}

type SubmitRequest struct {
	Code      string `json:"code"`
	ProblemID string `json:"problem_id"`
}

type TestResult struct {
	TestCase      int     `json:"test_case"`
	Input         string  `json:"input"`
	Expected      string  `json:"expected"`
	Output        string  `json:"output"`
	Stdout        string  `json:"stdout"`
	Passed        bool    `json:"passed"`
	ExecutionTime string  `json:"execution_time"`
	Error         *string `json:"error"`
}

type SubmitResponse struct {
	SubmissionID string       `json:"submission_id"`
	Success      bool         `json:"success"`
	AllPassed    bool         `json:"all_passed"`
	PassedCount  int          `json:"passed_count"`
	Results      []TestResult `json:"results"`
}

type RunRequest struct {
	Code string `json:"code"`
}

type RunResponse struct {
	Success       bool   `json:"success"`
	Output        string `json:"output"`
	Error         string `json:"error"` // stderr
	ExecutionTime string `json:"execution_time"`
}

// RunFailure is the body of a run that timed out or could not execute.
type RunFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
