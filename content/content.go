// Package content holds the read-only learning material: topics grouped
// into categories and practice problems with their hidden test cases.
package content

const (
	CategoryDataStructures = "data_structures"
	CategoryAlgorithms     = "algorithms"
)

type Topic struct {
	ID          string
	Category    string
	Title       string
	Description string
	Body        string // HTML
}

type Category struct {
	ID     string
	Title  string
	Topics []Topic
}

type TestCase struct {
	Input    string // python literal list of positional arguments
	Expected string
}

type Problem struct {
	ID          string
	Title       string
	Difficulty  string
	Description string
	StarterCode string

	// function called by the judge
	EntryPoint string
	// when set and the function returns None, the first argument is the result
	InPlace bool

	TestCases []TestCase
}
