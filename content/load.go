package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"
)

const (
	topicsFname   = "topics.toml"
	problemsFname = "problems.toml"
)

//go:embed data/*.toml
var embeddedData embed.FS

type topicsToml struct {
	Categories []struct {
		ID     string `toml:"id"`
		Title  string `toml:"title"`
		Topics []struct {
			ID          string `toml:"id"`
			Title       string `toml:"title"`
			Description string `toml:"description"`
			Body        string `toml:"body"`
		} `toml:"topics"`
	} `toml:"categories"`
}

type problemsToml struct {
	Problems []struct {
		ID          string `toml:"id"`
		Title       string `toml:"title"`
		Difficulty  string `toml:"difficulty"`
		EntryPoint  string `toml:"entry_point"`
		InPlace     bool   `toml:"in_place"`
		Description string `toml:"description"`
		StarterCode string `toml:"starter_code"`
		TestCases   []struct {
			Input    string `toml:"input"`
			Expected string `toml:"expected"`
		} `toml:"test_cases"`
	} `toml:"problems"`
}

var (
	pyIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	difficulties = mapset.NewSet("Easy", "Medium", "Hard")
)

// Embedded returns the store built from the content compiled into the binary.
func Embedded() (*Store, error) {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded content: %w", err)
	}
	return Load(sub)
}

// LoadDir builds a store from a directory holding topics.toml and problems.toml.
func LoadDir(dir string) (*Store, error) {
	return Load(os.DirFS(dir))
}

func Load(fsys fs.FS) (*Store, error) {
	categories, err := readTopics(fsys)
	if err != nil {
		return nil, err
	}
	problems, err := readProblems(fsys)
	if err != nil {
		return nil, err
	}
	return newStore(categories, problems), nil
}

func readTopics(fsys fs.FS) ([]Category, error) {
	raw, err := fs.ReadFile(fsys, topicsFname)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", topicsFname, err)
	}
	var doc topicsToml
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", topicsFname, err)
	}

	categoryIDs := mapset.NewThreadUnsafeSet[string]()
	categories := make([]Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		if c.ID == "" {
			return nil, fmt.Errorf("category without id")
		}
		if !categoryIDs.Add(c.ID) {
			return nil, fmt.Errorf("duplicate category %q", c.ID)
		}

		topicIDs := mapset.NewThreadUnsafeSet[string]()
		topics := make([]Topic, 0, len(c.Topics))
		for _, t := range c.Topics {
			if t.ID == "" {
				return nil, fmt.Errorf("topic without id in category %q", c.ID)
			}
			if !topicIDs.Add(t.ID) {
				return nil, fmt.Errorf("duplicate topic %q in category %q", t.ID, c.ID)
			}
			topics = append(topics, Topic{
				ID:          t.ID,
				Category:    c.ID,
				Title:       t.Title,
				Description: t.Description,
				Body:        strings.TrimSpace(t.Body),
			})
		}
		categories = append(categories, Category{
			ID:     c.ID,
			Title:  c.Title,
			Topics: topics,
		})
	}
	return categories, nil
}

func readProblems(fsys fs.FS) ([]Problem, error) {
	raw, err := fs.ReadFile(fsys, problemsFname)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", problemsFname, err)
	}
	var doc problemsToml
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", problemsFname, err)
	}

	problemIDs := mapset.NewThreadUnsafeSet[string]()
	problems := make([]Problem, 0, len(doc.Problems))
	for _, p := range doc.Problems {
		if p.ID == "" {
			return nil, fmt.Errorf("problem without id")
		}
		if !problemIDs.Add(p.ID) {
			return nil, fmt.Errorf("duplicate problem %q", p.ID)
		}
		if !difficulties.Contains(p.Difficulty) {
			return nil, fmt.Errorf("problem %q: unknown difficulty %q", p.ID, p.Difficulty)
		}

		entry := p.EntryPoint
		if entry == "" {
			entry = p.ID
		}
		if !pyIdentifier.MatchString(entry) {
			return nil, fmt.Errorf("problem %q: entry point %q is not an identifier", p.ID, entry)
		}

		if len(p.TestCases) == 0 {
			return nil, fmt.Errorf("problem %q has no test cases", p.ID)
		}
		tests := make([]TestCase, 0, len(p.TestCases))
		for i, tc := range p.TestCases {
			in := strings.TrimSpace(tc.Input)
			if !strings.HasPrefix(in, "[") || !strings.HasSuffix(in, "]") {
				return nil, fmt.Errorf("problem %q test %d: input must be an argument list", p.ID, i+1)
			}
			tests = append(tests, TestCase{
				Input:    in,
				Expected: strings.TrimSpace(tc.Expected),
			})
		}

		problems = append(problems, Problem{
			ID:          p.ID,
			Title:       p.Title,
			Difficulty:  p.Difficulty,
			Description: strings.TrimSpace(p.Description),
			StarterCode: strings.TrimRight(p.StarterCode, " \n"),
			EntryPoint:  entry,
			InPlace:     p.InPlace,
			TestCases:   tests,
		})
	}
	return problems, nil
}
