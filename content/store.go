package content

import (
	"slices"
)

// Store is an immutable lookup table built once by Load. All accessors
// return copies, so callers cannot mutate the shared content.
type Store struct {
	categories []Category
	catIdx     map[string]int
	topicIdx   map[string]map[string]int // category -> topic id -> index

	problems   []Problem
	problemIdx map[string]int
}

func newStore(categories []Category, problems []Problem) *Store {
	s := &Store{
		categories: categories,
		catIdx:     make(map[string]int, len(categories)),
		topicIdx:   make(map[string]map[string]int, len(categories)),
		problems:   problems,
		problemIdx: make(map[string]int, len(problems)),
	}
	for ci, c := range categories {
		s.catIdx[c.ID] = ci
		idx := make(map[string]int, len(c.Topics))
		for i, t := range c.Topics {
			idx[t.ID] = i
		}
		s.topicIdx[c.ID] = idx
	}
	for i, p := range problems {
		s.problemIdx[p.ID] = i
	}
	return s
}

func (s *Store) GetTopic(category string, topicID string) (Topic, error) {
	ci, ok := s.catIdx[category]
	if !ok {
		return Topic{}, ErrTopicNotFound(category, topicID)
	}
	ti, ok := s.topicIdx[category][topicID]
	if !ok {
		return Topic{}, ErrTopicNotFound(category, topicID)
	}
	return s.categories[ci].Topics[ti], nil
}

// ListTopics returns the topics of a category in display order,
// or nil for an unknown category.
func (s *Store) ListTopics(category string) []Topic {
	ci, ok := s.catIdx[category]
	if !ok {
		return nil
	}
	return slices.Clone(s.categories[ci].Topics)
}

func (s *Store) Categories() []Category {
	res := make([]Category, len(s.categories))
	for i, c := range s.categories {
		res[i] = Category{
			ID:     c.ID,
			Title:  c.Title,
			Topics: slices.Clone(c.Topics),
		}
	}
	return res
}

func (s *Store) GetProblem(problemID string) (Problem, error) {
	i, ok := s.problemIdx[problemID]
	if !ok {
		return Problem{}, ErrProblemNotFound(problemID)
	}
	return cloneProblem(s.problems[i]), nil
}

func (s *Store) ListProblems() []Problem {
	res := make([]Problem, len(s.problems))
	for i, p := range s.problems {
		res[i] = cloneProblem(p)
	}
	return res
}

func cloneProblem(p Problem) Problem {
	p.TestCases = slices.Clone(p.TestCases)
	return p
}
