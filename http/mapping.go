package http

import (
	"github.com/programme-lv/dsalearn/content"
	"github.com/programme-lv/dsalearn/judge"
)

func mapOverview(categories []content.Category) Overview {
	res := make(Overview, len(categories))
	for _, c := range categories {
		topics := make([]TopicSummary, 0, len(c.Topics))
		for _, t := range c.Topics {
			topics = append(topics, TopicSummary{
				ID:          t.ID,
				Category:    c.ID,
				Title:       t.Title,
				Description: t.Description,
			})
		}
		res[c.ID] = topics
	}
	return res
}

func mapTopic(t content.Topic) *Topic {
	return &Topic{
		ID:          t.ID,
		Category:    t.Category,
		Title:       t.Title,
		Description: t.Description,
		Body:        t.Body,
	}
}

func mapProblemSummaries(problems []content.Problem) []ProblemSummary {
	res := make([]ProblemSummary, 0, len(problems))
	for _, p := range problems {
		res = append(res, ProblemSummary{
			ID:         p.ID,
			Title:      p.Title,
			Difficulty: p.Difficulty,
		})
	}
	return res
}

func mapProblem(p content.Problem) *Problem {
	return &Problem{
		ID:            p.ID,
		Title:         p.Title,
		Difficulty:    p.Difficulty,
		Description:   p.Description,
		StarterCode:   p.StarterCode,
		EntryPoint:    p.EntryPoint,
		TestCaseCount: len(p.TestCases),
	}
}

func mapSubmissionReport(report judge.SubmissionReport) *SubmitResponse {
	results := make([]TestResult, 0, len(report.Results))
	for _, r := range report.Results {
		results = append(results, TestResult{
			TestCase:      r.TestCase,
			Input:         r.Input,
			Expected:      r.Expected,
			Output:        r.Output,
			Stdout:        r.Stdout,
			Passed:        r.Passed,
			ExecutionTime: r.ExecutionTime,
			Error:         r.Error,
		})
	}
	return &SubmitResponse{
		SubmissionID: report.ID.String(),
		Success:      report.Success,
		AllPassed:    report.AllPassed,
		PassedCount:  report.PassedCount(),
		Results:      results,
	}
}
