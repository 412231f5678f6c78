package content

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/dsalearn/srvcerror"
)

const ErrCodeTopicNotFound = "topic_not_found"

func ErrTopicNotFound(category, topicID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeTopicNotFound,
		"Topic not found",
	).SetDebug(fmt.Errorf("no topic %q in category %q", topicID, category)).
		SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeProblemNotFound = "problem_not_found"

func ErrProblemNotFound(problemID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeProblemNotFound,
		"Problem not found",
	).SetDebug(fmt.Errorf("no problem %q", problemID)).
		SetHttpStatusCode(http.StatusNotFound)
}
