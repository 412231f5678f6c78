package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/dsalearn/httpjson"
)

const (
	overviewCacheKey = "overview"
	problemsCacheKey = "problems"
)

func topicCacheKey(category, topicID string) string {
	return fmt.Sprintf("topic:%s/%s", category, topicID)
}

func problemCacheKey(problemID string) string {
	return fmt.Sprintf("problem:%s", problemID)
}

// cachedView returns the rendered view under key, building it at most once
// per key even when many requests miss the cache at the same time.
// Errors are not cached.
func cachedView[T any](httpserver *HttpServer, key string, build func() (T, error)) (T, error) {
	if cached, found := httpserver.viewCache.Get(key); found {
		if view, ok := cached.(T); ok {
			return view, nil
		}
	}

	result, err, _ := httpserver.sfGroup.Do(key, func() (any, error) {
		if cached, found := httpserver.viewCache.Get(key); found {
			if view, ok := cached.(T); ok {
				return view, nil
			}
		}
		view, err := build()
		if err != nil {
			return nil, err
		}
		httpserver.viewCache.SetDefault(key, view)
		return view, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (httpserver *HttpServer) getOverview(w http.ResponseWriter, r *http.Request) {
	overview, _ := cachedView(httpserver, overviewCacheKey, func() (Overview, error) {
		return mapOverview(httpserver.content.Categories()), nil
	})
	httpjson.WriteSuccessJson(w, overview)
}

func (httpserver *HttpServer) getTopic(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	topicID := chi.URLParam(r, "topicId")

	topic, err := cachedView(httpserver, topicCacheKey(category, topicID), func() (*Topic, error) {
		t, err := httpserver.content.GetTopic(category, topicID)
		if err != nil {
			return nil, err
		}
		return mapTopic(t), nil
	})
	if err != nil {
		httpjson.HandleError(httplog.LogEntry(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, topic)
}

func (httpserver *HttpServer) listProblems(w http.ResponseWriter, r *http.Request) {
	problems, _ := cachedView(httpserver, problemsCacheKey, func() ([]ProblemSummary, error) {
		return mapProblemSummaries(httpserver.content.ListProblems()), nil
	})
	httpjson.WriteSuccessJson(w, problems)
}

func (httpserver *HttpServer) getProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemId")

	problem, err := cachedView(httpserver, problemCacheKey(problemID), func() (*Problem, error) {
		p, err := httpserver.content.GetProblem(problemID)
		if err != nil {
			return nil, err
		}
		return mapProblem(p), nil
	})
	if err != nil {
		httpjson.HandleError(httplog.LogEntry(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, problem)
}

func ping(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, json.RawMessage(`{"status":"ok"}`))
}
