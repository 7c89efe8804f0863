package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ideahub/api/internal/middleware"
	"github.com/ideahub/api/internal/model"
)

func callerID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

func query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// queryInt parses a positive integer parameter, returning 0 when absent
func queryInt(r *http.Request, key string) (int, error) {
	raw := query(r, key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ValidationError{Fields: []model.FieldError{{Field: key, Message: key + " must be a positive integer"}}}
	}
	return n, nil
}

// pageParams reads page and limit, applying defaults and the limit cap
func pageParams(r *http.Request) (model.PageRequest, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return model.PageRequest{}, err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return model.PageRequest{}, err
	}
	return model.NewPageRequest(page, limit), nil
}

// optionalPageParams is pageParams for listings that are unpaginated unless
// the client asks for a page
func optionalPageParams(r *http.Request) (*model.PageRequest, error) {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("limit") {
		return nil, nil
	}
	p, err := pageParams(r)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// allowMethod answers 405 through rd unless r uses method
func allowMethod(w http.ResponseWriter, r *http.Request, rd Renderer, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	rd.Failure(w, model.NewMethodNotAllowedError(method))
	return false
}
