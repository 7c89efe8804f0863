package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ideahub/api/internal/middleware"
	"github.com/ideahub/api/internal/model"
)

// maxBodyBytes bounds request bodies; workspace documents are the largest
const maxBodyBytes = 4 << 20

// Response is what a handler produces on success. A Renderer turns it into
// the envelope of the entry-point family that serves the request.
type Response struct {
	Status     int
	Data       interface{}
	Pagination *model.Pagination
	// Extra fields are merged into the top level of the envelope
	Extra map[string]interface{}
}

// OK returns a 200 response carrying data
func OK(data interface{}) Response {
	return Response{Status: http.StatusOK, Data: data}
}

// Created returns a 201 response carrying data
func Created(data interface{}) Response {
	return Response{Status: http.StatusCreated, Data: data}
}

// Page returns a 200 response carrying a listing and its pagination
func Page(data interface{}, p *model.Pagination) Response {
	return Response{Status: http.StatusOK, Data: data, Pagination: p}
}

// With adds a top-level field to the envelope
func (r Response) With(key string, value interface{}) Response {
	extra := make(map[string]interface{}, len(r.Extra)+1)
	for k, v := range r.Extra {
		extra[k] = v
	}
	extra[key] = value
	r.Extra = extra
	return r
}

// Renderer writes responses and failures in one envelope family
type Renderer interface {
	Success(w http.ResponseWriter, resp Response)
	Failure(w http.ResponseWriter, problem *model.ProblemDetails)
}

// RouteRenderer produces the /api envelope:
//
//	{"success": true, "data": ..., "pagination": ...}
//	{"success": false, "message": ..., "error": ...}
type RouteRenderer struct{}

func (RouteRenderer) Success(w http.ResponseWriter, resp Response) {
	body := envelope(resp)
	body["success"] = true
	writeJSON(w, resp.Status, body)
}

func (RouteRenderer) Failure(w http.ResponseWriter, problem *model.ProblemDetails) {
	writeJSON(w, problem.Status, problem.RouteBody())
}

// FunctionRenderer produces the /functions envelope:
//
//	{"data": ..., "pagination": ...}
//	{"error": ...}
type FunctionRenderer struct{}

func (FunctionRenderer) Success(w http.ResponseWriter, resp Response) {
	writeJSON(w, resp.Status, envelope(resp))
}

func (FunctionRenderer) Failure(w http.ResponseWriter, problem *model.ProblemDetails) {
	writeJSON(w, problem.Status, map[string]string{"error": problem.Message()})
}

var (
	routes    Renderer = RouteRenderer{}
	functions Renderer = FunctionRenderer{}
)

func envelope(resp Response) map[string]interface{} {
	body := make(map[string]interface{}, len(resp.Extra)+2)
	for k, v := range resp.Extra {
		body[k] = v
	}
	if resp.Data != nil {
		body["data"] = resp.Data
	}
	if resp.Pagination != nil {
		body["pagination"] = resp.Pagination
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// fail logs err at the handler boundary and writes it through rd
func fail(w http.ResponseWriter, r *http.Request, rd Renderer, err error, op string) {
	problem := MapServiceError(err)

	attrs := []any{
		slog.String("op", op),
		slog.Int("status", problem.Status),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("error", err.Error()),
	}
	if problem.Status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Info("request rejected", attrs...)
	}

	rd.Failure(w, problem)
}

// ErrMalformedBody is returned by decodeJSON for bodies that are not a
// single JSON value of the expected shape
var ErrMalformedBody = errors.New("invalid request body")

// decodeJSON reads a JSON body into v. Unknown fields and trailing data are
// rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedBody)
	}
	return nil
}
