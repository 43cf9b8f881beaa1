// Package http serves the spendwise web interface and its JSON API.
//
// This file implements a small fluent builder for responses so handlers set
// status, headers and body the same way whether they answer with HTML, JSON
// or a redirect.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// ResponseBuilder provides a fluent API for building responses.
type ResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the response body as bytes.
func (b *ResponseBuilder) Body(content []byte) *ResponseBuilder {
	b.body = content
	return b
}

// BodyString sets the response body as plain text.
func (b *ResponseBuilder) BodyString(content string) *ResponseBuilder {
	b.headers["Content-Type"] = "text/plain; charset=utf-8"
	b.body = []byte(content)
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *ResponseBuilder) BodyHTML(html string) *ResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// BodyJSON encodes v as the response body. An encoding failure turns the
// response into a 500.
func (b *ResponseBuilder) BodyJSON(v any) *ResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.statusCode = http.StatusInternalServerError
		return b.BodyString("failed to encode response")
	}
	b.headers["Content-Type"] = "application/json"
	b.body = data
	return b
}

// Redirect turns the response into a 303 See Other to location, the
// post/redirect/get answer to a form submission.
func (b *ResponseBuilder) Redirect(location string) *ResponseBuilder {
	b.statusCode = http.StatusSeeOther
	b.headers["Location"] = location
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + escapedMsg + `</div>`)
}

// JSONError answers API clients with {"error": message}.
func JSONError(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).BodyJSON(map[string]string{"error": message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// ConflictError creates a 409 Conflict error response.
func ConflictError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}
