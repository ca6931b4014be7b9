package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxErrorMessageLen bounds messages lifted from HTML error pages.
const maxErrorMessageLen = 200

// Error represents a failed API call.
type Error struct {
	Method     string
	Path       string
	StatusCode int      // 0 when the request never got a response
	Message    string   // server-supplied message, if any
	Invalid    []string // addresses rejected by the mail endpoint
	Cause      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s", e.Method, e.Path))
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf(": HTTP status %d", e.StatusCode))
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}
	if len(e.Invalid) > 0 {
		sb.WriteString(" (invalid: " + strings.Join(e.Invalid, ", ") + ")")
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an API 401 or 403.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Reply   string   `json:"reply"`
	Detail  string   `json:"detail"`
	Invalid []string `json:"invalid"`
}

// newStatusError builds an *Error from a non-2xx response body. JSON bodies
// use whichever of error/message/reply/detail is set; HTML pages (proxy
// errors, framework debug pages) are reduced to their title or first heading.
func newStatusError(method, path string, status int, contentType string, body []byte) *Error {
	apiErr := &Error{Method: method, Path: path, StatusCode: status}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return apiErr
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, candidate := range []string{parsed.Error, parsed.Message, parsed.Reply, parsed.Detail} {
			if candidate != "" {
				apiErr.Message = candidate
				break
			}
		}
		apiErr.Invalid = parsed.Invalid
		return apiErr
	}

	if strings.Contains(contentType, "html") || strings.HasPrefix(trimmed, "<") {
		apiErr.Message = summarizeHTML(trimmed)
		return apiErr
	}

	apiErr.Message = truncate(trimmed)
	return apiErr
}

// summarizeHTML extracts a short human-readable message from an HTML page.
func summarizeHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return truncate(html)
	}

	for _, selector := range []string{"title", "h1", "h2", "body"} {
		text := strings.Join(strings.Fields(doc.Find(selector).First().Text()), " ")
		if text != "" {
			return truncate(text)
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) <= maxErrorMessageLen {
		return s
	}
	cut := maxErrorMessageLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
