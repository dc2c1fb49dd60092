package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/rantaucash/rantaucash-api/api/openapi"
)

// plainPaths answer with text, HTML or the document itself.
var plainPaths = map[string]bool{
	"/":                 true,
	"/healthz":          true,
	"/readyz":           true,
	"/docs":             true,
	"/api/openapi.yaml": true,
}

// OpenAPIValidator checks API responses against the embedded contract.
type OpenAPIValidator struct {
	router routers.Router
}

// NewOpenAPIValidator loads the contract or fails the test.
func NewOpenAPIValidator(t *testing.T) *OpenAPIValidator {
	t.Helper()

	v, err := LoadOpenAPIValidator()
	if err != nil {
		t.Fatalf("load OpenAPI validator: %v", err)
	}
	return v
}

// LoadOpenAPIValidator parses and validates the embedded contract. Use it in
// TestMain where no *testing.T exists.
func LoadOpenAPIValidator() (*OpenAPIValidator, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapi.Spec)
	if err != nil {
		return nil, fmt.Errorf("parse OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("create OpenAPI router: %w", err)
	}
	return &OpenAPIValidator{router: router}, nil
}

// Check validates one response. Undocumented status codes are errors.
func (v *OpenAPIValidator) Check(method, path string, status int, header http.Header, body []byte) error {
	if plainPaths[path] {
		return nil
	}

	routeReq, err := http.NewRequest(method, path, nil)
	if err != nil {
		return fmt.Errorf("build route request: %w", err)
	}
	route, pathParams, err := v.router.FindRoute(routeReq)
	if err != nil {
		return fmt.Errorf("%s %s is not documented: %w", method, path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    routeReq,
			PathParams: pathParams,
			Route:      route,
		},
		Status: status,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			MultiError:            true,
			IncludeResponseStatus: true,
		},
	}
	return openapi3filter.ValidateResponse(context.Background(), input)
}

// ValidateResponse reports a contract violation on t. The response body is
// read and replaced so callers can still decode it.
func (v *OpenAPIValidator) ValidateResponse(t *testing.T, req *http.Request, resp *http.Response) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Errorf("read response body: %v", err)
		return
	}
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	if err := v.Check(req.Method, req.URL.Path, resp.StatusCode, resp.Header, body); err != nil {
		t.Errorf("%s %s returned %d outside the OpenAPI contract: %s\n%s",
			req.Method, req.URL.Path, resp.StatusCode, shorten(err.Error(), 500), describeBody(body))
	}
}

// describeBody summarizes an API body: the {error, details} envelope when
// present, otherwise the raw text.
func describeBody(body []byte) string {
	var envelope struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		if len(envelope.Details) > 0 {
			return fmt.Sprintf("error=%q details=%s", envelope.Error, shorten(string(envelope.Details), 200))
		}
		return fmt.Sprintf("error=%q", envelope.Error)
	}
	return "body: " + shorten(strings.TrimSpace(string(body)), 200)
}

func shorten(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
