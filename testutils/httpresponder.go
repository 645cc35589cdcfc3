package testutils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var CreatedDate = time.Date(2024, time.March, 1, 16, 54, 2, 651000000, time.UTC) // "2024-03-01T16:54:02.651Z"

var jsonHeader = http.Header{"Content-Type": []string{"application/json"}}

// Endpoint is a mocked API call answered with the content of a testdata file.
type Endpoint struct {
	Method string
	Url    string
	Data   string
	Code   int
}

var AuthResponder = MustJsonResponder(http.StatusOK, map[string]string{"access_token": Token})
var NoContentResponder = httpmock.NewStringResponder(http.StatusNoContent, "")
var GarbageResponder = httpmock.NewStringResponder(http.StatusOK, "{\"foo\": \"bar\"").HeaderSet(jsonHeader)

func MustJsonResponder(code int, body any) httpmock.Responder {
	responder, err := httpmock.NewJsonResponder(code, body)
	if err != nil {
		panic(err)
	}
	return responder
}

// ItemResponder answers with the envelope of a single resource.
func ItemResponder(code int, item any) httpmock.Responder {
	return MustJsonResponder(code, map[string]any{"data": map[string]any{"item": item}})
}

// ListResponder answers with the envelope of one page of a collection.
func ListResponder(items any, total, currentPage, totalPages int) httpmock.Responder {
	return MustJsonResponder(http.StatusOK, map[string]any{
		"data":        map[string]any{"items": items},
		"total":       total,
		"currentPage": currentPage,
		"totalPages":  totalPages,
	})
}

// ErrorResponder answers with the error body the API sends on failures.
func ErrorResponder(code int, message string) httpmock.Responder {
	return MustJsonResponder(code, map[string]string{"message": message})
}

// SetupMockResponder registers a responder returning the content of the data file.
func SetupMockResponder(t *testing.T, method, url, data string, code int) {
	t.Helper()
	content, err := os.ReadFile(data)
	require.NoError(t, err)
	httpmock.RegisterResponder(method, url, httpmock.NewBytesResponder(code, content).HeaderSet(jsonHeader))
}

// NewAPIServer starts a real HTTP server closed at the end of the test.
func NewAPIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// Execute runs the command with args and returns what it printed on stdout.
func Execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out, _, err := ExecuteC(t, c, args...)
	return out, err
}

// ExecuteC runs the command with args and returns what it printed on stdout and stderr.
func ExecuteC(t *testing.T, c *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	c.SetOut(stdout)
	c.SetErr(stderr)
	c.SetArgs(args)

	err := c.Execute()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}
