package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", ValidationError("bad input"), http.StatusBadRequest},
		{"auth", AdminKeyRejected(), http.StatusForbidden},
		{"not found", StudentNotFound("x", "y"), http.StatusNotFound},
		{"roster unavailable", RosterUnavailable("students.csv", stderrors.New("enoent")), http.StatusServiceUnavailable},
		{"render", RenderFailed("CERT-1", stderrors.New("boom")), http.StatusInternalServerError},
		{"unclassified", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, adapter.StatusCodeFor(tc.err))
		})
	}
}

func TestWriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/verify", nil)

	adapter.WriteErrorResponse(rr, req, StudentNotFound("Ada", "S-1"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var payload HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "student not found", payload.Error)
	assert.Equal(t, string(CategoryNotFound), payload.Code)
	assert.Equal(t, "Ada", payload.Details["name"])
}

func TestCLIExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, 0, adapter.ExitCodeFor(nil))
	assert.Equal(t, 1, adapter.ExitCodeFor(SourceMissing("/abs/frontend/dist")))
	assert.Equal(t, 2, adapter.ExitCodeFor(ValidationError("bad flag")))
	assert.Equal(t, 7, adapter.ExitCodeFor(ConfigNotFound("config.yaml")))
	assert.Equal(t, 11, adapter.ExitCodeFor(CopyFailed("/a", "/b", stderrors.New("eio"))))
	assert.Equal(t, 1, adapter.ExitCodeFor(stderrors.New("plain")))
}

func TestCLIFormatPublishErrorNamesPath(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)
	msg := adapter.FormatError(SourceMissing("/abs/frontend/dist"))
	assert.Contains(t, msg, "/abs/frontend/dist")
}
