package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/foldery"
	folderyhttp "github.com/sagarc03/foldery/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_Kinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found sentinel", foldery.ErrNotFound, http.StatusNotFound, "not_found", "Resource not found."},
		{"wrapped already exists sentinel", fmt.Errorf("create folder: create bucket b: %w", foldery.ErrAlreadyExists), http.StatusConflict, "already_exists", "Resource already exists."},
		{"wrapped not found", fmt.Errorf("get: %w", foldery.E(foldery.KindNotFound, "get folder", "Folder with ID x not found.")), http.StatusNotFound, "not_found", "Folder with ID x not found."},
		{"permission denied", foldery.E(foldery.KindPermissionDenied, "get folder", "You do not have permission to access or modify this folder."), http.StatusForbidden, "permission_denied", "You do not have permission to access or modify this folder."},
		{"invalid identifier", foldery.E(foldery.KindInvalidIdentifier, "sanitize bucket name", "Invalid bucket name: ab."), http.StatusBadRequest, "invalid_identifier", "Invalid bucket name: ab."},
		{"already exists", foldery.E(foldery.KindAlreadyExists, "create bucket", "Bucket b already exists."), http.StatusConflict, "already_exists", "Bucket b already exists."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			folderyhttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var resp folderyhttp.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, tt.message, resp.Message)
			assert.Nil(t, resp.Details)
		})
	}
}

func TestHandleError_StorageUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()

	folderyhttp.HandleError(rec, foldery.Wrap(foldery.KindStorageUnavailable, "bucket exists b", errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "storage_unavailable")
}

func TestHandleError_Unclassified(t *testing.T) {
	rec := httptest.NewRecorder()

	err := fmt.Errorf("list folders: %w", errors.Join(errors.New("scan failed"), context.DeadlineExceeded))
	folderyhttp.HandleError(rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp folderyhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "internal_error", resp.Error)
	assert.Equal(t, "Internal server error", resp.Message)
	require.NotEmpty(t, resp.Details)
	assert.Equal(t, err.Error(), resp.Details[0])
	assert.Contains(t, resp.Details, "scan failed")
	assert.Contains(t, resp.Details, context.DeadlineExceeded.Error())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	folderyhttp.WriteError(rec, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"method_not_allowed","message":"Method Not Allowed"}`, rec.Body.String())
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := folderyhttp.WriteJSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}
