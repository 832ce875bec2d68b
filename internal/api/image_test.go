package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadImageWithoutStorage(t *testing.T) {
	router, _ := setupTestRouter(t)
	owner := registerUser(t, router, "owner")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, recipePath("/upload_image"), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+owner)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUploadImageRequiresFile(t *testing.T) {
	router, _ := setupTestRouter(t)
	owner := registerUser(t, router, "owner")

	w := doJSON(router, http.MethodPost, recipePath("/upload_image"), owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
