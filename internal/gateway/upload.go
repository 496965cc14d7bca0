package gateway

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	apperrors "careerhub-client/internal/shared/errors"
)

// UploadFile is one file sent as multipart/form-data.
type UploadFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Upload posts file as multipart/form-data through the same classification
// path as Do. Uploads are always authenticated.
func (c *Client) Upload(ctx context.Context, path string, file UploadFile, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(file.Field, file.Filename)
	if err != nil {
		return apperrors.NewInternalError("build multipart body").WithCause(err).WithComponent(componentName)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return apperrors.NewInternalError("read upload content").WithCause(err).WithComponent(componentName)
	}
	if err := w.Close(); err != nil {
		return apperrors.NewInternalError("finish multipart body").WithCause(err).WithComponent(componentName)
	}

	req := Request{Method: http.MethodPost, Path: path, Authenticated: true}
	return c.send(ctx, req, &buf, w.FormDataContentType(), out)
}
