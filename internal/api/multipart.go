package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
)

// Form accumulates fields and file parts for multipart/form-data requests
// (product and category writes carry image files).
type Form struct {
	fields map[string]string
	files  []filePart
}

type filePart struct {
	field    string
	filename string
	reader   io.Reader
}

func NewForm() *Form {
	return &Form{fields: make(map[string]string)}
}

func (f *Form) AddField(name, value string) *Form {
	f.fields[name] = value
	return f
}

func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, filePart{field: field, filename: filename, reader: r})
	return f
}

// PostForm sends form as multipart/form-data via POST.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out interface{}) error {
	return c.doForm(ctx, http.MethodPost, path, form, out)
}

// PatchForm sends form as multipart/form-data via PATCH.
func (c *Client) PatchForm(ctx context.Context, path string, form *Form, out interface{}) error {
	return c.doForm(ctx, http.MethodPatch, path, form, out)
}

func (c *Client) doForm(ctx context.Context, method, path string, form *Form, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range form.fields {
		if err := writer.WriteField(name, value); err != nil {
			return &Error{Status: 500, Message: "failed to encode form field", Cause: err}
		}
	}
	for _, file := range form.files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return &Error{Status: 500, Message: "failed to encode form file", Cause: err}
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return &Error{Status: 500, Message: "failed to read form file", Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return &Error{Status: 500, Message: "failed to finalize form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return &Error{Status: 500, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, path, out)
}
