package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var errTooLarge = errors.New("upload too large")

type upload struct {
	Filename string
	Data     []byte
}

// parseUpload reads the multipart body, limited to h.maxUpload bytes. A
// request that is not multipart parses as having no files.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	err := r.ParseMultipartForm(maxMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return nil
	case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
		return errTooLarge
	default:
		return err
	}
}

func hasFiles(r *http.Request) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File) > 0
}

// formFile reads the first file uploaded under field. It returns nil when
// the field is absent.
func formFile(r *http.Request, field string) (*upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return &upload{Filename: headers[0].Filename, Data: data}, nil
}
