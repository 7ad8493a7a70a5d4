package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
)

const fileField = "file"

var (
	errNoFile    = errors.New("no file part in form")
	errEmptyFile = errors.New("file part is empty")
)

// receivedFile is an uploaded file spooled to disk. The caller owns the
// temporary file and must call remove.
type receivedFile struct {
	name string
	path string
	size int64
}

func (f *receivedFile) remove() error {
	if f == nil {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove temp file: %w", err)
	}
	return nil
}

// receiveFile streams the multipart body of r and spools the first part
// named "file" that carries a file name into tempDir. Other parts are
// skipped. On error no temporary file is left behind.
func receiveFile(r *http.Request, tempDir string) (*receivedFile, error) {
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, checkPlainForm(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open multipart body: %w", err)
	}

	var received *receivedFile
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = received.remove()
			return nil, fmt.Errorf("failed to read multipart part: %w", err)
		}

		if received == nil && part.FormName() == fileField && part.FileName() != "" {
			received, err = spool(part, tempDir)
		}
		part.Close()
		if err != nil {
			return nil, err
		}
	}

	if received == nil {
		return nil, errNoFile
	}
	return received, nil
}

func spool(part *multipart.Part, tempDir string) (*receivedFile, error) {
	f, err := os.CreateTemp(tempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	received := &receivedFile{name: part.FileName(), path: f.Name()}

	n, err := io.Copy(f, part)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n == 0 {
		err = errEmptyFile
	}
	if err != nil {
		_ = received.remove()
		return nil, fmt.Errorf("failed to spool %q: %w", received.name, err)
	}

	received.size = n
	return received, nil
}

// checkPlainForm handles urlencoded and JSON bodies, which can never carry a
// file: a well-formed one yields errNoFile. Any other body is a parse error.
func checkPlainForm(r *http.Request) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("failed to parse content type: %w", err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("failed to read form body: %w", err)
		}
		if _, err := url.ParseQuery(string(body)); err != nil {
			return fmt.Errorf("failed to parse form body: %w", err)
		}
		return errNoFile
	case "application/json":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("failed to read json body: %w", err)
		}
		if !json.Valid(body) {
			return errors.New("failed to parse json body")
		}
		return errNoFile
	default:
		return fmt.Errorf("unsupported content type %q: %w", mediaType, http.ErrNotMultipart)
	}
}
