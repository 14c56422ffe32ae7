// Package upload builds the multipart bodies the backend's upload
// endpoints accept. Field names are part of the wire contract; callers
// own them.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/dkovach/encore-cli/internal/filehandler"
)

// Form accumulates one outgoing multipart body.
type Form struct {
	buf *bytes.Buffer
	w   *multipart.Writer
}

// NewForm starts an empty multipart body.
func NewForm() *Form {
	buf := &bytes.Buffer{}
	return &Form{buf: buf, w: multipart.NewWriter(buf)}
}

// Field appends one plain string entry.
func (f *Form) Field(name, value string) error {
	if err := f.w.WriteField(name, value); err != nil {
		return fmt.Errorf("write field %s: %w", name, err)
	}
	return nil
}

// File streams one local file under the given field name, with its real
// content type. Repeat the field name for multi-file uploads.
func (f *Form) File(field, path string) error {
	mimeType, err := filehandler.MIMEType(filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(path)))
	h.Set("Content-Type", mimeType)
	part, err := f.w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", field, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}

// Close finalizes the body and returns it with its content type,
// boundary included.
func (f *Form) Close() (*bytes.Buffer, string, error) {
	if err := f.w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return f.buf, f.w.FormDataContentType(), nil
}
