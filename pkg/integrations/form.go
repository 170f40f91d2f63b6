package integrations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
)

// Form is a multipart/form-data body. Parts are written in the order they
// were added; platforms like Modrinth require the JSON part to come first.
type Form struct {
	parts []formPart
}

type formPart struct {
	name        string
	filename    string
	contentType string
	value       []byte
	path        string
}

// NewForm creates an empty form.
func NewForm() *Form { return &Form{} }

// AddJSON adds a field holding v encoded as JSON.
func (f *Form) AddJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode form field %s: %w", name, err)
	}
	f.parts = append(f.parts, formPart{name: name, contentType: "application/json", value: data})
	return nil
}

// AddFile adds a file part read from path when the form is encoded.
func (f *Form) AddFile(name, filename, path string) *Form {
	f.parts = append(f.parts, formPart{name: name, filename: filename, path: path})
	return f
}

// Len returns the number of parts.
func (f *Form) Len() int { return len(f.parts) }

// Encode renders the form and returns its content type and body.
func (f *Form) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range f.parts {
		if err := p.write(w); err != nil {
			return "", nil, err
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

func (p formPart) write(w *multipart.Writer) error {
	if p.path == "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, p.name))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		_, err = pw.Write(p.value)
		return err
	}

	file, err := os.Open(p.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.path, err)
	}
	defer file.Close()

	pw, err := w.CreateFormFile(p.name, p.filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(pw, file); err != nil {
		return fmt.Errorf("read %s: %w", p.path, err)
	}
	return nil
}
