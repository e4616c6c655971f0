package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
)

// Field is a plain multipart form value.
type Field struct {
	Name  string
	Value string
}

// File is a multipart file part.
type File struct {
	Field    string
	Filename string
	Data     []byte
}

// Multipart is a request body sent as multipart/form-data.
type Multipart struct {
	Fields []Field
	Files  []File
}

// Add appends a form value.
func (m *Multipart) Add(name, value string) {
	m.Fields = append(m.Fields, Field{Name: name, Value: value})
}

// AddFile appends a file part.
func (m *Multipart) AddFile(field, filename string, data []byte) {
	m.Files = append(m.Files, File{Field: field, Filename: filename, Data: data})
}

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Filename, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

const contentTypeJSON = "application/json"

// encodeBody renders body once so it can be replayed on retry.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, contentTypeJSON, nil
	case *Multipart:
		return b.encode()
	case []byte:
		return b, contentTypeJSON, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, contentTypeJSON, nil
	}
}
