package httpclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// Multipart — тело multipart/form-data (создание и закрытие тикета с вложениями).
// Поля и файлы кодируются в порядке добавления.
type Multipart struct {
	parts []part
}

type part struct {
	name        string
	value       string
	filename    string
	contentType string
	data        []byte
	isFile      bool
}

// defaultFilename — имя файла, если вызывающий его не указал (как у FormData для Blob).
const defaultFilename = "blob"

// NewMultipart создаёт пустое multipart-тело.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field добавляет текстовое поле.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, part{name: name, value: value})
	return m
}

// File добавляет файл. Пустой contentType заменяется application/octet-stream,
// пустое имя файла — "blob".
func (m *Multipart) File(name, filename, contentType string, data []byte) *Multipart {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if filename == "" {
		filename = defaultFilename
	}
	m.parts = append(m.parts, part{
		name:        name,
		filename:    filename,
		contentType: contentType,
		data:        data,
		isFile:      true,
	})
	return m
}

// Len возвращает количество частей.
func (m *Multipart) Len() int { return len(m.parts) }

// encode сериализует тело и возвращает его вместе с Content-Type (с boundary).
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, p := range m.parts {
		if !p.isFile {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("поле %s: %w", p.name, err)
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.filename))
		h.Set("Content-Type", p.contentType)
		fw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("файл %s: %w", p.filename, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return nil, "", fmt.Errorf("файл %s: %w", p.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("закрытие multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
