package forms

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// Значения по умолчанию для файловых полей.
const (
	DefaultMaxSize  = 5_000_000
	DefaultMaxFiles = 5
)

// File — выбранный пользователем файл.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// ReadFile читает файл с диска. Тип содержимого определяется по первым байтам.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("чтение файла %s: %w", path, err)
	}
	return File{
		Name:        filepath.Base(path),
		ContentType: strings.SplitN(http.DetectContentType(data), ";", 2)[0],
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// AppendTo добавляет файл в multipart-тело под именем field.
func (f File) AppendTo(m *httpclient.Multipart, field string) {
	m.File(field, f.Name, f.ContentType, f.Data)
}

// size — Size, а если он не задан, длина Data.
func (f File) size() int64 {
	if f.Size > 0 {
		return f.Size
	}
	return int64(len(f.Data))
}

// megabytes округляет размер в байтах до целых мегабайт (10^6).
func megabytes(n int64) int64 {
	return int64(math.Floor(float64(n)/1_000_000 + 0.5))
}

func typeMessage(types []string) string {
	return "File type must be " + strings.Join(types, ", ")
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// FileRule — проверка одиночного файла.
type FileRule struct {
	Required      bool
	MaxSize       int64
	AcceptedTypes []string
}

// NewFileRule возвращает правило по умолчанию: файл обязателен, не более 5 MB.
func NewFileRule() FileRule {
	return FileRule{Required: true, MaxSize: DefaultMaxSize}
}

func (r FileRule) maxSize() int64 {
	if r.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return r.MaxSize
}

// Validate проверяет файл (nil — файл не выбран) и возвращает первую ошибку.
func (r FileRule) Validate(f *File) error {
	if f == nil {
		if r.Required {
			return errors.New("File is required") //nolint:staticcheck // сообщение для пользователя
		}
		return nil
	}
	return checkFile(*f, r.maxSize(), r.AcceptedTypes)
}

func checkFile(f File, maxSize int64, types []string) error {
	if f.size() == 0 {
		return errors.New("File is required") //nolint:staticcheck // сообщение для пользователя
	}
	if f.size() > maxSize {
		return fmt.Errorf("Max size is %dMB", megabytes(maxSize)) //nolint:staticcheck // сообщение для пользователя
	}
	if len(types) > 0 && !slices.Contains(types, f.ContentType) {
		return errors.New(typeMessage(types))
	}
	return nil
}

// FileArrayRule — проверка набора файлов.
// MinFiles и MaxFiles, равные 0, не ограничивают количество.
type FileArrayRule struct {
	Required      bool
	MinFiles      int
	MaxFiles      int
	MaxSize       int64
	AcceptedTypes []string
}

// NewFileArrayRule возвращает правило по умолчанию: необязательно, не более 5 файлов по 5 MB.
func NewFileArrayRule() FileArrayRule {
	return FileArrayRule{MaxFiles: DefaultMaxFiles, MaxSize: DefaultMaxSize}
}

// Validate проверяет набор файлов. nil означает, что поле не заполнено:
// это допустимо, если правило не требует хотя бы одного файла.
func (r FileArrayRule) Validate(files []File) error {
	if files == nil {
		if r.Required && r.MinFiles > 0 {
			return fmt.Errorf("Minimal %d file%s", r.MinFiles, plural(r.MinFiles)) //nolint:staticcheck // сообщение для пользователя
		}
		return nil
	}

	if r.MinFiles > 0 && len(files) < r.MinFiles {
		return fmt.Errorf("Minimal %d file%s", r.MinFiles, plural(r.MinFiles)) //nolint:staticcheck // сообщение для пользователя
	}
	if r.MaxFiles > 0 && len(files) > r.MaxFiles {
		return fmt.Errorf("Maksimal %d file%s", r.MaxFiles, plural(r.MaxFiles)) //nolint:staticcheck // сообщение для пользователя
	}

	maxSize := r.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	for _, f := range files {
		if f.size() > maxSize {
			return fmt.Errorf("Max size per file is %dMB", megabytes(maxSize)) //nolint:staticcheck // сообщение для пользователя
		}
	}
	if len(r.AcceptedTypes) > 0 {
		for _, f := range files {
			if !slices.Contains(r.AcceptedTypes, f.ContentType) {
				return errors.New(typeMessage(r.AcceptedTypes))
			}
		}
	}
	return nil
}

// FileOrURL — новый файл или ссылка на уже загруженный.
type FileOrURL struct {
	File *File
	URL  string
}

// FileOrURLRule — проверка поля «файл или ссылка».
type FileOrURLRule struct {
	Required      bool
	MaxSize       int64
	AcceptedTypes []string
}

// NewFileOrURLRule возвращает правило по умолчанию: значение обязательно, файл не более 5 MB.
func NewFileOrURLRule() FileOrURLRule {
	return FileOrURLRule{Required: true, MaxSize: DefaultMaxSize}
}

// Validate проверяет значение. Ссылка должна быть абсолютным URL;
// проверка типа применяется только к файлу.
func (r FileOrURLRule) Validate(v FileOrURL) error {
	switch {
	case v.File != nil:
		maxSize := r.MaxSize
		if maxSize <= 0 {
			maxSize = DefaultMaxSize
		}
		return checkFile(*v.File, maxSize, r.AcceptedTypes)
	case v.URL != "":
		if err := validate.Var(v.URL, "url"); err != nil {
			return errors.New("Invalid URL") //nolint:staticcheck // сообщение для пользователя
		}
		return nil
	case r.Required:
		return errors.New("File or URL is required") //nolint:staticcheck // сообщение для пользователя
	default:
		return nil
	}
}

// FileSelection — список выбранных файлов с ограничением количества.
type FileSelection struct {
	maxFiles int
	onError  func(msg string)
	files    []File
}

// NewFileSelection создаёт пустой список. maxFiles <= 0 заменяется DefaultMaxFiles.
func NewFileSelection(maxFiles int, onError func(msg string)) *FileSelection {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	return &FileSelection{maxFiles: maxFiles, onError: onError}
}

// Add добавляет файлы. Если вместе с уже выбранными их больше MaxFiles,
// список не меняется и OnError получает «Maksimal N foto».
func (s *FileSelection) Add(files ...File) []File {
	if len(s.files)+len(files) > s.maxFiles {
		if s.onError != nil {
			s.onError(fmt.Sprintf("Maksimal %d foto", s.maxFiles))
		}
		return s.Files()
	}
	s.files = append(s.files, files...)
	return s.Files()
}

// Remove удаляет файл по индексу. Индекс вне диапазона игнорируется.
func (s *FileSelection) Remove(i int) []File {
	if i >= 0 && i < len(s.files) {
		s.files = slices.Delete(s.files, i, i+1)
	}
	return s.Files()
}

// Files возвращает копию списка.
func (s *FileSelection) Files() []File {
	return slices.Clone(s.files)
}

// Full сообщает, что больше файлов добавить нельзя.
func (s *FileSelection) Full() bool {
	return len(s.files) >= s.maxFiles
}

// Summary — строка вида «2/5 foto dipilih».
func (s *FileSelection) Summary() string {
	return fmt.Sprintf("%d/%d foto dipilih", len(s.files), s.maxFiles)
}
