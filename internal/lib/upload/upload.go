// Package upload реализует сохранение изображений из multipart-запросов.
//
// Файл принимается только с image/* mime-типом и размером до 5 МБ,
// сохраняется в каталог загрузок под именем <поле>-<uuid>.<расширение>
// и в записях базы хранится относительным путём.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize — максимальный размер принимаемого изображения.
const MaxFileSize = 5 << 20

// ErrUnsupportedType возвращается, если загружаемый файл не является изображением.
var ErrUnsupportedType = errors.New("unsupported file type, expected an image")

// Saver сохраняет изображения в заданный каталог.
type Saver struct {
	dir string
}

// NewSaver создаёт Saver и гарантирует существование каталога загрузок.
func NewSaver(dir string) (*Saver, error) {
	const op = "upload.NewSaver"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Saver{dir: dir}, nil
}

// SaveFromRequest извлекает файл из поля field multipart-запроса и сохраняет его.
//
// Возвращает относительный путь сохранённого файла. Если поле отсутствует,
// возвращает пустой путь без ошибки: изображения везде опциональны.
func (s *Saver) SaveFromRequest(r *http.Request, field string) (string, error) {
	const op = "upload.SaveFromRequest"

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > MaxFileSize {
		return "", fmt.Errorf("%s: file exceeds %d bytes", op, int64(MaxFileSize))
	}

	ext, err := imageExt(file, header)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	name := fmt.Sprintf("%s-%s%s", field, uuid.New().String(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxFileSize)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(s.dir), name)), nil
}

// imageExt определяет расширение файла по mime-типу содержимого.
func imageExt(file multipart.File, header *multipart.FileHeader) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buf[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedType
	}

	if ext := filepath.Ext(header.Filename); ext != "" {
		return strings.ToLower(ext), nil
	}
	return "." + strings.TrimPrefix(contentType, "image/"), nil
}
