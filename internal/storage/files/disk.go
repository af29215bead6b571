// Package files реализует дисковое хранилище вложений обращений.
//
// Файл сохраняется под сгенерированным именем (uuid + исходное расширение),
// наружу отдаётся только это имя-хэндл. Жизненным циклом вложения владеет
// обращение: при неудачном создании записи хэндл удаляется компенсирующим
// действием.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/mining-portal/internal/config"
	"github.com/magabrotheeeer/mining-portal/internal/lib/apperr"
)

// Store — хранилище вложений в каталоге на диске.
type Store struct {
	dir     string
	allowed map[string]struct{} // Пустая карта — принимаются файлы любых типов
}

// New создаёт каталог хранилища и возвращает Store.
func New(cfg config.Uploads) (*Store, error) {
	const op = "files.New"
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, ext := range cfg.AllowedTypes {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Store{
		dir:     cfg.Dir,
		allowed: allowed,
	}, nil
}

// Save записывает содержимое файла и возвращает хэндл сохранённого вложения.
// При непустом списке допустимых типов файл с другим расширением отклоняется
// с apperr.ErrValidation.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	const op = "files.Save"

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[ext]; !ok {
			if ext == "" {
				return "", fmt.Errorf("%s: %w: files without extension are not allowed", op, apperr.ErrValidation)
			}
			return "", fmt.Errorf("%s: %w: file type .%s is not allowed", op, apperr.ErrValidation, ext)
		}
	}

	handle := uuid.New().String()
	if ext != "" {
		handle += "." + ext
	}

	f, err := os.Create(filepath.Join(s.dir, handle))
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, apperr.ErrStorage, err)
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(filepath.Join(s.dir, handle))
		return "", fmt.Errorf("%s: %w: %w", op, apperr.ErrStorage, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, apperr.ErrStorage, err)
	}
	return handle, nil
}

// Delete удаляет сохранённое вложение по хэндлу.
func (s *Store) Delete(handle string) error {
	const op = "files.Delete"
	if err := os.Remove(filepath.Join(s.dir, handle)); err != nil {
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrStorage, err)
	}
	return nil
}

// Path возвращает путь к сохранённому вложению внутри каталога хранилища.
func (s *Store) Path(handle string) string {
	return filepath.Join(s.dir, handle)
}
