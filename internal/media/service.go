package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxImageSize = 10 << 20
	postsDir     = "posts"
)

var (
	ErrTooLarge    = errors.New("image is larger than 10 MB")
	ErrInvalidType = errors.New("upload a valid image: jpg, jpeg, png or gif")
)

var imageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var nowFn = time.Now

// Service stores post images below dir.
type Service struct {
	dir string
}

func NewService(dir string) *Service {
	return &Service{dir: dir}
}

// SaveImage validates and writes the upload, returning the path relative to
// the upload dir (posts/<date>-<uuid><ext>).
func (s *Service) SaveImage(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageTypes[ext] {
		return "", ErrInvalidType
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Join(s.dir, postsDir), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", nowFn().Format("20060102"), uuid.NewString(), ext)
	rel := postsDir + "/" + name
	dst, err := os.Create(filepath.Join(s.dir, postsDir, name))
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return rel, nil
}

// Delete removes a stored image. Missing files are ignored.
func (s *Service) Delete(rel string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
