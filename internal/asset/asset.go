// Package asset stores uploaded product images and hands back the
// reference string recorded on the product (a relative path for the local
// backend, a public URL for the remote one).
package asset

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFileSize        = 5 << 20
	MaxFilesPerRequest = 5
)

var (
	ErrNotImage = errors.New("solo se permiten imágenes")
	ErrTooLarge = errors.New("la imagen supera el límite de 5MB")
)

type Store interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, ref string) error
}

func validate(fh *multipart.FileHeader) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return ErrNotImage
	}
	if fh.Size > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// objectName builds a collision-resistant name keeping the original
// extension: <unix-millis>-<random suffix><ext>.
func objectName(original string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, filepath.Ext(original))
}
