package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/google/uuid"
)

// LocalStaging keeps uploads in a directory on local disk. Every upload gets its own
// random name, so concurrent requests never share a file.
type LocalStaging struct {
	dir     string
	maxSize int64
}

func New(dir string, maxSize int64) (*LocalStaging, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("LocalStaging - New - os.MkdirAll: %w", err)
	}

	return &LocalStaging{dir: dir, maxSize: maxSize}, nil
}

func (s *LocalStaging) Stage(ctx context.Context, data io.Reader, originalName string) (*entity.StagedUpload, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	path := filepath.Join(s.dir, "upload-"+uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("LocalStaging - Stage - os.OpenFile: %w", err)
	}

	r := data
	if s.maxSize > 0 {
		r = io.LimitReader(data, s.maxSize+1)
	}

	n, err := io.Copy(f, r)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = fmt.Errorf("%w: upload exceeds %d bytes", errs.ErrValidation, s.maxSize)
	}
	if err == nil {
		err = ctx.Err()
	}

	if err != nil {
		_ = os.Remove(path)

		return nil, fmt.Errorf("LocalStaging - Stage: %w", err)
	}

	return &entity.StagedUpload{Path: path, OriginalName: originalName, Size: n}, nil
}

func (s *LocalStaging) Read(_ context.Context, upload *entity.StagedUpload) ([]byte, error) {
	b, err := os.ReadFile(upload.Path)
	if err != nil {
		return nil, fmt.Errorf("LocalStaging - Read - os.ReadFile: %w", err)
	}

	return b, nil
}

// Release removes the staged file. Releasing an already removed upload is not an error.
func (s *LocalStaging) Release(upload *entity.StagedUpload) error {
	err := os.Remove(upload.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("LocalStaging - Release - os.Remove: %w", err)
	}

	return nil
}
