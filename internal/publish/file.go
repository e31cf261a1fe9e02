package publish

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/elkit/internal/errors"
)

// FilePublisher writes documents below a directory.
type FilePublisher struct {
	dir string
}

// NewFilePublisher creates a publisher rooted at dir. The directory is
// created on first publish.
func NewFilePublisher(dir string) *FilePublisher {
	return &FilePublisher{dir: dir}
}

// Dir returns the root directory.
func (p *FilePublisher) Dir() string { return p.dir }

// Publish writes body to dir/name.
func (p *FilePublisher) Publish(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(p.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New("E060").WithOp("publish").WithDetail(path).Wrap(err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.New("E060").WithOp("publish").WithDetail(path).Wrap(err)
	}
	return nil
}
