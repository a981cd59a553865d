package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/render"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Store persists rendered artifacts and hands back the path recorded on the
// report row.
type Store interface {
	Save(ctx context.Context, shopID, fileName string, content []byte) (string, error)
	Load(ctx context.Context, filePath string) ([]byte, error)
}

// LocalStore keeps artifacts on the local filesystem, one directory per shop.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Save(_ context.Context, shopID, fileName string, content []byte) (string, error) {
	dir := filepath.Join(s.baseDir, shopID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to create artifact directory").
			Mark(ierr.ErrSystem)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to write artifact file").
			Mark(ierr.ErrSystem)
	}
	return path, nil
}

func (s *LocalStore) Load(_ context.Context, filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read artifact file").
			Mark(ierr.ErrSystem)
	}
	return content, nil
}

// BuildFileName derives a unique artifact file name from the report type,
// window and format, e.g. tax-report_20240101-20240131_xYZ12A8Q.csv.
func BuildFileName(reportType string, window render.Window, format types.ExportFormat) string {
	name := strings.ToLower(strings.ReplaceAll(reportType, " ", "-"))
	if name == "" {
		name = "export"
	}
	return fmt.Sprintf("%s_%s-%s_%s.%s",
		name,
		window.Start.Format("20060102"),
		window.End.Format("20060102"),
		types.GenerateShortID(),
		format.Extension(),
	)
}
