package tabular

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

// ErrUnsupportedFormat is returned for extensions no reader handles.
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", core.ErrInvalidFileType)

// Reader dispatches on the file extension. It implements
// core.DatasetReader.
type Reader struct{}

// ReadDataset parses path according to ext (without the dot, any case).
func (Reader) ReadDataset(ctx context.Context, path, ext string) (*core.Dataset, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv":
		return ReadCSV(ctx, path)
	case "xlsx":
		return ReadXLSX(ctx, path)
	case "xls":
		return ReadXLS(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadFile parses path using its own extension.
func ReadFile(ctx context.Context, path string) (*core.Dataset, error) {
	return Reader{}.ReadDataset(ctx, path, filepath.Ext(path))
}
