package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 4096

// ReadCSV parses the CSV file at path.
func ReadCSV(ctx context.Context, path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCSV(ctx, f)
}

// DecodeCSV parses CSV from r. A leading byte order mark is skipped and
// invalid UTF-8 is replaced.
func DecodeCSV(ctx context.Context, r io.Reader) (*core.Dataset, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1

	var rows [][]string
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, cleanRecord(rec))
	}

	header, records := splitHeader(rows)
	if header == nil {
		return &core.Dataset{}, nil
	}
	return buildDataset(header, records)
}
