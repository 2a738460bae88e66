package tabular

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

// ReadXLSX parses the first worksheet of the workbook at path. Cells are
// read as displayed, so dates arrive in their number format and are parsed
// like any other date text.
func ReadXLSX(ctx context.Context, path string) (*core.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("parse xlsx: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: sheet %s: %w", sheets[0], err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, row := range rows {
		cleanRecord(row)
	}

	header, records := splitHeader(rows)
	if header == nil {
		return &core.Dataset{}, nil
	}
	return buildDataset(header, records)
}
