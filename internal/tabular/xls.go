package tabular

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/extrame/xls"

	"github.com/JonMunkholm/sqluploader/internal/core"
)

// xlsCharset is the charset passed to the BIFF reader for legacy
// non-Unicode strings.
const xlsCharset = "utf-8"

// ReadXLS parses the first worksheet of a legacy .xls workbook at path.
func ReadXLS(ctx context.Context, path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("parse xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("parse xls: workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("parse xls: first sheet is unreadable")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = cleanCell(row.Col(j))
		}
		rows = append(rows, cells)
	}

	header, records := splitHeader(rows)
	if header == nil {
		return &core.Dataset{}, nil
	}
	return buildDataset(header, records)
}
