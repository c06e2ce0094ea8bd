package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXLSX renders every sheet as a header line naming the sheet followed
// by its rows, cells joined with " | " and empty cells as empty strings.
func extractXLSX(data []byte) (Content, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Content{}, err
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		fmt.Fprintf(&sb, "--- Sheet: %s ---\n", sheet)

		rows, err := f.GetRows(sheet)
		if err != nil {
			return Content{}, fmt.Errorf("sheet %s: %w", sheet, err)
		}

		// GetRows drops trailing empty cells, so pad every row to the
		// sheet's widest row to keep the column count stable.
		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
		for _, row := range rows {
			padded := make([]string, width)
			copy(padded, row)
			sb.WriteString(strings.Join(padded, " | "))
			sb.WriteByte('\n')
		}
	}
	return Content{Kind: KindText, Text: sb.String()}, nil
}
