package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"ITOpsDashboard/internal/model"
)

// WriteCSV пишет заголовок и по одной строке на актив
func WriteCSV(w io.Writer, assets []model.Asset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, a := range assets {
		if err := cw.Write(Record(a)); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", a.SerialNumber, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
