package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"Hospital ID",
	"Hospital Name",
	"Wait Time",
	"Wait Minutes",
	"Severity",
	"District",
	"Region",
	"Source",
	"Last Updated",
	"Export Time",
}

// WriteCSV writes entries in their given order, one row per hospital.
func WriteCSV(w io.Writer, entries []Entry, updatedAt string, exportedAt time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	if updatedAt == "" {
		updatedAt = "Unknown"
	}
	exported := exportedAt.Format("2006-01-02 15:04:05")

	for _, e := range entries {
		row := []string{
			e.Hospital.ID,
			e.Hospital.Name,
			e.Record.WaitText,
			strconv.Itoa(e.Record.WaitMinutes),
			string(e.Record.Severity),
			e.Hospital.District,
			e.Hospital.Region,
			string(e.Record.Source),
			updatedAt,
			exported,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.Hospital.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
