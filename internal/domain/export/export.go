package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"clubktm/internal/domain/record"
)

// applicationColumns is the fixed column order of the applications export.
// The admin dashboard opens this file directly in a spreadsheet, so the order
// is part of the contract.
var applicationColumns = []string{
	"ID", "Name", "Email", "Phone", "Program", "Role", "Age", "Experience", "Message", "Submitted",
}

// ApplicationsCSV renders program application records as a CSV document with
// a header row. Missing fields become empty cells; record order is preserved.
func ApplicationsCSV(applications []record.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(applicationColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, app := range applications {
		age := ""
		if a := app.Int("age"); a > 0 {
			age = fmt.Sprintf("%d", a)
		}
		row := []string{
			fmt.Sprintf("%d", app.ID()),
			app.String("name"),
			app.String("email"),
			app.String("phone"),
			app.String("program"),
			app.String("role"),
			age,
			app.String("experience"),
			app.String("message"),
			app.String("submittedAt"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
