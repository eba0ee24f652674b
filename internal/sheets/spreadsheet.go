package sheets

import (
	"context"
	"errors"
	"fmt"

	sheetsapi "google.golang.org/api/sheets/v4"
)

// ErrWorksheetNotFound is returned by Store.Worksheet when no sheet of
// the requested title exists in the spreadsheet.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// Store is an open spreadsheet.
type Store interface {
	Worksheet(ctx context.Context, title string) (Worksheet, error)
	AddWorksheet(ctx context.Context, title string, rows, cols int64) (Worksheet, error)
}

// Worksheet exposes the row-level operations the repository needs.
// All row numbers are 1-based, matching the sheet UI.
type Worksheet interface {
	// Row reads a single row. A row past the end of the data comes
	// back nil, not an error.
	Row(ctx context.Context, n int) ([]string, error)
	// Rows reads every populated row, header included.
	Rows(ctx context.Context) ([][]string, error)
	// Update writes values at an A1 range relative to this sheet,
	// e.g. "B3:E3" or "G5".
	Update(ctx context.Context, a1Range string, values [][]string) error
	// Append adds one row after the last populated row.
	Append(ctx context.Context, row []string) error
	// DeleteRow removes row n entirely; rows below shift up.
	DeleteRow(ctx context.Context, n int) error
}

// OpenStore opens a spreadsheet by its ID.
type OpenStore func(ctx context.Context, spreadsheetID string) (Store, error)

// Spreadsheet is the live implementation of Store over the Sheets API.
type Spreadsheet struct {
	svc  *sheetsapi.Service
	id   string
	meta *sheetsapi.Spreadsheet
}

// Open fetches spreadsheet metadata by ID. API failures (not found,
// permission, quota) come back unwrapped for the caller to map.
func Open(ctx context.Context, svc *sheetsapi.Service, spreadsheetID string) (*Spreadsheet, error) {
	meta, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", spreadsheetID, err)
	}
	return &Spreadsheet{svc: svc, id: spreadsheetID, meta: meta}, nil
}

func (s *Spreadsheet) Worksheet(ctx context.Context, title string) (Worksheet, error) {
	for _, sh := range s.meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return &worksheet{svc: s.svc, spreadsheetID: s.id, title: title, sheetID: sh.Properties.SheetId}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
}

func (s *Spreadsheet) AddWorksheet(ctx context.Context, title string, rows, cols int64) (Worksheet, error) {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: title,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    rows,
						ColumnCount: cols,
					},
				},
			},
		}},
	}
	resp, err := s.svc.Spreadsheets.BatchUpdate(s.id, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("add worksheet %q: %w", title, err)
	}
	props := resp.Replies[0].AddSheet.Properties
	return &worksheet{svc: s.svc, spreadsheetID: s.id, title: title, sheetID: props.SheetId}, nil
}

type worksheet struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	title         string
	sheetID       int64
}

func (w *worksheet) Row(ctx context.Context, n int) ([]string, error) {
	rng := fmt.Sprintf("%s!%d:%d", w.title, n, n)
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read row %d: %w", n, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (w *worksheet) Rows(ctx context.Context) ([][]string, error) {
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, w.title).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, v := range resp.Values {
		rows = append(rows, toStrings(v))
	}
	return rows, nil
}

func (w *worksheet) Update(ctx context.Context, a1Range string, values [][]string) error {
	vr := &sheetsapi.ValueRange{Values: toInterfaces(values)}
	_, err := w.svc.Spreadsheets.Values.
		Update(w.spreadsheetID, w.title+"!"+a1Range, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", a1Range, err)
	}
	return nil
}

func (w *worksheet) Append(ctx context.Context, row []string) error {
	vr := &sheetsapi.ValueRange{Values: toInterfaces([][]string{row})}
	_, err := w.svc.Spreadsheets.Values.
		Append(w.spreadsheetID, w.title, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (w *worksheet) DeleteRow(ctx context.Context, n int) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    w.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(n - 1),
					EndIndex:   int64(n),
				},
			},
		}},
	}
	_, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row %d: %w", n, err)
	}
	return nil
}

func toStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprint(c)
	}
	return out
}

func toInterfaces(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		out[i] = cells
	}
	return out
}
