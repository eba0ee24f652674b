package tests

import (
	"context"
	"fmt"

	"todo-sheets/internal/sheets"
)

// Header is the correct 7-column schema for row 1 of the Todos sheet.
func Header() []string {
	return []string{"ID", "Title", "Content", "DueDate", "Priority", "CreatedAt", "Status"}
}

// FakeWorksheet is an in-memory worksheet. It counts reads and writes
// so tests can assert cache behavior and schema-repair idempotence.
type FakeWorksheet struct {
	Cells [][]string // Cells[0] is sheet row 1

	ReadCalls     int // Rows calls
	WriteCalls    int // Update + Append + DeleteRow
	UpdatedRanges []string
	Appended      [][]string

	RowsErr error // returned by Rows when set
}

var _ sheets.Worksheet = (*FakeWorksheet)(nil)

func (w *FakeWorksheet) Row(ctx context.Context, n int) ([]string, error) {
	if n < 1 || n > len(w.Cells) {
		return nil, nil
	}
	return append([]string(nil), w.Cells[n-1]...), nil
}

func (w *FakeWorksheet) Rows(ctx context.Context) ([][]string, error) {
	w.ReadCalls++
	if w.RowsErr != nil {
		return nil, w.RowsErr
	}
	out := make([][]string, len(w.Cells))
	for i, row := range w.Cells {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (w *FakeWorksheet) Update(ctx context.Context, a1Range string, values [][]string) error {
	w.WriteCalls++
	w.UpdatedRanges = append(w.UpdatedRanges, a1Range)

	col, row, err := parseA1(a1Range)
	if err != nil {
		return err
	}
	for i, vals := range values {
		for j, v := range vals {
			w.set(row+i, col+j, v)
		}
	}
	return nil
}

func (w *FakeWorksheet) Append(ctx context.Context, row []string) error {
	w.WriteCalls++
	w.Appended = append(w.Appended, append([]string(nil), row...))
	w.Cells = append(w.Cells, append([]string(nil), row...))
	return nil
}

func (w *FakeWorksheet) DeleteRow(ctx context.Context, n int) error {
	w.WriteCalls++
	if n < 1 || n > len(w.Cells) {
		return fmt.Errorf("no row %d", n)
	}
	w.Cells = append(w.Cells[:n-1], w.Cells[n:]...)
	return nil
}

// set grows the grid as needed and writes one cell. Rows and columns
// are 1-based.
func (w *FakeWorksheet) set(row, col int, value string) {
	for len(w.Cells) < row {
		w.Cells = append(w.Cells, nil)
	}
	for len(w.Cells[row-1]) < col {
		w.Cells[row-1] = append(w.Cells[row-1], "")
	}
	w.Cells[row-1][col-1] = value
}

// parseA1 understands the ranges the repository writes: "G5" or
// "B3:E3". Only single-letter columns exist in a 7-column schema.
func parseA1(a1 string) (col, row int, err error) {
	if len(a1) < 2 || a1[0] < 'A' || a1[0] > 'Z' {
		return 0, 0, fmt.Errorf("bad range %q", a1)
	}
	col = int(a1[0]-'A') + 1
	i := 1
	for i < len(a1) && a1[i] >= '0' && a1[i] <= '9' {
		row = row*10 + int(a1[i]-'0')
		i++
	}
	if row == 0 || (i < len(a1) && a1[i] != ':') {
		return 0, 0, fmt.Errorf("bad range %q", a1)
	}
	return col, row, nil
}

// FakeStore is an in-memory spreadsheet.
type FakeStore struct {
	Sheets map[string]*FakeWorksheet
	Added  []string // worksheet titles created via AddWorksheet
}

var _ sheets.Store = (*FakeStore)(nil)

// NewFakeStore seeds a store whose Todos worksheet has a correct
// header followed by the given data rows.
func NewFakeStore(dataRows ...[]string) *FakeStore {
	ws := &FakeWorksheet{Cells: [][]string{Header()}}
	for _, row := range dataRows {
		ws.Cells = append(ws.Cells, append([]string(nil), row...))
	}
	return &FakeStore{Sheets: map[string]*FakeWorksheet{"Todos": ws}}
}

// NewEmptyFakeStore has no worksheets at all.
func NewEmptyFakeStore() *FakeStore {
	return &FakeStore{Sheets: map[string]*FakeWorksheet{}}
}

func (s *FakeStore) Worksheet(ctx context.Context, title string) (sheets.Worksheet, error) {
	ws, ok := s.Sheets[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sheets.ErrWorksheetNotFound, title)
	}
	return ws, nil
}

func (s *FakeStore) AddWorksheet(ctx context.Context, title string, rows, cols int64) (sheets.Worksheet, error) {
	ws := &FakeWorksheet{}
	s.Sheets[title] = ws
	s.Added = append(s.Added, title)
	return ws, nil
}

// Todos returns the task worksheet for direct inspection.
func (s *FakeStore) Todos() *FakeWorksheet {
	return s.Sheets["Todos"]
}

// Opener returns an OpenStore that hands out this store, or fails with
// err when one is given.
func (s *FakeStore) Opener(err error) sheets.OpenStore {
	return func(ctx context.Context, spreadsheetID string) (sheets.Store, error) {
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
