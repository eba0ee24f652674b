package repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"todo-sheets/internal/model"
	"todo-sheets/internal/sheets"
)

const (
	worksheetTitle = "Todos"
	cacheTTL       = 10 * time.Second

	newSheetRows = 1000
	newSheetCols = 10
)

// headerColumns is the target schema for row 1. Header repair diffs
// the observed row against this and patches only the cells that differ.
var headerColumns = [7]string{"ID", "Title", "Content", "DueDate", "Priority", "CreatedAt", "Status"}

// TaskRepo owns all reads and writes of task data. It keeps two caches
// as plain instance state: the resolved (spreadsheet, worksheet) pair
// and the full task list with its fetch timestamp. Neither cache has a
// concurrency guard, and next-id assignment is read-then-append; two
// near-simultaneous adds can collide. Accepted limitation.
type TaskRepo struct {
	open         sheets.OpenStore
	storeID      string
	envFileFound bool
	logger       *zap.Logger
	now          func() time.Time

	store    sheets.Store
	ws       sheets.Worksheet
	cache    []model.Task
	cachedAt time.Time
}

func NewTaskRepo(open sheets.OpenStore, storeID string, envFileFound bool, logger *zap.Logger) *TaskRepo {
	return &TaskRepo{
		open:         open,
		storeID:      storeID,
		envFileFound: envFileFound,
		logger:       logger,
		now:          time.Now,
	}
}

// resolveStore returns the cached worksheet, or opens the spreadsheet,
// ensures the Todos worksheet exists and repairs its header row.
// Re-running it on an already-correct sheet issues no writes.
func (r *TaskRepo) resolveStore(ctx context.Context) (sheets.Worksheet, error) {
	if r.ws != nil {
		return r.ws, nil
	}

	if r.storeID == "" {
		return nil, &ConfigError{EnvFileFound: r.envFileFound}
	}

	store, err := r.open(ctx, r.storeID)
	if err != nil {
		return nil, r.mapOpenError(err)
	}

	ws, err := store.Worksheet(ctx, worksheetTitle)
	if errors.Is(err, sheets.ErrWorksheetNotFound) {
		ws, err = store.AddWorksheet(ctx, worksheetTitle, newSheetRows, newSheetCols)
		if err == nil {
			err = ws.Update(ctx, "A1:G1", [][]string{headerRow()})
		}
	}
	if err != nil {
		return nil, r.mapOpenError(err)
	}

	if err := r.repairHeader(ctx, ws); err != nil {
		return nil, r.mapOpenError(err)
	}

	r.store = store
	r.ws = ws
	return ws, nil
}

// repairHeader makes row 1 match headerColumns. A missing header or a
// first cell that is not "ID" gets a full rewrite; otherwise only the
// cells that differ are patched, one write each.
func (r *TaskRepo) repairHeader(ctx context.Context, ws sheets.Worksheet) error {
	observed, err := ws.Row(ctx, 1)
	if err != nil {
		return err
	}

	if len(observed) == 0 || observed[0] != "ID" {
		return ws.Update(ctx, "A1:G1", [][]string{headerRow()})
	}

	for i, want := range headerColumns {
		got := ""
		if i < len(observed) {
			got = observed[i]
		}
		if got != want {
			a1 := fmt.Sprintf("%c1", 'A'+i)
			if err := ws.Update(ctx, a1, [][]string{{want}}); err != nil {
				return err
			}
		}
	}
	return nil
}

func headerRow() []string {
	return headerColumns[:]
}

// ListAll returns every valid task. Within the freshness window it
// serves a copy of the cache without touching the store; after the
// window it re-reads rows 2 onward. Row-read failures degrade to an
// empty list with a warning, but store resolution failures propagate
// so the caller can show their remediation text.
func (r *TaskRepo) ListAll(ctx context.Context) ([]model.Task, error) {
	if r.cache != nil && r.now().Sub(r.cachedAt) < cacheTTL {
		return copyTasks(r.cache), nil
	}

	ws, err := r.resolveStore(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := ws.Rows(ctx)
	if err != nil {
		r.logger.Warn("failed to read tasks from worksheet", zap.Error(err))
		return []model.Task{}, nil
	}
	if len(rows) <= 1 {
		return []model.Task{}, nil
	}

	tasks := make([]model.Task, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if _, err := strconv.Atoi(row[0]); err != nil {
			// invalid id, excluded from all reads
			continue
		}
		tasks = append(tasks, taskFromRow(i+2, row))
	}

	r.cache = tasks
	r.cachedAt = r.now()
	return copyTasks(tasks), nil
}

// ListFiltered post-filters ListAll by status.
func (r *TaskRepo) ListFiltered(ctx context.Context, filter model.StatusFilter) ([]model.Task, error) {
	tasks, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter == model.FilterAll {
		return tasks, nil
	}

	out := tasks[:0]
	for _, t := range tasks {
		if t.Status.Completed() == (filter == model.FilterCompleted) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Add appends a new task row. The id is 1 + the largest existing
// numeric id, or "1" on an empty sheet. Row is not known at append
// time and comes back zero.
func (r *TaskRepo) Add(ctx context.Context, title, content, dueDate string, priority model.Priority) (model.Task, error) {
	ws, err := r.resolveStore(ctx)
	if err != nil {
		return model.Task{}, err
	}

	existing, err := r.ListFiltered(ctx, model.FilterAll)
	if err != nil {
		return model.Task{}, err
	}
	maxID := 0
	for _, t := range existing {
		if n, err := strconv.Atoi(t.ID); err == nil && n > maxID {
			maxID = n
		}
	}

	t := model.Task{
		ID:        strconv.Itoa(maxID + 1),
		Title:     title,
		Content:   content,
		DueDate:   dueDate,
		Priority:  priority,
		CreatedAt: r.now().Format("2006-01-02 15:04:05"),
		Status:    model.StatusOpen,
	}

	row := []string{t.ID, t.Title, t.Content, t.DueDate, t.Priority.String(), t.CreatedAt, ""}
	if err := ws.Append(ctx, row); err != nil {
		return model.Task{}, err
	}

	r.invalidate()
	return t, nil
}

// Update overwrites Title..Priority (columns B..E) at the given row.
// ID, CreatedAt and Status are untouched. No existence check: writing
// to a stale or header row is the caller's error to avoid.
func (r *TaskRepo) Update(ctx context.Context, row int, title, content, dueDate string, priority model.Priority) error {
	ws, err := r.resolveStore(ctx)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("B%d:E%d", row, row)
	if err := ws.Update(ctx, rng, [][]string{{title, content, dueDate, priority.String()}}); err != nil {
		return err
	}

	r.invalidate()
	return nil
}

// Complete sets the Status column (G) of the given row.
func (r *TaskRepo) Complete(ctx context.Context, row int) error {
	ws, err := r.resolveStore(ctx)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("G%d", row)
	if err := ws.Update(ctx, rng, [][]string{{model.StatusCompleted.String()}}); err != nil {
		return err
	}

	r.invalidate()
	return nil
}

// Delete removes the row; rows below shift up, so any row handles held
// elsewhere go stale.
func (r *TaskRepo) Delete(ctx context.Context, row int) error {
	ws, err := r.resolveStore(ctx)
	if err != nil {
		return err
	}

	if err := ws.DeleteRow(ctx, row); err != nil {
		return err
	}

	r.invalidate()
	return nil
}

// invalidate drops both caches. Every mutation calls this, forcing a
// full re-resolution and re-read on the next access.
func (r *TaskRepo) invalidate() {
	r.cache = nil
	r.cachedAt = time.Time{}
	r.store = nil
	r.ws = nil
}

// mapOpenError translates backing-store failures into the repo's error
// taxonomy. Quota exhaustion is detected by message content and
// rewritten into its remediation text.
func (r *TaskRepo) mapOpenError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sheets.ErrAuth) {
		return err
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "storagequotaexceeded") || strings.Contains(lower, "storage quota") {
		return &AccessError{Msg: quotaRemediation, Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: spreadsheet %q does not resolve; check that SPREADSHEET_ID is correct and that the sheet is shared with the service account (client_email in credentials.json)",
			ErrStoreNotFound, r.storeID)
	}

	return &AccessError{
		Msg: fmt.Sprintf("failed to access the spreadsheet: %v", err),
		Err: err,
	}
}

func taskFromRow(rowNum int, row []string) model.Task {
	return model.Task{
		ID:        cell(row, 0, ""),
		Row:       rowNum,
		Title:     cell(row, 1, ""),
		Content:   cell(row, 2, ""),
		DueDate:   cell(row, 3, ""),
		Priority:  model.ParsePriority(cell(row, 4, model.PriorityMedium.String())),
		CreatedAt: cell(row, 5, ""),
		Status:    model.ParseStatus(cell(row, 6, "")),
	}
}

func cell(row []string, i int, def string) string {
	if i < len(row) && row[i] != "" {
		return row[i]
	}
	return def
}

func copyTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}
