package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"todo-sheets/internal/model"
	"todo-sheets/internal/repo"
	"todo-sheets/internal/service"
	"todo-sheets/internal/sheets"
	"todo-sheets/pkg/respond"
)

//go:embed templates/*.html
var templatesFS embed.FS

const sessionName = "todo_session"

// Flash is one transient user-facing message, surfaced on the next
// rendered page. Level is "success" or "error".
type Flash struct {
	Level   string
	Message string
}

// Form holds user input echoed back into the add/edit forms so a
// failed submit never loses what was typed.
type Form struct {
	Title    string
	Content  string
	DueDate  string
	Priority string
}

type page struct {
	Tasks   []model.Task
	Flashes []Flash
	Form    Form
	Row     int
	Query   service.ListQuery
}

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
	store   *sessions.CookieStore
	tmpl    *template.Template
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger, sessionSecret string) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
		store:   sessions.NewCookieStore([]byte(sessionSecret)),
		tmpl:    template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/add", h.AddForm)
	r.Post("/add", h.Add)
	r.Get("/edit/{row}", h.EditForm)
	r.Post("/edit/{row}", h.Edit)
	r.Post("/delete/{row}", h.Delete)
	r.Post("/complete/{row}", h.Complete)
	r.Get("/archive", h.Archive)
}

func (h *TaskHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.ListQuery{
		Status:   model.ParseStatusFilter(q.Get("status")),
		Priority: service.ParsePriorityFilter(q.Get("priority")),
		Due:      service.ParseDueFilter(q.Get("due_date")),
		Sort:     service.ParseSortOrder(q.Get("sort")),
	}

	data := page{Query: query, Flashes: h.popFlashes(w, r)}

	tasks, err := h.service.ListPage(r.Context(), query)
	if err != nil {
		// listing must never crash the page
		data.Flashes = append(data.Flashes, Flash{"error", h.errorMessage(err)})
	}
	data.Tasks = tasks

	respond.HTML(w, http.StatusOK, h.tmpl, "index.html", data)
}

func (h *TaskHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	data := page{Flashes: h.popFlashes(w, r), Form: Form{Priority: model.PriorityMedium.String()}}
	respond.HTML(w, http.StatusOK, h.tmpl, "add.html", data)
}

func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)

	_, err := h.service.Add(r.Context(), form.Title, form.Content, form.DueDate, form.Priority)
	if err != nil {
		data := page{Form: form, Flashes: []Flash{{"error", h.errorMessage(err)}}}
		respond.HTML(w, http.StatusOK, h.tmpl, "add.html", data)
		return
	}

	h.flash(w, r, "success", "Task added.")
	respond.SeeOther(w, r, "/")
}

func (h *TaskHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	row, err := parseRow(r)
	if err != nil {
		h.flash(w, r, "error", "Task not found.")
		respond.SeeOther(w, r, "/")
		return
	}

	task, err := h.service.Get(r.Context(), row)
	if err != nil {
		h.flash(w, r, "error", h.errorMessage(err))
		respond.SeeOther(w, r, "/")
		return
	}

	data := page{
		Flashes: h.popFlashes(w, r),
		Row:     row,
		Form: Form{
			Title:    task.Title,
			Content:  task.Content,
			DueDate:  task.DueDate,
			Priority: task.Priority.String(),
		},
	}
	respond.HTML(w, http.StatusOK, h.tmpl, "edit.html", data)
}

func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	row, err := parseRow(r)
	if err != nil {
		h.flash(w, r, "error", "Task not found.")
		respond.SeeOther(w, r, "/")
		return
	}

	form := formFromRequest(r)
	if err := h.service.Update(r.Context(), row, form.Title, form.Content, form.DueDate, form.Priority); err != nil {
		data := page{Row: row, Form: form, Flashes: []Flash{{"error", h.errorMessage(err)}}}
		respond.HTML(w, http.StatusOK, h.tmpl, "edit.html", data)
		return
	}

	h.flash(w, r, "success", "Task updated.")
	respond.SeeOther(w, r, "/")
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	row, err := parseRow(r)
	if err != nil {
		h.flash(w, r, "error", "Task not found.")
		respond.SeeOther(w, r, "/")
		return
	}

	if err := h.service.Complete(r.Context(), row); err != nil {
		h.flash(w, r, "error", h.errorMessage(err))
	} else {
		h.flash(w, r, "success", "Task completed.")
	}
	respond.SeeOther(w, r, "/")
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	row, err := parseRow(r)
	if err != nil {
		h.flash(w, r, "error", "Task not found.")
		respond.SeeOther(w, r, "/")
		return
	}

	if err := h.service.Delete(r.Context(), row); err != nil {
		h.flash(w, r, "error", h.errorMessage(err))
	} else {
		h.flash(w, r, "success", "Task deleted.")
	}
	respond.SeeOther(w, r, "/")
}

func (h *TaskHandler) Archive(w http.ResponseWriter, r *http.Request) {
	query := service.ListQuery{
		Status:   model.FilterCompleted,
		Priority: service.PriorityAll,
		Due:      service.DueAll,
		Sort:     service.SortByPriority,
	}

	data := page{Query: query, Flashes: h.popFlashes(w, r)}

	tasks, err := h.service.ListPage(r.Context(), query)
	if err != nil {
		data.Flashes = append(data.Flashes, Flash{"error", h.errorMessage(err)})
	}
	data.Tasks = tasks

	respond.HTML(w, http.StatusOK, h.tmpl, "archive.html", data)
}

func (h *TaskHandler) flash(w http.ResponseWriter, r *http.Request, level, msg string) {
	session, _ := h.store.Get(r, sessionName)
	session.AddFlash(msg, level)
	if err := session.Save(r, w); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
	}
}

func (h *TaskHandler) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, _ := h.store.Get(r, sessionName)
	var out []Flash
	for _, level := range []string{"success", "error"} {
		for _, f := range session.Flashes(level) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{level, msg})
			}
		}
	}
	session.Save(r, w)
	return out
}

// errorMessage maps service/repo errors to what the page shows. The
// config, access and not-found errors carry their own remediation
// text; anything unrecognized is logged and shown generically.
func (h *TaskHandler) errorMessage(err error) string {
	var cfgErr *repo.ConfigError
	var accErr *repo.AccessError
	switch {
	case errors.Is(err, service.ErrValidation):
		return "Title is required."
	case errors.Is(err, repo.ErrTaskNotFound):
		return "Task not found."
	case errors.As(err, &cfgErr), errors.As(err, &accErr),
		errors.Is(err, repo.ErrStoreNotFound), errors.Is(err, sheets.ErrAuth):
		return err.Error()
	default:
		h.logger.Error("internal error", zap.Error(err))
		return "Something went wrong. Please try again."
	}
}

func formFromRequest(r *http.Request) Form {
	return Form{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		DueDate:  r.FormValue("due_date"),
		Priority: r.FormValue("priority"),
	}
}

// parseRow rejects anything that cannot be a data row; row 1 is the
// header. A stale-but-plausible row number still passes (accepted
// limitation of row handles).
func parseRow(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "row")
	row, err := strconv.Atoi(raw)
	if err != nil || row < 2 {
		return 0, fmt.Errorf("invalid row %q", raw)
	}
	return row, nil
}
