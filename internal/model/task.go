package model

// Task is one to-do item stored as a single spreadsheet row.
// Row is the 1-based position of that row and serves as the task's
// handle for update/complete/delete. It is not stable: deleting an
// earlier row shifts every later handle down by one.
type Task struct {
	ID        string
	Row       int
	Title     string
	Content   string
	DueDate   string // YYYY-MM-DD, empty when unset
	Priority  Priority
	CreatedAt string // YYYY-MM-DD HH:MM:SS, set once
	Status    Status
}

// Priority is a closed enumeration. Unknown or missing values decode
// to PriorityMedium at the storage boundary so raw strings never leak
// into the rest of the application.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

func (p Priority) String() string { return string(p) }

// Rank orders priorities for sorting: high=3, medium=2, low=1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Status of a task. The empty string means open.
type Status string

const (
	StatusOpen      Status = ""
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) Status {
	if Status(s) == StatusCompleted {
		return StatusCompleted
	}
	return StatusOpen
}

func (s Status) Completed() bool { return s == StatusCompleted }

func (s Status) String() string { return string(s) }

// StatusFilter selects which tasks a listing returns.
type StatusFilter string

const (
	FilterOpen      StatusFilter = "open"
	FilterCompleted StatusFilter = "completed"
	FilterAll       StatusFilter = "all"
)

// ParseStatusFilter defaults to FilterOpen for unknown values.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case FilterCompleted, FilterAll:
		return StatusFilter(s)
	default:
		return FilterOpen
	}
}
