package repo

import "errors"

var (
	// ErrStoreNotFound means the configured spreadsheet ID does not
	// resolve to an accessible spreadsheet.
	ErrStoreNotFound = errors.New("spreadsheet not found")
	// ErrTaskNotFound means no task lives at the requested row.
	ErrTaskNotFound = errors.New("task not found")
)

// ConfigError reports a missing spreadsheet ID. Its message walks the
// user through fixing the configuration, with a different set of steps
// depending on whether a .env file was found at all.
type ConfigError struct {
	EnvFileFound bool
}

func (e *ConfigError) Error() string {
	if !e.EnvFileFound {
		return `SPREADSHEET_ID is not configured and no .env file was found.

To fix this:
1. Create a .env file in the project root
2. Add the following lines:
   SPREADSHEET_ID=your_spreadsheet_id_here
   SECRET_KEY=your-secret-key
   PORT=5001
3. Replace your_spreadsheet_id_here with the real spreadsheet ID
4. Restart the application`
	}
	return `SPREADSHEET_ID is not configured.

A .env file exists but SPREADSHEET_ID is missing or empty.

To fix this:
1. Create a Google spreadsheet manually
2. Copy its ID from the URL (the part between /d/ and /edit)
3. Add SPREADSHEET_ID=<that id> to the .env file (no spaces around "=")
4. Share the spreadsheet with the service account (client_email in credentials.json)
5. Restart the application`
}

// AccessError wraps permission and quota failures from the backing
// store. Msg is user-facing; the cause stays reachable via Unwrap.
type AccessError struct {
	Msg string
	Err error
}

func (e *AccessError) Error() string { return e.Msg }

func (e *AccessError) Unwrap() error { return e.Err }

const quotaRemediation = `Google Drive storage quota exceeded.
Use an existing spreadsheet or free up Drive space.

To use an existing spreadsheet:
1. Create a Google spreadsheet manually
2. Copy its ID from the URL (the part between /d/ and /edit)
3. Set SPREADSHEET_ID=<that id> in the .env file
4. Share the spreadsheet with the service account (client_email in credentials.json)`
