package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ErrAuth marks credential problems: missing service-account file or a
// rejected authentication attempt.
var ErrAuth = errors.New("sheets authentication failed")

var scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// Provider hands out a single authenticated Sheets service for the
// lifetime of the process. The handle is memoized on first use; no
// refresh logic beyond what the underlying library does.
type Provider struct {
	credentialsFile string
	svc             *sheetsapi.Service
}

func NewProvider(credentialsFile string) *Provider {
	return &Provider{credentialsFile: credentialsFile}
}

// Client returns the cached service, authenticating on first call from
// the on-disk service-account credentials.
func (p *Provider) Client(ctx context.Context) (*sheetsapi.Service, error) {
	if p.svc != nil {
		return p.svc, nil
	}

	if _, err := os.Stat(p.credentialsFile); err != nil {
		return nil, fmt.Errorf("%w: service account key not found at %s", ErrAuth, p.credentialsFile)
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(p.credentialsFile),
		option.WithScopes(scopes...),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	p.svc = svc
	return svc, nil
}

// OpenStore opens a spreadsheet by ID using the memoized client. It
// satisfies the OpenStore function type the repository is built on.
func (p *Provider) OpenStore(ctx context.Context, spreadsheetID string) (Store, error) {
	svc, err := p.Client(ctx)
	if err != nil {
		return nil, err
	}
	return Open(ctx, svc, spreadsheetID)
}
