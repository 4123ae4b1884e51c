package drive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrAuth indicates the Drive service could not be initialized from the
// provided service account credentials.
var ErrAuth = errors.New("authentication failed")

// requestTimeout bounds every HTTP request, including large content
// downloads.
const requestTimeout = 5 * time.Minute

// newGoogleAPI builds the production API from service account
// credentials JSON, authorized read-only.
func newGoogleAPI(ctx context.Context, credentialsJSON []byte) (*googleAPI, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account credentials: %w", ErrAuth, err)
	}

	client := config.Client(ctx)
	client.Timeout = requestTimeout

	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%w: create drive service: %w", ErrAuth, err)
	}
	return &googleAPI{service: srv}, nil
}
