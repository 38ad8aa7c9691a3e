package firebase

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Config holds Firebase configuration for the Firestore-backed profile store.
type Config struct {
	ProjectID                    string
	GoogleApplicationCredentials string // Path to service account JSON (optional)
}

// NewFirestoreClient initializes the Firebase app and returns its Firestore
// client. With FIRESTORE_EMULATOR_HOST set, the client talks to the local
// emulator and credentials are not required.
func NewFirestoreClient(ctx context.Context, cfg Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.GoogleApplicationCredentials != "" {
		creds, err := os.ReadFile(cfg.GoogleApplicationCredentials)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}
	return app.Firestore(ctx)
}
