package config

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirebaseApp initializes the Firebase Admin SDK from a service account
// file. Only the setadmin utility talks to Firebase; the HTTP server never
// does. When credFile is empty, GOOGLE_APPLICATION_CREDENTIALS is used.
func InitFirebaseApp(ctx context.Context, credFile string) (*firebase.App, error) {
	if credFile == "" {
		credFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if credFile == "" {
		return nil, fmt.Errorf("no service account file given and GOOGLE_APPLICATION_CREDENTIALS is not set")
	}

	opt := option.WithCredentialsFile(credFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}
