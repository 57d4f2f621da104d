// setadmin grants the {admin: true} custom claim to a Firebase user, so an
// operator account can manage the election from the admin page.
//
// Usage: setadmin /path/to/serviceAccount.json <USER_UID>
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/votline/votline_backend/config"
)

var errUsage = errors.New("usage: setadmin /path/to/serviceAccount.json <USER_UID>")

func run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	credFile := args[0]
	uid := args[1]

	if _, err := os.Stat(credFile); err != nil {
		return fmt.Errorf("service account file not found: %s", credFile)
	}

	app, err := config.InitFirebaseApp(ctx, credFile)
	if err != nil {
		return fmt.Errorf("initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("getting auth client: %w", err)
	}

	log.Printf("Setting custom claim {admin: true} for user: %s", uid)
	if err := authClient.SetCustomUserClaims(ctx, uid, map[string]interface{}{"admin": true}); err != nil {
		return fmt.Errorf("setting custom claim: %w", err)
	}

	log.Println("Custom claim set. The user must sign out and sign in again to receive the new token.")
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
