// Package gal manages global address list visibility through the Google
// Workspace admin directory.
package gal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"

	"github.com/matthewdavidson09/offboardctl/tools"
)

type Service struct {
	svc *admin.Service
}

type credentials struct {
	path    string
	subject string
}

// credentialsFromEnv loads service account material from .env / the
// environment.
func credentialsFromEnv() (credentials, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return credentials{}, fmt.Errorf("error loading .env: %w", err)
	}

	creds := credentials{
		path:    strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		subject: strings.TrimSpace(os.Getenv("GOOGLE_IMPERSONATE_USER")),
	}
	if creds.path == "" {
		return credentials{}, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS env var not set")
	}
	if creds.subject == "" {
		return credentials{}, fmt.Errorf("GOOGLE_IMPERSONATE_USER env var not set")
	}
	return creds, nil
}

// NewService builds an impersonated admin directory client from service
// account credentials in the environment.
func NewService(ctx context.Context) (*Service, error) {
	creds, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(creds.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account JSON: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, admin.AdminDirectoryUserScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	config.Subject = creds.subject

	client := config.Client(ctx)

	svc, err := admin.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create directory service: %w", err)
	}

	return &Service{svc: svc}, nil
}

// SetVisibility sets whether the user appears in the global address list.
// The user must exist and have a provisioned mailbox; anything else is a
// terminating error, never a silent success.
func (s *Service) SetVisibility(email string, visible bool) error {
	user, err := s.svc.Users.Get(email).Do()
	if err != nil {
		return fmt.Errorf("mailbox lookup failed for %s (check admin credentials and impersonation subject): %w", email, err)
	}
	if !user.IsMailboxSetup {
		return fmt.Errorf("no mailbox is set up for %s", email)
	}

	update := &admin.User{
		IncludeInGlobalAddressList: visible,
		// A false value must still go over the wire.
		ForceSendFields: []string{"IncludeInGlobalAddressList"},
	}
	if _, err := s.svc.Users.Update(email, update).Do(); err != nil {
		return fmt.Errorf("failed to update address list visibility for %s: %w", email, err)
	}

	tools.Log.WithFields(map[string]interface{}{
		"email":   email,
		"visible": visible,
	}).Info("Updated address list visibility")
	return nil
}
