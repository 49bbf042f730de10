package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-cutter/domain/library"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error)
	ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error)
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// UploadFile uploads localPath into folderID
func (s *GoogleDriveService) UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := &drive.File{
		Name:     fileName,
		MimeType: mimeType,
	}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	return s.service.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id, name, mimeType, size, createdTime, webViewLink").
		Context(ctx).
		Do()
}

// ListFiles lists files matching the query
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	r, err := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		OrderBy(orderBy).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// Store implements library.AssetStore by uploading exports to a Drive folder
type Store struct {
	driveService DriveService
	folderID     string
}

// StoreOption is a functional option for configuring Store
type StoreOption func(*Store)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) StoreOption {
	return func(s *Store) {
		s.driveService = svc
	}
}

// NewStore creates a Drive-backed asset store authenticated with a service
// account. If no drive service option is given a real one is created.
func NewStore(ctx context.Context, credentialsPath, folderID string, opts ...StoreOption) (*Store, error) {
	s := &Store{folderID: folderID}

	for _, opt := range opts {
		opt(s)
	}

	if s.driveService == nil {
		svc, err := newServiceAccountDriveService(ctx, credentialsPath)
		if err != nil {
			return nil, err
		}
		s.driveService = svc
	}

	return s, nil
}

// newServiceAccountDriveService creates a production Google Drive service
func newServiceAccountDriveService(ctx context.Context, credentialsPath string) (*GoogleDriveService, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// Save implements library.AssetStore
func (s *Store) Save(ctx context.Context, path string) (*library.Asset, error) {
	name := filepath.Base(path)
	f, err := s.driveService.UploadFile(ctx, name, library.MimeTypeFor(name), s.folderID, path)
	if err != nil {
		return nil, &library.PersistError{Reason: "upload to Drive failed", Err: err}
	}

	asset := toAsset(f)
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now()
	}
	return &asset, nil
}

// List implements library.Lister, returning the folder's videos newest first
func (s *Store) List(ctx context.Context) ([]library.Asset, error) {
	query := "mimeType contains 'video/' and trashed = false"
	if s.folderID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", escapeQuery(s.folderID), query)
	}

	files, err := s.driveService.ListFiles(ctx, query, "id, name, mimeType, size, createdTime, webViewLink", "createdTime desc")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	assets := make([]library.Asset, 0, len(files))
	for _, f := range files {
		assets = append(assets, toAsset(f))
	}
	return assets, nil
}

func toAsset(f *drive.File) library.Asset {
	location := f.WebViewLink
	if location == "" {
		location = "https://drive.google.com/file/d/" + f.Id + "/view"
	}
	return library.Asset{
		ID:        f.Id,
		Name:      f.Name,
		Location:  location,
		Size:      f.Size,
		CreatedAt: parseTime(f.CreatedTime),
	}
}

// escapeQuery escapes a value for a Drive query string literal
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// parseTime parses a Google Drive timestamp string
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure Store implements the library ports
var (
	_ library.AssetStore = (*Store)(nil)
	_ library.Lister     = (*Store)(nil)
)

// Open creates a Drive store from a credentials file, authenticating as a
// service account or, for OAuth client credentials, as the signed-in user
func Open(ctx context.Context, cfg OAuthConfig, folderID string) (*Store, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	if probe.Type == "service_account" {
		return NewStore(ctx, cfg.CredentialsFile, folderID)
	}
	return NewStoreWithOAuth(ctx, cfg, folderID)
}
