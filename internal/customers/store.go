package customers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/llatino/my-laundry-bot/pkg/logging"
)

// ErrNotFound signals that the identity key has no row in the sheet. This
// is a business outcome, not a connectivity problem.
var ErrNotFound = errors.New("customers: record not found")

// ConnectionError wraps transport, auth and store-level failures so callers
// can tell them apart from a plain miss.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("customers: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// keyRange covers columns A-E of the first sheet: id, nickname, name,
// status, price.
const keyRange = "A:E"

// Store performs read-only customer lookups against a Google Sheet.
type Store struct {
	sheetsSvc       *sheets.Service
	driveSvc        *drive.Service
	spreadsheetName string
	logger          *logging.Logger

	mu            sync.Mutex
	spreadsheetID string
}

// NewStore builds a Store authenticated with the given service account key.
// The Sheets and Drive clients are created once and reused; the underlying
// OAuth transport refreshes its own tokens.
func NewStore(ctx context.Context, serviceAccountJSON []byte, spreadsheetName, spreadsheetID string, logger *logging.Logger) (*Store, error) {
	opts := []option.ClientOption{
		option.WithCredentialsJSON(serviceAccountJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope, drive.DriveMetadataReadonlyScope),
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("customers: create sheets client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("customers: create drive client: %w", err)
	}

	return NewStoreWithServices(sheetsSvc, driveSvc, spreadsheetName, spreadsheetID, logger), nil
}

// NewStoreWithServices builds a Store from pre-built API clients (useful
// for testing against a fake backend).
func NewStoreWithServices(sheetsSvc *sheets.Service, driveSvc *drive.Service, spreadsheetName, spreadsheetID string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		sheetsSvc:       sheetsSvc,
		driveSvc:        driveSvc,
		spreadsheetName: spreadsheetName,
		spreadsheetID:   spreadsheetID,
		logger:          logger,
	}
}

// Lookup finds the row whose key column matches identityKey exactly.
// Returns ErrNotFound when no row matches and *ConnectionError for any
// store-level failure.
func (s *Store) Lookup(ctx context.Context, identityKey string) (*Record, error) {
	id, err := s.resolveSpreadsheetID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.sheetsSvc.Spreadsheets.Values.Get(id, keyRange).Context(ctx).Do()
	if err != nil {
		return nil, &ConnectionError{Op: "read sheet values", Err: err}
	}

	for _, raw := range resp.Values {
		row := stringRow(raw)
		if len(row) > 0 && row[colIdentityKey] == identityKey {
			return RecordFromRow(row), nil
		}
	}

	return nil, ErrNotFound
}

// resolveSpreadsheetID returns the configured spreadsheet ID, resolving the
// spreadsheet title through the Drive API on first use. The resolved ID is
// cached for the life of the process.
func (s *Store) resolveSpreadsheetID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spreadsheetID != "" {
		return s.spreadsheetID, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false", s.spreadsheetName)
	list, err := s.driveSvc.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", &ConnectionError{Op: "resolve spreadsheet by title", Err: err}
	}
	if len(list.Files) == 0 {
		return "", &ConnectionError{Op: "resolve spreadsheet by title", Err: fmt.Errorf("no spreadsheet named %q", s.spreadsheetName)}
	}

	s.spreadsheetID = list.Files[0].Id
	s.logger.Info("resolved spreadsheet",
		"name", s.spreadsheetName,
		"spreadsheet_id", s.spreadsheetID,
	)
	return s.spreadsheetID, nil
}

func stringRow(raw []any) []string {
	row := make([]string, len(raw))
	for i, v := range raw {
		row[i] = fmt.Sprint(v)
	}
	return row
}
