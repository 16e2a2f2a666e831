// Package sqlite provides a SQLite-backed registration store for local runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var _ registration.Repository = &Store{}

const registrationColumns = `id, version, registered_at, name, email, event_name, contact, role, qr_token, artifact_location, payment_status`

// Store persists registrations in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite registration store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection serializes writers so inserts never race on SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO registrations (`+registrationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reg.ID,
		reg.Version,
		toMillis(reg.RegisteredAt),
		reg.Name,
		reg.Email,
		reg.EventName,
		reg.Contact,
		reg.Role,
		reg.QRToken,
		reg.ArtifactLocation,
		reg.PaymentStatus.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return registration.NewRegistrationAlreadyExistsError(fmt.Sprintf("Registration for %q at event %q already exists", reg.Email, reg.EventName), err)
		}
		return registration.NewFailedToWriteError("Failed to insert registration", err)
	}
	return nil
}

// UpdateRegistration writes reg if the stored row is at reg.Version-1.
func (s *Store) UpdateRegistration(ctx context.Context, reg registration.Registration) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE registrations
		    SET version = ?, name = ?, contact = ?, role = ?, qr_token = ?, artifact_location = ?, payment_status = ?
		  WHERE id = ? AND version = ?`,
		reg.Version,
		reg.Name,
		reg.Contact,
		reg.Role,
		reg.QRToken,
		reg.ArtifactLocation,
		reg.PaymentStatus.String(),
		reg.ID,
		reg.Version-1,
	)
	if err != nil {
		return registration.NewFailedToWriteError("Failed to update registration", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return registration.NewFailedToWriteError("Failed to read update result", err)
	}
	if n == 0 {
		return registration.NewVersionConflictError(fmt.Sprintf("Registration %q is not at version %d", reg.ID, reg.Version-1), nil)
	}
	return nil
}

func (s *Store) GetRegistrationByEmail(ctx context.Context, eventKey string, email string) (registration.Registration, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE event_name = ? AND email = ?`,
		eventKey, email,
	)
	reg, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistsError(fmt.Sprintf("Registration for event %q and email %s not found", eventKey, email), nil)
	}
	if err != nil {
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration for event %q and email %s", eventKey, email), err)
	}
	return reg, nil
}

func (s *Store) GetRegistration(ctx context.Context, id string) (registration.Registration, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = ?`,
		id,
	)
	reg, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistsError(fmt.Sprintf("Registration with id %q not found", id), nil)
	}
	if err != nil {
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration with id %q", id), err)
	}
	return reg, nil
}

// GetAllRegistrationsForEvent pages by email. The cursor is the last email
// returned, base64 encoded.
func (s *Store) GetAllRegistrationsForEvent(ctx context.Context, eventKey string, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error) {
	after := ""
	if cursor != nil {
		raw, err := base64.StdEncoding.DecodeString(*cursor)
		if err != nil || len(raw) == 0 {
			return registration.GetAllRegistrationsResponse{}, registration.NewInvalidCursorError("Invalid cursor", err)
		}
		after = string(raw)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations
		  WHERE event_name = ? AND email > ?
		  ORDER BY email
		  LIMIT ?`,
		eventKey, after, limit+1,
	)
	if err != nil {
		return registration.GetAllRegistrationsResponse{}, registration.NewFailedToFetchError("Failed to list registrations", err)
	}
	defer rows.Close()

	var regs []registration.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return registration.GetAllRegistrationsResponse{}, registration.NewFailedToFetchError("Failed to read registration row", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return registration.GetAllRegistrationsResponse{}, registration.NewFailedToFetchError("Failed to list registrations", err)
	}

	resp := registration.GetAllRegistrationsResponse{
		HasNextPage: len(regs) > int(limit),
	}
	if resp.HasNextPage {
		regs = regs[:limit]
		c := base64.StdEncoding.EncodeToString([]byte(regs[len(regs)-1].Email))
		resp.Cursor = &c
	}
	resp.Data = regs

	return resp, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row scanner) (registration.Registration, error) {
	var (
		reg          registration.Registration
		registeredAt int64
		status       string
	)
	err := row.Scan(
		&reg.ID,
		&reg.Version,
		&registeredAt,
		&reg.Name,
		&reg.Email,
		&reg.EventName,
		&reg.Contact,
		&reg.Role,
		&reg.QRToken,
		&reg.ArtifactLocation,
		&status,
	)
	if err != nil {
		return registration.Registration{}, err
	}

	reg.RegisteredAt = fromMillis(registeredAt)
	reg.PaymentStatus, err = registration.ParsePaymentStatus(status)
	if err != nil {
		return registration.Registration{}, err
	}
	return reg, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
