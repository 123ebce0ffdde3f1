package records

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	storagedb "claims-intake/internal/shared/storage/db"
)

// Dialect selects placeholder style and schema for SQLRepo.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLRepo implements Repo on database/sql for SQLite and Postgres.
type SQLRepo struct {
	DB      *sql.DB
	Dialect Dialect
}

// NewSQLRepo constructs a SQLRepo.
func NewSQLRepo(db *sql.DB, dialect Dialect) *SQLRepo {
	return &SQLRepo{DB: db, Dialect: dialect}
}

// Initialize creates the records table if it does not exist.
func (r *SQLRepo) Initialize(ctx context.Context) error {
	return storageErr("initialize", storagedb.EnsureSchema(ctx, r.DB, string(r.Dialect)))
}

// Insert appends rec and returns it with the id assigned by the database.
func (r *SQLRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	query := `
INSERT INTO records (
    filename,
    uploaded_at,
    patient_id,
    procedure_code,
    amount_claimed,
    date_of_service,
    extraction_confidence,
    consent,
    notes
) VALUES (` + r.placeholders(9) + `)
RETURNING id`

	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		query,
		rec.Filename,
		rec.UploadedAt.UTC().Format(UploadedAtLayout),
		rec.PatientID,
		rec.ProcedureCode,
		rec.AmountClaimed,
		rec.DateOfService,
		rec.ExtractionConfidence,
		rec.Consent,
		rec.Notes,
	).Scan(&id)
	if err != nil {
		return Record{}, storageErr("insert", err)
	}
	rec.ID = id
	return rec, nil
}

// ListAll returns all records ordered by id.
func (r *SQLRepo) ListAll(ctx context.Context) ([]Record, error) {
	const query = `
SELECT id, filename, uploaded_at, patient_id, procedure_code, amount_claimed, date_of_service, extraction_confidence, consent, notes
FROM records
ORDER BY id ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		var filename sql.NullString
		var uploadedAt sql.NullString
		var patientID sql.NullString
		var procedureCode sql.NullString
		var amount decimal.NullDecimal
		var dateOfService sql.NullString
		var confidence sql.NullFloat64
		var consent sql.NullBool
		var notes sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&filename,
			&uploadedAt,
			&patientID,
			&procedureCode,
			&amount,
			&dateOfService,
			&confidence,
			&consent,
			&notes,
		); err != nil {
			return nil, storageErr("list", err)
		}
		if filename.Valid {
			rec.Filename = filename.String
		}
		if uploadedAt.Valid {
			ts, err := parseTimestamp(uploadedAt.String)
			if err != nil {
				return nil, storageErr("list", fmt.Errorf("record %d: %w", rec.ID, err))
			}
			rec.UploadedAt = ts
		}
		if patientID.Valid {
			rec.PatientID = patientID.String
		}
		if procedureCode.Valid {
			rec.ProcedureCode = procedureCode.String
		}
		if amount.Valid {
			rec.AmountClaimed = amount.Decimal
		}
		if dateOfService.Valid {
			rec.DateOfService = dateOfService.String
		}
		if confidence.Valid {
			rec.ExtractionConfidence = confidence.Float64
		}
		if consent.Valid {
			rec.Consent = consent.Bool
		}
		if notes.Valid {
			rec.Notes = notes.String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return out, nil
}

func (r *SQLRepo) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		if r.Dialect == DialectPostgres {
			parts[i] = "$" + strconv.Itoa(i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// timestampLayouts covers rows written by this service, Postgres TIMESTAMPTZ
// values rendered by database/sql, and naive UTC rows from older databases.
var timestampLayouts = []string{
	UploadedAtLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized uploaded_at %q", raw)
}

var _ Repo = (*SQLRepo)(nil)
