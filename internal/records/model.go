package records

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one stored claim-intake row. Records are append-only.
type Record struct {
	ID                   int64
	Filename             string
	UploadedAt           time.Time
	PatientID            string
	ProcedureCode        string
	AmountClaimed        decimal.Decimal
	DateOfService        string
	ExtractionConfidence float64
	Consent              bool
	Notes                string
}

// UploadedAtLayout is the ISO-8601 form uploaded_at is stored and rendered in.
const UploadedAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// Columns is the fixed field order used by every tabular export.
var Columns = []string{
	"id",
	"filename",
	"uploaded_at",
	"patient_id",
	"procedure_code",
	"amount_claimed",
	"date_of_service",
	"extraction_confidence",
	"consent",
	"notes",
}
