package records

import (
	"strconv"
)

// RecordResponse is the outward-facing representation of a record, shared by
// the JSON API and the JSON export.
type RecordResponse struct {
	ID                   int64   `json:"id"`
	Filename             string  `json:"filename"`
	UploadedAt           string  `json:"uploaded_at"`
	PatientID            string  `json:"patient_id"`
	ProcedureCode        string  `json:"procedure_code"`
	AmountClaimed        float64 `json:"amount_claimed"`
	DateOfService        string  `json:"date_of_service"`
	ExtractionConfidence float64 `json:"extraction_confidence"`
	Consent              bool    `json:"consent"`
	Notes                string  `json:"notes"`
}

func toResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:                   rec.ID,
		Filename:             rec.Filename,
		UploadedAt:           rec.UploadedAt.UTC().Format(UploadedAtLayout),
		PatientID:            rec.PatientID,
		ProcedureCode:        rec.ProcedureCode,
		AmountClaimed:        rec.AmountClaimed.InexactFloat64(),
		DateOfService:        rec.DateOfService,
		ExtractionConfidence: rec.ExtractionConfidence,
		Consent:              rec.Consent,
		Notes:                rec.Notes,
	}
}

func toResponses(recs []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	return out
}

// row renders rec as text cells in Columns order.
func row(rec Record) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.Filename,
		rec.UploadedAt.UTC().Format(UploadedAtLayout),
		rec.PatientID,
		rec.ProcedureCode,
		rec.AmountClaimed.StringFixed(2),
		rec.DateOfService,
		strconv.FormatFloat(rec.ExtractionConfidence, 'f', 2, 64),
		strconv.FormatBool(rec.Consent),
		rec.Notes,
	}
}

// pageRow is what the records table template renders.
type pageRow struct {
	ID                   int64
	Filename             string
	UploadedAt           string
	PatientID            string
	ProcedureCode        string
	AmountClaimed        string
	DateOfService        string
	ExtractionConfidence string
	Consent              bool
	Notes                string
}

func toPageRows(recs []Record) []pageRow {
	out := make([]pageRow, 0, len(recs))
	for _, rec := range recs {
		cells := row(rec)
		out = append(out, pageRow{
			ID:                   rec.ID,
			Filename:             rec.Filename,
			UploadedAt:           cells[2],
			PatientID:            rec.PatientID,
			ProcedureCode:        rec.ProcedureCode,
			AmountClaimed:        cells[5],
			DateOfService:        rec.DateOfService,
			ExtractionConfidence: cells[7],
			Consent:              rec.Consent,
			Notes:                rec.Notes,
		})
	}
	return out
}
