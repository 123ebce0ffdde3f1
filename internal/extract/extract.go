package extract

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	patientIDPrefix     = "PAT-"
	procedureCodePrefix = "PROC-"
	dateLayout          = "2006-01-02"
)

var (
	baseAmount     = decimal.NewFromInt(1000)
	amountPerRune  = decimal.RequireFromString("12.5")
	baseConfidence = decimal.RequireFromString("0.7")
)

// Fields are the claim fields derived for one uploaded document.
type Fields struct {
	PatientID            string
	ProcedureCode        string
	AmountClaimed        decimal.Decimal
	DateOfService        string
	ExtractionConfidence float64
}

// Simulate derives placeholder claim fields from a file name. It stands in
// for an OCR + NLP pipeline and is a pure function of (filename, local date
// of now).
func Simulate(filename string, now time.Time) Fields {
	stem := Stem(filename)
	length := int64(utf8.RuneCountInString(filename))

	amount := baseAmount.Add(amountPerRune.Mul(decimal.NewFromInt(length))).Round(2)
	confidence := baseConfidence.
		Add(decimal.NewFromInt(length % 30).Div(decimal.NewFromInt(100))).
		Round(2)

	return Fields{
		PatientID:            patientIDPrefix + lastRunes(stem, 4),
		ProcedureCode:        procedureCodePrefix + strings.ToUpper(firstRunes(stem, 3)),
		AmountClaimed:        amount,
		DateOfService:        now.Local().Format(dateLayout),
		ExtractionConfidence: confidence.InexactFloat64(),
	}
}

// Stem returns the part of filename before its first dot.
func Stem(filename string) string {
	if i := strings.IndexByte(filename, '.'); i >= 0 {
		return filename[:i]
	}
	return filename
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
