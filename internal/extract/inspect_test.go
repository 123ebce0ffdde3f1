package extract

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// minimalPDF builds a structurally valid PDF with the given number of blank pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int
	buf.WriteString("%PDF-1.4\n")
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		writeObj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestInspectCountsPDFPages(t *testing.T) {
	info, err := Inspect(minimalPDF(3), "claim.pdf")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.MimeType != "application/pdf" {
		t.Fatalf("unexpected mime %q", info.MimeType)
	}
	if info.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", info.Pages)
	}
}

func TestInspectMalformedPDF(t *testing.T) {
	info, err := Inspect([]byte("%PDF-1.4 truncated upload"), "claim.pdf")
	if err == nil {
		t.Fatalf("expected error for truncated pdf")
	}
	if info.MimeType != "application/pdf" || info.Pages != 0 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestInspectNonPDF(t *testing.T) {
	info, err := Inspect([]byte("patient notes, plain text"), "notes.txt")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.MimeType != "text/plain" {
		t.Fatalf("unexpected mime %q", info.MimeType)
	}
	if info.Pages != 0 {
		t.Fatalf("expected no page count, got %d", info.Pages)
	}
}
