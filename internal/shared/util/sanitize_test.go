package util

import (
	"errors"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report1.pdf", "report1.pdf"},
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "passwd"},
		{`C:\Users\bob\report1.pdf`, "report1.pdf"},
		{`C:\scans\claim 42.pdf`, "claim_42.pdf"},
		{`..\..\windows\win.ini`, "win.ini"},
		{"/home/ana/Claims/march scan.pdf", "march_scan.pdf"},
		{"i contain cool \u00fcml\u00e4uts.txt", "i_contain_cool_umlauts.txt"},
		{"  .hidden_  ", "hidden"},
		{"scan(1)&copy.png", "scan1copy.png"},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameRejectsEmptyResult(t *testing.T) {
	for _, in := range []string{"", "   ", "..", "/", `C:\Users\bob\`, "scans/..", "\u65e5\u672c.", "___"} {
		if _, err := SanitizeFileName(in); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("SanitizeFileName(%q): expected ErrInvalidFileName, got %v", in, err)
		}
	}
}
