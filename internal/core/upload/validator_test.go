package upload

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAcceptsAllowedTypes(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		mime     string
	}{
		{"jpg extension", "scan.jpg", ""},
		{"jpeg extension", "scan.JPEG", ""},
		{"png extension", "scan.png", "application/octet-stream"},
		{"mime only", "scan", "image/png"},
		{"mime with params", "scan", "image/jpeg; charset=binary"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(tc.filename, tc.mime, 1024); err != nil {
				t.Fatalf("expected accept, got %v", err)
			}
		})
	}
}

func TestValidateRejectsOversizeBeforeType(t *testing.T) {
	// An oversized PDF must report the size limit, not the type.
	err := Validate("scan.pdf", "application/pdf", MaxFileSize+1)
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(err.Error(), "File size exceeds maximum allowed size of 10MB") {
		t.Fatalf("unexpected reason: %v", err)
	}
}

func TestValidateAcceptsExactLimit(t *testing.T) {
	if err := Validate("scan.jpg", "image/jpeg", MaxFileSize); err != nil {
		t.Fatalf("expected accept at exact limit, got %v", err)
	}
}

func TestValidateRejectsPDFByName(t *testing.T) {
	for _, tc := range []struct{ filename, mime string }{
		{"form.pdf", ""},
		{"form.bin", "application/pdf"},
	} {
		err := Validate(tc.filename, tc.mime, 1024)
		if err == nil {
			t.Fatalf("expected rejection for %q/%q", tc.filename, tc.mime)
		}
		if !strings.Contains(err.Error(), "PDF processing requires additional setup") {
			t.Fatalf("unexpected reason: %v", err)
		}
	}
}

func TestValidateRejectsUnknownType(t *testing.T) {
	err := Validate("notes.txt", "text/plain", 1024)
	if err == nil {
		t.Fatal("expected rejection")
	}
	want := "File type .txt not allowed. Allowed types: .jpg, .jpeg, .png"
	if err.Error() != want {
		t.Fatalf("reason = %q, want %q", err.Error(), want)
	}
	var rej *Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected *Rejection, got %T", err)
	}
}

func TestValidateNamesMimeWhenExtensionMissing(t *testing.T) {
	err := Validate("upload", "text/plain", 1024)
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(err.Error(), "File type text/plain not allowed") {
		t.Fatalf("unexpected reason: %v", err)
	}
}
