package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func samplePDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for i, line := range lines {
		doc.Text(20, float64(30+10*i), line)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesReadsPDF(t *testing.T) {
	data := samplePDF(t, "Solar kiosks for rural markets")

	text, err := TextFromBytes(context.Background(), data, "application/pdf", "plan.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(strings.ReplaceAll(text, " ", ""), "Solarkiosks") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextFromBytesSniffsMagic(t *testing.T) {
	data := samplePDF(t, "Mobile repair van")
	if _, err := TextFromBytes(context.Background(), data, "application/octet-stream", "upload.bin"); err != nil {
		t.Fatalf("expected magic-byte detection, got %v", err)
	}
}

func TestTextFromBytesRejectsOtherTypes(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("PK\x03\x04"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "plan.docx")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTextFromBytesMalformedPDF(t *testing.T) {
	if _, err := TextFromBytes(context.Background(), []byte("%PDF-1.4 not really"), "application/pdf", "x.pdf"); err == nil {
		t.Fatalf("expected error for malformed pdf")
	}
}

func TestTextFromBytesHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := TextFromBytes(ctx, samplePDF(t, "x"), "application/pdf", "x.pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsPDF(t *testing.T) {
	cases := []struct {
		mime, name string
		data       []byte
		want       bool
	}{
		{"application/pdf; charset=binary", "", nil, true},
		{"", "Plan.PDF", nil, true},
		{"", "", []byte("%PDF-1.7"), true},
		{"text/plain", "notes.txt", []byte("hello"), false},
	}
	for _, tc := range cases {
		if got := IsPDF(tc.mime, tc.name, tc.data); got != tc.want {
			t.Fatalf("IsPDF(%q, %q) = %v, want %v", tc.mime, tc.name, got, tc.want)
		}
	}
}
