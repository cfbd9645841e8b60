package s3

import (
	"context"
	"testing"

	"idea-analyzer/internal/shared/storage/object"
)

func TestApplyPrefixToArchiveKeys(t *testing.T) {
	reportKey, err := object.ReportKey("idea-1", "Solar_Kiosk_Business_Report.pdf")
	if err != nil {
		t.Fatalf("ReportKey: %v", err)
	}

	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{prefix: "", key: reportKey, want: "reports/idea-1/Solar_Kiosk_Business_Report.pdf"},
		{prefix: "idea-analyzer", key: reportKey, want: "idea-analyzer/reports/idea-1/Solar_Kiosk_Business_Report.pdf"},
		{prefix: "/staging/idea-analyzer/", key: "/submissions/abc/idea-1_plan.pdf", want: "staging/idea-analyzer/submissions/abc/idea-1_plan.pdf"},
		{prefix: "staging", key: "", want: "staging"},
	}
	for _, tt := range tests {
		if got := applyPrefix(normalizePrefix(tt.prefix), tt.key); got != tt.want {
			t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
		}
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "eu-west-1", "", "reports", ""); err == nil {
		t.Fatalf("expected an error without a bucket")
	}
}

func TestPutRejectsBadKeyBeforeUpload(t *testing.T) {
	s := &Store{bucket: "idea-reports"}
	if _, err := s.Put(context.Background(), "../escape.pdf", "application/pdf", nil); err != object.ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
