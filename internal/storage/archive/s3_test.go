// internal/storage/archive/s3_test.go
package archive

import (
	"strings"
	"testing"
)

func TestS3Config_Key(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "file.csv", "file.csv"},
		{"exports", "file.csv", "exports/file.csv"},
		{"exports/", "file.csv", "exports/file.csv"},
		{"/exports/", "/file.csv", "exports/file.csv"},
	}

	for _, tt := range tests {
		s := &S3Storage{prefix: strings.Trim(tt.prefix, "/")}
		got := s.key(tt.path)
		if got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestNewS3(t *testing.T) {
	s, err := NewS3(S3Config{Bucket: "exports", Region: "us-east-1", Prefix: "realize/", Endpoint: "http://localhost:9000"})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	if got := s.Location("result.csv"); got != "s3://exports/realize/result.csv" {
		t.Errorf("unexpected location %s", got)
	}

	if _, err := NewS3(S3Config{}); err == nil {
		t.Error("expected error without bucket")
	}
}

func TestContentType(t *testing.T) {
	if contentType("a.CSV") != "text/csv" {
		t.Error("expected text/csv")
	}
	if contentType("a.bin") != "application/octet-stream" {
		t.Error("expected octet-stream")
	}
}
