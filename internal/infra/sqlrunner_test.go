package infra

import (
	"testing"
)

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantBody   string
		wantErr    bool
	}{
		{
			name:       "valid",
			query:      "--sql 0f0557a2-1731-4fc6-8cbe-8540b1d2b6df\nselect 1;\n",
			wantMarker: "0f0557a2-1731-4fc6-8cbe-8540b1d2b6df",
			wantBody:   "select 1;",
		},
		{
			name:       "leading whitespace",
			query:      "\n  --sql 0f0557a2-1731-4fc6-8cbe-8540b1d2b6df\nselect 1;",
			wantMarker: "0f0557a2-1731-4fc6-8cbe-8540b1d2b6df",
			wantBody:   "select 1;",
		},
		{name: "missing marker", query: "select 1;", wantErr: true},
		{name: "uppercase uuid", query: "--sql 0F0557A2-1731-4FC6-8CBE-8540B1D2B6DF\nselect 1;", wantErr: true},
		{name: "empty", query: "   ", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := extractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("extractMarker() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractMarker() error: %v", err)
			}
			if marker != tc.wantMarker || body != tc.wantBody {
				t.Fatalf("extractMarker() = (%q, %q), want (%q, %q)", marker, body, tc.wantMarker, tc.wantBody)
			}
		})
	}
}
