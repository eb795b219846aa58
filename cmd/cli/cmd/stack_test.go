package cmd

import (
	"reflect"
	"testing"

	"eurobase/core/types"
)

// TestParseSelection tests filter argument parsing
func TestParseSelection(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected types.Selection
		wantErr  bool
	}{
		{
			name:     "no filters",
			args:     nil,
			expected: types.Selection{},
		},
		{
			name:     "single dimension single code",
			args:     []string{"geo=AT"},
			expected: types.Selection{"geo": {"AT"}},
		},
		{
			name:     "multiple dimensions and codes",
			args:     []string{"geo=AT,BE, DE", "time=2021"},
			expected: types.Selection{"geo": {"AT", "BE", "DE"}, "time": {"2021"}},
		},
		{
			name:    "missing equals",
			args:    []string{"geoAT"},
			wantErr: true,
		},
		{
			name:    "empty code list",
			args:    []string{"geo=,,"},
			wantErr: true,
		},
		{
			name:    "empty dimension name",
			args:    []string{"=AT"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := parseSelection(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(sel, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, sel)
			}
		})
	}
}
