package sql

import (
	"testing"
)

func TestValidateAndNormalize_ValidQueries(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "catalog query without semicolon",
			input:    "SELECT COUNT(*) FROM artifact_metadata",
			expected: "SELECT COUNT(*) FROM artifact_metadata",
		},
		{
			name:     "trailing semicolon",
			input:    "SELECT title FROM artifact_metadata WHERE accessionyear = 2010;",
			expected: "SELECT title FROM artifact_metadata WHERE accessionyear = 2010",
		},
		{
			name:     "trailing semicolon and whitespace",
			input:    "SELECT 1;  \n",
			expected: "SELECT 1",
		},
		{
			name:     "leading and trailing whitespace",
			input:    "  SELECT 1  ",
			expected: "SELECT 1",
		},
		{
			name:     "semicolon inside single quoted string",
			input:    "SELECT * FROM artifact_metadata WHERE title = 'Coin; obverse'",
			expected: "SELECT * FROM artifact_metadata WHERE title = 'Coin; obverse'",
		},
		{
			name:     "semicolon inside double quoted identifier",
			input:    `SELECT * FROM "odd;name"`,
			expected: `SELECT * FROM "odd;name"`,
		},
		{
			name:     "SQL standard escaped single quote",
			input:    "SELECT * FROM artifact_metadata WHERE culture = 'Gallo''Roman';",
			expected: "SELECT * FROM artifact_metadata WHERE culture = 'Gallo''Roman'",
		},
		{
			name:     "multi-line join",
			input:    "SELECT m.title, c.hue\nFROM artifact_metadata m\nJOIN artifact_colors c ON m.id = c.object_id;",
			expected: "SELECT m.title, c.hue\nFROM artifact_metadata m\nJOIN artifact_colors c ON m.id = c.object_id",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAndNormalize(tt.input)
			if result.Error != nil {
				t.Errorf("unexpected error: %v", result.Error)
			}
			if result.NormalizedSQL != tt.expected {
				t.Errorf("got %q, want %q", result.NormalizedSQL, tt.expected)
			}
		})
	}
}

func TestValidateAndNormalize_MultipleStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "two selects", input: "SELECT 1; SELECT 2"},
		{name: "two selects with trailing semicolon", input: "SELECT 1; SELECT 2;"},
		{name: "no space after semicolon", input: "SELECT 1;SELECT 2"},
		{name: "drop table attempt", input: "SELECT 1; DROP TABLE artifact_metadata"},
		{name: "delete after string literal", input: "SELECT 'a;b'; DELETE FROM artifact_colors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAndNormalize(tt.input)
			if result.Error != ErrMultipleStatements {
				t.Errorf("expected ErrMultipleStatements, got %v", result.Error)
			}
		})
	}
}

func TestEnsureReadOnly(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "select", input: "SELECT * FROM artifact_media", wantErr: nil},
		{name: "lower case select", input: "select 1", wantErr: nil},
		{name: "with clause", input: "WITH t AS (SELECT 1) SELECT * FROM t", wantErr: nil},
		{name: "parenthesized select", input: "(SELECT 1) UNION (SELECT 2)", wantErr: nil},
		{name: "leading line comment", input: "-- top hues\nSELECT hue FROM artifact_colors", wantErr: nil},
		{name: "leading block comment", input: "/* q12 */ SELECT 1", wantErr: nil},
		{name: "insert", input: "INSERT INTO artifact_colors VALUES (1, 'Red', 0.5)", wantErr: ErrNotReadOnly},
		{name: "delete", input: "DELETE FROM artifact_metadata", wantErr: ErrNotReadOnly},
		{name: "replace", input: "REPLACE INTO artifact_media (object_id) VALUES (1)", wantErr: ErrNotReadOnly},
		{name: "modifying cte", input: "WITH gone AS (DELETE FROM artifact_colors RETURNING *) SELECT * FROM gone", wantErr: ErrNotReadOnly},
		{name: "cte with lower case update", input: "with t as ( update artifact_media set rank = 0 returning object_id) select * from t", wantErr: ErrNotReadOnly},
		{name: "pragma", input: "PRAGMA journal_mode", wantErr: ErrNotReadOnly},
		{name: "empty", input: "", wantErr: ErrEmptyStatement},
		{name: "comment only", input: "-- nothing", wantErr: ErrEmptyStatement},
		{name: "unterminated block comment", input: "/* SELECT 1", wantErr: ErrEmptyStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := EnsureReadOnly(tt.input); err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasSemicolonOutsideStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "no semicolons", input: "SELECT 1", expected: false},
		{name: "bare semicolon", input: "SELECT 1; SELECT 2", expected: true},
		{name: "inside single quotes", input: "SELECT 'a;b'", expected: false},
		{name: "inside double quotes", input: `SELECT "a;b"`, expected: false},
		{name: "string then real semicolon", input: "SELECT 'a;b'; SELECT 1", expected: true},
		{name: "doubled quote escape", input: "SELECT 'it''s;here'", expected: false},
		{name: "backslash escape", input: `SELECT 'test\';more'`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasSemicolonOutsideStrings(tt.input); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStripTrailingSemicolon(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "SELECT 1", expected: "SELECT 1"},
		{input: "SELECT 1;", expected: "SELECT 1"},
		{input: "SELECT 1 ;", expected: "SELECT 1"},
		{input: "SELECT 1;;", expected: "SELECT 1;"},
		{input: "SELECT 1;\t\n", expected: "SELECT 1"},
	}

	for _, tt := range tests {
		if got := stripTrailingSemicolon(tt.input); got != tt.expected {
			t.Errorf("stripTrailingSemicolon(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
