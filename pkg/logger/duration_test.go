package logger

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Duration
		wantErr  bool
	}{
		{
			name:     "string duration",
			input:    `"5s"`,
			expected: Duration(5 * time.Second),
		},
		{
			name:     "numeric duration (nanoseconds)",
			input:    `5000000000`,
			expected: Duration(5 * time.Second),
		},
		{
			name:     "complex duration string",
			input:    `"1h30m45s"`,
			expected: Duration(1*time.Hour + 30*time.Minute + 45*time.Second),
		},
		{
			name:    "invalid duration string",
			input:   `"invalid"`,
			wantErr: true,
		},
		{
			name:    "invalid type",
			input:   `true`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && d != tt.expected {
				t.Errorf("UnmarshalJSON() = %v, expected %v", d, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration(90 * time.Second)

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	if string(out) != `"1m30s"` {
		t.Errorf("MarshalJSON() = %s, expected \"1m30s\"", out)
	}
}
