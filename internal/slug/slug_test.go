package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{
			name:        "simple name with space",
			input:       "Yuna Seo",
			expected:    "yuna-seo",
			expectError: false,
		},
		{
			name:        "already lowercase",
			input:       "minho kang",
			expected:    "minho-kang",
			expectError: false,
		},
		{
			name:        "accented characters",
			input:       "Chloé Park",
			expected:    "chloe-park",
			expectError: false,
		},
		{
			name:        "stage name with punctuation",
			input:       "J.Woo",
			expected:    "j-woo",
			expectError: false,
		},
		{
			name:        "multiple spaces",
			input:       "Hana  Lee",
			expected:    "hana-lee",
			expectError: false,
		},
		{
			name:        "numbers in name",
			input:       "Mina 2X",
			expected:    "mina-2x",
			expectError: false,
		},
		{
			name:        "leading and trailing symbols",
			input:       "*Dara Im*",
			expected:    "dara-im",
			expectError: false,
		},
		{
			name:        "single word",
			input:       "Somi",
			expected:    "somi",
			expectError: false,
		},
		{
			name:        "empty string",
			input:       "",
			expected:    "",
			expectError: true,
		},
		{
			name:        "only special characters",
			input:       "!@#$%",
			expected:    "",
			expectError: true,
		},
		{
			name:        "only hyphens",
			input:       "---",
			expected:    "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Make(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("Make(%q) expected error, got nil", tt.input)
				}
			} else {
				if err != nil {
					t.Errorf("Make(%q) returned unexpected error: %v", tt.input, err)
				}
				if result != tt.expected {
					t.Errorf("Make(%q) = %q, expected %q", tt.input, result, tt.expected)
				}
			}
		})
	}
}
