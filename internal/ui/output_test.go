package ui

import (
	"strings"
	"testing"
)

func TestCenter(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{
			name:     "text shorter than width",
			text:     "Hello",
			width:    15,
			expected: "     Hello",
		},
		{
			name:     "text same as width",
			text:     "Hello",
			width:    5,
			expected: "Hello",
		},
		{
			name:     "text longer than width",
			text:     "Hello World",
			width:    5,
			expected: "Hello World",
		},
		{
			name:     "even padding",
			text:     "Test",
			width:    10,
			expected: "   Test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := center(tt.text, tt.width)
			if result != tt.expected {
				t.Errorf("center(%q, %d) = %q; want %q", tt.text, tt.width, result, tt.expected)
			}
		})
	}
}

func TestColorFunctions(t *testing.T) {
	// These tests verify that the color functions don't panic
	tests := []struct {
		name string
		fn   func()
	}{
		{name: "Header", fn: func() { Header("Ingest") }},
		{name: "Step", fn: func() { Step(1, 5, "Fetching feeds") }},
		{name: "Success", fn: func() { Success("Stored 12 updates") }},
		{name: "Info", fn: func() { Info("Archive already fresh") }},
		{name: "Warning", fn: func() { Warning("One source failed") }},
		{name: "Error", fn: func() { Error("archive unavailable") }},
		{name: "BlueText", fn: func() { BlueText("ehco") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn()
		})
	}
}

func TestHeaderFormat(t *testing.T) {
	text := "Ingest"
	centered := center(text, 60)
	if !strings.Contains(centered, text) {
		t.Errorf("center() should contain original text %q", text)
	}
}
