package core

import "testing"

func TestDisplayName_Table(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"empty", "", ""},
		{"underscore", "my_app", "My App"},
		{"dashes", "create-a-project", "Create A Project"},
		{"single word", "app", "App"},
		{"mixed case lowered", "myAPP", "Myapp"},
		{"digits split runs", "app2go", "App2Go"},
		{"leading underscore", "_private", " Private"},
		{"mixed separators", "a-b_c", "A B C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayName(tt.input)
			if got != tt.expect {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestNormalizeFrameworkName_Table(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"flet", "flet"},
		{"PyQt6", "pyqt6"},
		{"PySide6", "pyside6"},
		{"tkinter (built-in)", "tkinter"},
		{"Custom Tk", "custom_tk"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeFrameworkName(tt.input)
			if got != tt.expect {
				t.Errorf("NormalizeFrameworkName(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
