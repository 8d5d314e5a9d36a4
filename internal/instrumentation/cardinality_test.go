package instrumentation

import "testing"

func TestTargetLabel(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"", "unknown"},
		{"primary", "primary"},
		{"jane@example.com", "example.com"},
		{"en.spain#holiday@group.v.calendar.google.com", "group.v.calendar.google.com"},
		{"MDY2NzE0NjQ5ODk", "other"},
		{"trailing@", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := TargetLabel(tt.id); got != tt.want {
				t.Errorf("TargetLabel(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
