package plan

import "testing"

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		designator string
		want       int
	}{
		{"Monday", 0},
		{"wednesday", 2},
		{"Sunday", 6},
		{"lunes", 0},
		{"miércoles", 2},
		{"Miercoles", 2},
		{"sábado", 5},
		{"DOMINGO", 6},
		{"0", 0},
		{"2", 2},
		{"6", 6},
		{" Friday ", 4},
	}

	for _, tt := range tests {
		if got := NormalizeDay(tt.designator); got != tt.want {
			t.Errorf("NormalizeDay(%q) = %d, want %d", tt.designator, got, tt.want)
		}
	}
}

func TestNormalizeDay_FallsBackToMonday(t *testing.T) {
	for _, designator := range []string{"", "someday", "7", "-1", "lundi", "100"} {
		if got := NormalizeDay(designator); got != 0 {
			t.Errorf("NormalizeDay(%q) = %d, want fallback 0", designator, got)
		}
	}
}
