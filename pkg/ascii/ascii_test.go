package ascii

import (
	"strings"
	"testing"
)

func TestBox(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "empty",
			lines: nil,
			want:  "",
		},
		{
			name:  "single line",
			lines: []string{"Hello"},
			want:  "┌───────┐\n│ Hello │\n└───────┘\n",
		},
		{
			name:  "multiple lines",
			lines: []string{"Line 1", "Longer line here", "Short"},
			want: "┌──────────────────┐\n" +
				"│ Line 1           │\n" +
				"│ Longer line here │\n" +
				"│ Short            │\n" +
				"└──────────────────┘\n",
		},
		{
			name:  "wide runes",
			lines: []string{"诊所_1", "clinic_12"},
			want: "┌───────────┐\n" +
				"│ 诊所_1    │\n" +
				"│ clinic_12 │\n" +
				"└───────────┘\n",
		},
		{
			name:  "trailing spaces are trimmed",
			lines: []string{"abc   ", "de"},
			want:  "┌─────┐\n│ abc │\n│ de  │\n└─────┘\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Box(tt.lines); got != tt.want {
				t.Errorf("Box() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestTable(t *testing.T) {
	got := Table([]string{"ID", "TYPE", "FIELDS"}, [][]string{
		{"health_center_1", "health_center", "contact, parent"},
		{"patient_1", "person", "parent"},
		{"r", ""},
	})
	want := []string{
		"ID               TYPE           FIELDS",
		"───────────────────────────────────────────────",
		"health_center_1  health_center  contact, parent",
		"patient_1        person         parent",
		"r",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Table() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestTableWithoutHeader(t *testing.T) {
	got := Table(nil, [][]string{{"a", "b"}, {"ccc", "d"}})
	if len(got) != 2 || got[0] != "a    b" || got[1] != "ccc  d" {
		t.Errorf("Table() = %q", got)
	}
}

func TestTruncateForBox(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncate me please", 10, "truncat..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
		{"诊所诊所", 5, "诊..."},
	}
	for _, tt := range tests {
		if got := TruncateForBox(tt.value, tt.width); got != tt.want {
			t.Errorf("TruncateForBox(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("诊", 4); got != "诊  " {
		t.Errorf("PadRight() = %q", got)
	}
	if got := PadRight("toolong", 3); got != "toolong" {
		t.Errorf("PadRight() should not truncate, got %q", got)
	}
}
