package utils_test

import (
	"testing"

	"github.com/mmdatafocus/cashregister_backend/utils"
)

func TestFormatDailyCode(t *testing.T) {
	cases := []struct {
		prefix string
		day    string
		seq    int64
		want   string
	}{
		{"CSH", "20250901", 1, "CSH-20250901-0001"},
		{"CSH", "20250901", 42, "CSH-20250901-0042"},
		{"CSH", "20251231", 9999, "CSH-20251231-9999"},
		{"CSH", "20251231", 10000, "CSH-20251231-10000"},
	}
	for _, c := range cases {
		got := utils.FormatDailyCode(c.prefix, c.day, c.seq)
		if got != c.want {
			t.Errorf("FormatDailyCode(%s, %s, %d) = %s, want %s", c.prefix, c.day, c.seq, got, c.want)
		}
	}
}
