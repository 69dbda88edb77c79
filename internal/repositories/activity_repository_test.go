// file: internal/repositories/activity_repository_test.go
package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeStreak(t *testing.T) {
	now := day("2026-08-30")

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{
			name: "no activity",
			days: nil,
			want: 0,
		},
		{
			name: "single day today",
			days: []time.Time{day("2026-08-30")},
			want: 1,
		},
		{
			name: "single day yesterday still counts",
			days: []time.Time{day("2026-08-29")},
			want: 1,
		},
		{
			name: "streak broken two days ago",
			days: []time.Time{day("2026-08-28"), day("2026-08-27")},
			want: 0,
		},
		{
			name: "three consecutive days",
			days: []time.Time{day("2026-08-30"), day("2026-08-29"), day("2026-08-28")},
			want: 3,
		},
		{
			name: "gap in the middle stops the count",
			days: []time.Time{day("2026-08-30"), day("2026-08-29"), day("2026-08-26")},
			want: 2,
		},
		{
			name: "duplicate days are skipped",
			days: []time.Time{day("2026-08-30"), day("2026-08-30"), day("2026-08-29")},
			want: 2,
		},
		{
			name: "seven day run",
			days: []time.Time{
				day("2026-08-30"), day("2026-08-29"), day("2026-08-28"),
				day("2026-08-27"), day("2026-08-26"), day("2026-08-25"),
				day("2026-08-24"),
			},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStreak(tt.days, now))
		})
	}
}
