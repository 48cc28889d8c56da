package service

import (
	"context"
	"testing"
	"time"

	"github.com/ivanoskov/intake_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

type staticCounter int

func (c staticCounter) Count() int { return int(c) }

func TestStatistics_AllTimeCountsEverySubmission(t *testing.T) {
	s := NewStatistics(staticCounter(0))
	start := time.Date(2026, time.March, 14, 23, 59, 0, 0, time.UTC)

	const m = 57
	for i := 0; i < m; i++ {
		at := start.Add(time.Duration(i) * 7 * time.Hour)
		s.now = func() time.Time { return at }
		s.OnSubmission()
	}

	assert.Equal(t, m, s.Snapshot().AllTime)
}

func TestStatistics_CoarseWindows(t *testing.T) {
	tests := []struct {
		name        string
		at          time.Time
		wantMonthly int
	}{
		{name: "mid month", at: time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC), wantMonthly: 0},
		{name: "first of month", at: time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC), wantMonthly: 0},
		{name: "31st of a 31 day month", at: time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC), wantMonthly: 1},
		{name: "march 31st", at: time.Date(2026, time.March, 31, 0, 30, 0, 0, time.UTC), wantMonthly: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStatistics(staticCounter(3))
			s.now = func() time.Time { return tt.at }

			s.OnSubmission()

			assert.Equal(t, model.Statistics{
				Daily:   1,
				Weekly:  1,
				Monthly: tt.wantMonthly,
				AllTime: 1,
				Users:   3,
			}, s.Snapshot())
		})
	}
}

func TestStatistics_DailyAndWeeklyKeepGrowingAcrossDays(t *testing.T) {
	s := NewStatistics(staticCounter(0))
	day := time.Date(2026, time.April, 10, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		at := day.AddDate(0, 0, i)
		s.now = func() time.Time { return at }
		s.OnSubmission()
	}

	snap := s.Snapshot()
	assert.Equal(t, 10, snap.Daily)
	assert.Equal(t, 10, snap.Weekly)
	assert.Equal(t, 10, snap.AllTime)
}

func TestStatistics_SnapshotReportsUserCount(t *testing.T) {
	f := newFixture(t, nil)
	f.users.Remember(context.Background(), 1)
	f.users.Remember(context.Background(), 2)

	assert.Equal(t, 2, f.stats.Snapshot().Users)
	assert.Equal(t, 0, f.stats.Snapshot().AllTime)
}
