package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRecords(a *Analyzer, course string, raws ...string) []Record {
	recs := make([]Record, len(raws))
	for i, raw := range raws {
		recs[i] = a.NewRecord(Enrollment{
			StudentCode:   string(rune('a' + i)),
			CourseCode:    course,
			Section:       "1",
			StudyCode:     string(Lecture),
			RawAttendance: raw,
		})
	}
	return recs
}

func TestBuildMatrix(t *testing.T) {
	withLeave := DefaultOptions()
	withLeave.CountLeave = true

	tests := []struct {
		name       string
		opts       Options
		raws       []string
		wantCells  []SessionCell
		wantRates  []SessionRate
		wantValid  int
		wantAvg    float64
		wantLatest Rate
	}{
		{
			name: "different lengths are aligned",
			opts: DefaultOptions(),
			raws: []string{"P,A,L", "P,P,A,P,A"},
			wantCells: []SessionCell{
				{Present: 2, Total: 2},
				{Present: 1, Absent: 1, Total: 2},
				{Absent: 1, Late: 1, Total: 2},
				{Present: 1, Total: 1},
				{Absent: 1, Total: 1},
			},
			wantRates: []SessionRate{
				{Session: 1, Rate: 100, SampleSize: 2},
				{Session: 2, Rate: 50, SampleSize: 2},
				{Session: 3, Rate: 50, SampleSize: 2},
				{Session: 4, Rate: 100, SampleSize: 1},
				{Session: 5, Rate: 0, SampleSize: 1},
			},
			wantValid:  5,
			wantAvg:    60,
			wantLatest: 0,
		},
		{
			name: "unchecked tail is trimmed",
			opts: DefaultOptions(),
			raws: []string{"P,A,L", "P,P,A,,"},
			wantCells: []SessionCell{
				{Present: 2, Total: 2},
				{Present: 1, Absent: 1, Total: 2},
				{Absent: 1, Late: 1, Total: 2},
			},
			wantRates: []SessionRate{
				{Session: 1, Rate: 100, SampleSize: 2},
				{Session: 2, Rate: 50, SampleSize: 2},
				{Session: 3, Rate: 50, SampleSize: 2},
			},
			wantValid:  3,
			wantAvg:    200.0 / 3,
			wantLatest: 50,
		},
		{
			name:       "interior gap keeps its index",
			opts:       DefaultOptions(),
			raws:       []string{"P,,P", "P,,A"},
			wantCells:  []SessionCell{{Present: 2, Total: 2}, {}, {Present: 1, Absent: 1, Total: 2}},
			wantRates:  []SessionRate{{Session: 1, Rate: 100, SampleSize: 2}, {Session: 3, Rate: 50, SampleSize: 2}},
			wantValid:  2,
			wantAvg:    75,
			wantLatest: 50,
		},
		{
			name:       "leave excluded by default",
			opts:       DefaultOptions(),
			raws:       []string{"S", "P", "A"},
			wantCells:  []SessionCell{{Present: 1, Absent: 1, Leave: 1, Total: 3}},
			wantRates:  []SessionRate{{Session: 1, Rate: 33.3, SampleSize: 3}},
			wantValid:  1,
			wantAvg:    33.3,
			wantLatest: 33.3,
		},
		{
			name:       "leave counted",
			opts:       withLeave,
			raws:       []string{"S", "P", "A"},
			wantCells:  []SessionCell{{Present: 1, Absent: 1, Leave: 1, Total: 3}},
			wantRates:  []SessionRate{{Session: 1, Rate: 66.7, SampleSize: 3}},
			wantValid:  1,
			wantAvg:    66.7,
			wantLatest: 66.7,
		},
		{
			name:      "nothing checked",
			opts:      DefaultOptions(),
			raws:      []string{",,", ""},
			wantCells: []SessionCell{},
			wantRates: []SessionRate{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.opts)
			m := a.BuildMatrix(newRecords(a, "CS101", tt.raws...))

			assert.Equal(t, tt.wantCells, m.Cells)
			assert.Equal(t, tt.wantRates, m.Rates)
			assert.Equal(t, tt.wantValid, m.ValidSessions)
			assert.InDelta(t, tt.wantAvg, float64(m.OverallRate), 1e-9)
			assert.Equal(t, tt.wantLatest, m.LatestRate)
		})
	}
}

func TestAnalyzer_WithCategories(t *testing.T) {
	a := NewAnalyzer(DefaultOptions())
	recs := newRecords(a, "CS101", "P", "L", "S", "A")

	assert.Equal(t, Rate(50), a.BuildMatrix(recs).OverallRate)
	assert.Equal(t, Rate(25), a.WithCategories(true, false, false).BuildMatrix(recs).OverallRate)
	assert.Equal(t, Rate(75), a.WithCategories(true, true, true).BuildMatrix(recs).OverallRate)
	assert.False(t, a.Options().CountLeave, "original analyzer is unchanged")
}
