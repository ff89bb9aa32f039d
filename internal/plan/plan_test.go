package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDay(t *testing.T) {
	for _, d := range Days {
		assert.True(t, d.IsValid())
	}
	assert.False(t, Day("SAB").IsValid())
	assert.False(t, Day("seg").IsValid())

	testCases := map[string]Day{
		"SEG":           DayMonday,
		"Seg.":          DayMonday,
		" segunda ":     DayMonday,
		"Segunda-feira": DayMonday,
		"qua":           DayWednesday,
		"QUARTA":        DayWednesday,
		"Sex.":          DayFriday,
		"sexta-feira":   DayFriday,
	}
	for in, want := range testCases {
		got, ok := ParseDay(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseDay("domingo")
	assert.False(t, ok)
	_, ok = ParseDay("")
	assert.False(t, ok)
}

func TestSessionCode(t *testing.T) {
	for _, c := range SessionCodes {
		assert.True(t, c.IsValid())
	}
	assert.False(t, SessionCode("E").IsValid())

	got, ok := ParseSessionCode(" deload ")
	assert.True(t, ok)
	assert.Equal(t, SessionDeload, got)

	got, ok = ParseSessionCode("b")
	assert.True(t, ok)
	assert.Equal(t, SessionB, got)

	_, ok = ParseSessionCode("AB")
	assert.False(t, ok)
}

func TestPlanExercise_Key(t *testing.T) {
	pe := PlanExercise{PlanID: 1, WeekNumber: 2, Day: DayFriday, SessionCode: SessionC, ExerciseID: 9}
	assert.Equal(t, ScheduleKey{PlanID: 1, WeekNumber: 2, Day: DayFriday, SessionCode: SessionC, ExerciseID: 9}, pe.Key())
}
