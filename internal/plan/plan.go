package plan

import (
	"strings"
	"time"

	"github.com/2beens/mmtreino/internal/exercises"
)

type Day string

const (
	DayMonday    Day = "SEG"
	DayWednesday Day = "QUA"
	DayFriday    Day = "SEX"
)

var Days = []Day{DayMonday, DayWednesday, DayFriday}

func (d Day) IsValid() bool {
	switch d {
	case DayMonday, DayWednesday, DayFriday:
		return true
	}
	return false
}

// ParseDay accepts the short codes and the long Portuguese names found in
// the spreadsheets, e.g. "Seg.", "segunda", "QUARTA".
func ParseDay(s string) (Day, bool) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), ".", ""))
	s = strings.TrimSuffix(s, "-FEIRA")
	switch s {
	case "SEG", "SEGUNDA":
		return DayMonday, true
	case "QUA", "QUARTA":
		return DayWednesday, true
	case "SEX", "SEXTA":
		return DayFriday, true
	}
	return "", false
}

type SessionCode string

const (
	SessionA      SessionCode = "A"
	SessionB      SessionCode = "B"
	SessionC      SessionCode = "C"
	SessionD      SessionCode = "D"
	SessionDeload SessionCode = "DELOAD"
)

var SessionCodes = []SessionCode{SessionA, SessionB, SessionC, SessionD, SessionDeload}

func (c SessionCode) IsValid() bool {
	switch c {
	case SessionA, SessionB, SessionC, SessionD, SessionDeload:
		return true
	}
	return false
}

func ParseSessionCode(s string) (SessionCode, bool) {
	c := SessionCode(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.IsValid()
}

type Plan struct {
	ID           int            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	WeekSettings []WeekSettings `gorm:"foreignKey:PlanID" json:"weekSettings,omitempty"`
}

func (Plan) TableName() string {
	return "plans"
}

type WeekSettings struct {
	ID             int     `gorm:"primaryKey" json:"id"`
	PlanID         int     `gorm:"not null;uniqueIndex:ux_plan_week,priority:1" json:"planId"`
	WeekNumber     int     `gorm:"not null;uniqueIndex:ux_plan_week,priority:2" json:"weekNumber"`
	SetsDefault    *int    `json:"setsDefault"`
	RepsTargetText *string `json:"repsTargetText"`
	RirTargetText  *string `json:"rirTargetText"`
	RestText       *string `json:"restText"`
	TempoText      *string `json:"tempoText"`
	BlockFocus     *string `json:"blockFocus"`
	Notes          *string `json:"notes"`
}

func (WeekSettings) TableName() string {
	return "plan_week_settings"
}

// PlanExercise is one scheduled exercise of a (week, day, session). Its
// targets override the week defaults.
type PlanExercise struct {
	ID            int                 `gorm:"primaryKey" json:"id"`
	PlanID        int                 `gorm:"not null;uniqueIndex:ux_plan_exercise,priority:1" json:"planId"`
	WeekNumber    int                 `gorm:"not null;uniqueIndex:ux_plan_exercise,priority:2" json:"weekNumber"`
	Day           Day                 `gorm:"type:varchar(8);not null;uniqueIndex:ux_plan_exercise,priority:3" json:"day"`
	SessionCode   SessionCode         `gorm:"type:varchar(8);not null;uniqueIndex:ux_plan_exercise,priority:4" json:"sessionCode"`
	ExerciseID    int                 `gorm:"not null;uniqueIndex:ux_plan_exercise,priority:5;index" json:"exerciseId"`
	SessionNumber *int                `json:"sessionNumber"`
	Sets          *int                `json:"sets"`
	RepsTarget    *string             `json:"repsTarget"`
	RirTarget     *string             `json:"rirTarget"`
	Rest          *string             `json:"rest"`
	Tempo         *string             `json:"tempo"`
	Exercise      *exercises.Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
}

func (PlanExercise) TableName() string {
	return "plan_exercises"
}

// ScheduleKey identifies a plan exercise within the whole plan.
type ScheduleKey struct {
	PlanID      int
	WeekNumber  int
	Day         Day
	SessionCode SessionCode
	ExerciseID  int
}

func (pe PlanExercise) Key() ScheduleKey {
	return ScheduleKey{
		PlanID:      pe.PlanID,
		WeekNumber:  pe.WeekNumber,
		Day:         pe.Day,
		SessionCode: pe.SessionCode,
		ExerciseID:  pe.ExerciseID,
	}
}
