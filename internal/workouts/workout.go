package workouts

import (
	"time"

	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/plan"
)

// UserSession is the persisted side of a visitor cookie.
type UserSession struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// WorkoutLog is one visitor's run of a scheduled session. There is at most
// one per (visitor, plan, week, day, session code). CompletedAt is set once
// the workout is done and never cleared.
type WorkoutLog struct {
	ID            string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserSessionID string           `gorm:"type:varchar(64);not null;uniqueIndex:ux_workout_log_session,priority:1" json:"userSessionId"`
	PlanID        int              `gorm:"not null;uniqueIndex:ux_workout_log_session,priority:2" json:"planId"`
	WeekNumber    int              `gorm:"not null;uniqueIndex:ux_workout_log_session,priority:3" json:"weekNumber"`
	Day           plan.Day         `gorm:"type:varchar(8);not null;uniqueIndex:ux_workout_log_session,priority:4" json:"day"`
	SessionCode   plan.SessionCode `gorm:"type:varchar(8);not null;uniqueIndex:ux_workout_log_session,priority:5" json:"sessionCode"`
	CreatedAt     time.Time        `gorm:"index" json:"createdAt"`
	CompletedAt   *time.Time       `gorm:"index" json:"completedAt"`
}

func (WorkoutLog) TableName() string {
	return "workout_logs"
}

func (l *WorkoutLog) IsCompleted() bool {
	return l.CompletedAt != nil
}

// SetLog holds what was actually done in one set. Rows are only ever
// upserted. Revision orders writes coming from one autosave cell.
type SetLog struct {
	ID           string              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	WorkoutLogID string              `gorm:"type:varchar(36);not null;uniqueIndex:ux_set_log,priority:1" json:"workoutLogId"`
	ExerciseID   int                 `gorm:"not null;uniqueIndex:ux_set_log,priority:2" json:"exerciseId"`
	SetNumber    int                 `gorm:"not null;uniqueIndex:ux_set_log,priority:3" json:"setNumber"`
	WeightKg     *string             `gorm:"type:varchar(32)" json:"weightKg"`
	RepsDone     *int                `json:"repsDone"`
	RirActual    *int                `json:"rirActual"`
	Notes        *string             `json:"notes"`
	Revision     int64               `gorm:"not null" json:"revision"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `gorm:"index" json:"updatedAt"`
	Exercise     *exercises.Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
}

func (SetLog) TableName() string {
	return "workout_set_logs"
}
