package schema

import (
	"context"
	"fmt"

	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/workouts"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Models lists every persisted type, parents first.
func Models() []any {
	return []any{
		&exercises.Exercise{},
		&plan.Plan{},
		&plan.WeekSettings{},
		&plan.PlanExercise{},
		&workouts.UserSession{},
		&workouts.WorkoutLog{},
		&workouts.SetLog{},
	}
}

// Migrate creates or updates all tables and indexes. It never drops columns.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Debugf("schema migrated [%s]", gdb.Dialector.Name())
	return nil
}
