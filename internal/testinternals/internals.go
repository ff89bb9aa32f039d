package testinternals

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/schema"
	"github.com/2beens/mmtreino/pkg"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	PlanID = 1

	ExerciseSquat    = 101
	ExerciseBench    = 102
	ExerciseRow      = 103
	ExerciseNoGroup  = 104
	ExerciseBenchInc = 105
)

// NewTestStore opens a migrated sqlite store in a temp dir that is removed
// with the test.
func NewTestStore(t testing.TB) *db.Store {
	t.Helper()

	store := db.NewStore(db.Options{
		DSN:      "file:" + filepath.Join(t.TempDir(), "mmtreino_test.db"),
		LogLevel: "silent",
		OnOpen:   schema.Migrate,
	})
	t.Cleanup(store.Close)

	_, err := store.Get(context.Background())
	require.NoError(t, err)
	return store
}

func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := NewTestStore(t).Get(context.Background())
	require.NoError(t, err)
	return gdb
}

// SeedPlan loads a small plan: weeks 1 and 2, with sessions SEG/A and QUA/B.
func SeedPlan(t testing.TB, conn db.Conn) {
	t.Helper()
	ctx := context.Background()

	exerciseRepo := exercises.NewRepo(conn)
	for _, e := range []exercises.Exercise{
		{ID: ExerciseSquat, Name: "Agachamento livre", Group: pkg.Ptr("Pernas"), Equipment: pkg.Ptr("Barra"), MovementPattern: pkg.Ptr("Agachar")},
		{ID: ExerciseBench, Name: "Supino reto", Group: pkg.Ptr("Peito"), Equipment: pkg.Ptr("Barra"), MovementPattern: pkg.Ptr("Empurrar")},
		{ID: ExerciseRow, Name: "Remada curvada", Group: pkg.Ptr("Costas"), Equipment: pkg.Ptr("Barra"), MovementPattern: pkg.Ptr("Puxar")},
		{ID: ExerciseNoGroup, Name: "Prancha"},
		{ID: ExerciseBenchInc, Name: "Supino inclinado com halteres", Group: pkg.Ptr("Peito"), Equipment: pkg.Ptr("Halteres")},
	} {
		require.NoError(t, exerciseRepo.Upsert(ctx, e))
	}

	planRepo := plan.NewRepo(conn)
	require.NoError(t, planRepo.UpsertPlan(ctx, plan.Plan{ID: PlanID, Name: "Plano de teste"}))

	for week := 1; week <= 2; week++ {
		require.NoError(t, planRepo.UpsertWeekSettings(ctx, plan.WeekSettings{
			PlanID:         PlanID,
			WeekNumber:     week,
			SetsDefault:    pkg.Ptr(3),
			RepsTargetText: pkg.Ptr("8-10"),
			RirTargetText:  pkg.Ptr("2"),
			BlockFocus:     pkg.Ptr("Base"),
		}))

		for _, pe := range []plan.PlanExercise{
			{Day: plan.DayWednesday, SessionCode: plan.SessionB, ExerciseID: ExerciseRow, SessionNumber: pkg.Ptr(1), RepsTarget: pkg.Ptr("10-12")},
			{Day: plan.DayMonday, SessionCode: plan.SessionA, ExerciseID: ExerciseBench, SessionNumber: pkg.Ptr(2), RepsTarget: pkg.Ptr("6 a 8")},
			{Day: plan.DayMonday, SessionCode: plan.SessionA, ExerciseID: ExerciseSquat, SessionNumber: pkg.Ptr(1), RepsTarget: pkg.Ptr("8-10")},
			{Day: plan.DayMonday, SessionCode: plan.SessionA, ExerciseID: ExerciseNoGroup, SessionNumber: pkg.Ptr(3), RepsTarget: pkg.Ptr("30s")},
		} {
			pe.PlanID = PlanID
			pe.WeekNumber = week
			pe.Sets = pkg.Ptr(3)
			require.NoError(t, planRepo.UpsertPlanExercise(ctx, pe))
		}
	}
}

// SetUpdatedAt rewrites the update time of a set log, for ordering tests.
func SetUpdatedAt(t testing.TB, gdb *gorm.DB, setLogID string, at time.Time) {
	t.Helper()
	err := gdb.Exec("UPDATE workout_set_logs SET updated_at = ? WHERE id = ?", at.UTC(), setLogID).Error
	require.NoError(t, err)
}
