//go:build integration_test

package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/2beens/mmtreino/internal/autosave"
	"github.com/2beens/mmtreino/internal/client"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/testinternals"
	"github.com/2beens/mmtreino/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayA(week int) workouts.StartParams {
	return workouts.StartParams{
		PlanID:      testinternals.PlanID,
		WeekNumber:  week,
		Day:         plan.DayMonday,
		SessionCode: plan.SessionA,
	}
}

func (s *IntegrationTestSuite) TestWorkoutFlow() {
	ctx := context.Background()
	s.resetData(ctx)
	c := s.newClient()

	workoutLogID, err := c.Start(ctx, mondayA(1))
	require.NoError(s.T(), err)

	again, err := c.Start(ctx, mondayA(1))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), workoutLogID, again)

	// another visitor gets its own log for the same session
	other, err := s.newClient().Start(ctx, mondayA(1))
	require.NoError(s.T(), err)
	assert.NotEqual(s.T(), workoutLogID, other)

	totalReps := 0
	for set := 1; set <= 3; set++ {
		weight := gofakeit.Float64Range(20, 120)
		reps := gofakeit.Number(6, 12)
		totalReps += reps

		res, err := c.SaveSet(ctx, workoutLogID, autosave.SetWrite{
			ExerciseID: testinternals.ExerciseSquat,
			SetNumber:  set,
			Values: autosave.Values{
				WeightKg: strconv.FormatFloat(weight, 'f', 1, 64),
				RepsDone: strconv.Itoa(reps),
				Notes:    gofakeit.Sentence(4),
			},
			Revision: 1,
		})
		require.NoError(s.T(), err)
		assert.False(s.T(), res.Stale)
	}

	detail, err := c.Workout(ctx, workoutLogID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), detail.SetLogs, 3)
	assert.Len(s.T(), detail.PlanExercises, 3)

	_, err = c.Complete(ctx, workoutLogID)
	require.NoError(s.T(), err)

	err = c.RecordSet(ctx, workoutLogID, autosave.SetWrite{
		ExerciseID: testinternals.ExerciseSquat,
		SetNumber:  4,
		Values:     autosave.Values{RepsDone: "5"},
	})
	assert.ErrorIs(s.T(), err, autosave.ErrLocked)

	recent, err := c.Workouts(ctx, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), recent.Workouts, 1)
	assert.Equal(s.T(), 1, recent.Completed)

	st, err := c.Stats(ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), st.CompletedByWeek, 1)
	assert.Equal(s.T(), 1, st.CompletedByWeek[0].Completed)

	var pernas int
	for _, v := range st.VolumeByWeekGroup {
		if v.Group == "Pernas" {
			pernas = v.Volume
		}
	}
	assert.Equal(s.T(), totalReps, pernas)
}

// Concurrent writes of one cell, sent in any order, keep the highest
// revision.
func (s *IntegrationTestSuite) TestConcurrentSetWrites() {
	ctx := context.Background()
	s.resetData(ctx)
	c := s.newClient()

	workoutLogID, err := c.Start(ctx, mondayA(2))
	require.NoError(s.T(), err)

	const writes = 20
	order := make([]int, writes)
	for i := range order {
		order[i] = i + 1
	}
	gofakeit.ShuffleInts(order)

	var wg sync.WaitGroup
	errs := make(chan error, writes)
	for _, rev := range order {
		wg.Add(1)
		go func(rev int) {
			defer wg.Done()
			_, err := c.SaveSet(ctx, workoutLogID, autosave.SetWrite{
				ExerciseID: testinternals.ExerciseBench,
				SetNumber:  1,
				Values:     autosave.Values{RepsDone: strconv.Itoa(rev)},
				Revision:   int64(rev),
			})
			errs <- err
		}(rev)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(s.T(), err)
	}

	detail, err := c.Workout(ctx, workoutLogID)
	require.NoError(s.T(), err)
	require.Len(s.T(), detail.SetLogs, 1)
	assert.EqualValues(s.T(), writes, detail.SetLogs[0].Revision)
	assert.Equal(s.T(), writes, *detail.SetLogs[0].RepsDone)

	// replaying the newest revision with other values is ignored
	res, err := c.SaveSet(ctx, workoutLogID, autosave.SetWrite{
		ExerciseID: testinternals.ExerciseBench,
		SetNumber:  1,
		Values:     autosave.Values{RepsDone: "1"},
		Revision:   writes,
	})
	require.NoError(s.T(), err)
	assert.True(s.T(), res.Stale)
	assert.Equal(s.T(), writes, *res.SetLog.RepsDone)
}

func (s *IntegrationTestSuite) TestAutosaveAgainstPostgres() {
	ctx := context.Background()
	s.resetData(ctx)
	c := s.newClient()

	workoutLogID, err := c.Start(ctx, mondayA(1))
	require.NoError(s.T(), err)

	ctrl := autosave.New(c, workoutLogID)
	defer ctrl.Close()

	for set := 1; set <= 3; set++ {
		key := autosave.Key{ExerciseID: testinternals.ExerciseSquat, SetNumber: set}
		weight := fmt.Sprintf("%d,5", gofakeit.Number(40, 80))
		require.NoError(s.T(), ctrl.Edit(key, autosave.Patch{WeightKg: &weight}))
	}
	require.NoError(s.T(), ctrl.SetExerciseNotes(testinternals.ExerciseSquat, gofakeit.Sentence(3)))
	require.NoError(s.T(), ctrl.Flush(ctx))

	for key, state := range ctrl.States() {
		assert.Equal(s.T(), autosave.StatusSaved, state.Status, "cell %+v", key)
	}

	detail, err := c.Workout(ctx, workoutLogID)
	require.NoError(s.T(), err)
	require.Len(s.T(), detail.SetLogs, 3)
	assert.NotNil(s.T(), detail.SetLogs[0].Notes)
}

func (s *IntegrationTestSuite) TestWriteRateLimit() {
	ctx := context.Background()
	s.resetData(ctx)
	c := s.newClient()

	workoutLogID, err := c.Start(ctx, mondayA(1))
	require.NoError(s.T(), err)

	var limited *client.APIError
	for i := 0; i < writeRateLimitPerMin+5; i++ {
		_, err := c.SaveSet(ctx, workoutLogID, autosave.SetWrite{
			ExerciseID: testinternals.ExerciseSquat,
			SetNumber:  1,
			Values:     autosave.Values{RepsDone: strconv.Itoa(i)},
		})
		if err != nil {
			require.True(s.T(), errors.As(err, &limited), "unexpected error: %s", err)
			break
		}
	}

	require.NotNil(s.T(), limited, "writes were never limited")
	assert.Equal(s.T(), http.StatusTooManyRequests, limited.Status)
	assert.Contains(s.T(), string(limited.Details), "retryAfterSeconds")

	// reads are not limited
	_, err = c.Workout(ctx, workoutLogID)
	assert.NoError(s.T(), err)
}
