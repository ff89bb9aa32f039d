package stats

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"
	"github.com/2beens/mmtreino/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=stats_test

const (
	UngroupedLabel  = "Sem grupo"
	MaxWeightPoints = 5
)

var firstIntRegex = regexp.MustCompile(`(\d+)`)

type workoutsRepo interface {
	ListCompleted(ctx context.Context, userSessionID string) ([]workouts.WorkoutLog, error)
	SetLogsForWorkouts(ctx context.Context, workoutLogIDs []string) ([]workouts.SetLog, error)
}

type planRepo interface {
	ExercisesForWeeks(ctx context.Context, planIDs, weeks []int) ([]plan.PlanExercise, error)
}

type Stats struct {
	CompletedByWeek   []WeekCompleted   `json:"completedByWeek"`
	VolumeByWeekGroup []WeekGroupVolume `json:"volumeByWeekGroup"`
	WeightsByExercise []ExerciseWeights `json:"weightsByExercise"`
}

type WeekCompleted struct {
	WeekNumber int `json:"weekNumber"`
	Completed  int `json:"completed"`
}

// WeekGroupVolume is the sum of reps done for one muscle group in one week.
type WeekGroupVolume struct {
	WeekNumber int    `json:"weekNumber"`
	Group      string `json:"group"`
	Volume     int    `json:"volume"`
}

type ExerciseWeights struct {
	ExerciseID int           `json:"exerciseId"`
	Points     []WeightPoint `json:"points"`
}

type WeightPoint struct {
	WeightKg  string    `json:"weightKg"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Analyzer struct {
	workoutsRepo workoutsRepo
	planRepo     planRepo
}

func NewAnalyzer(workoutsRepo workoutsRepo, planRepo planRepo) *Analyzer {
	return &Analyzer{
		workoutsRepo: workoutsRepo,
		planRepo:     planRepo,
	}
}

// Compute aggregates the completed workouts of one visitor.
// Every call reads the store again, nothing is cached.
func (a *Analyzer) Compute(ctx context.Context, visitorID string) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.compute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	completed, err := a.workoutsRepo.ListCompleted(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workouts.completed", len(completed)))

	workoutByID := make(map[string]workouts.WorkoutLog, len(completed))
	workoutIDs := make([]string, 0, len(completed))
	planIDs := map[int]bool{}
	weeks := map[int]bool{}
	completedPerWeek := map[int]int{}
	for _, w := range completed {
		workoutByID[w.ID] = w
		workoutIDs = append(workoutIDs, w.ID)
		planIDs[w.PlanID] = true
		weeks[w.WeekNumber] = true
		completedPerWeek[w.WeekNumber]++
	}

	setLogs, err := a.workoutsRepo.SetLogsForWorkouts(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}

	planExercises, err := a.planRepo.ExercisesForWeeks(ctx, sortedKeys(planIDs), sortedKeys(weeks))
	if err != nil {
		return nil, err
	}
	scheduled := make(map[plan.ScheduleKey]plan.PlanExercise, len(planExercises))
	for _, pe := range planExercises {
		scheduled[pe.Key()] = pe
	}

	type weekGroup struct {
		week  int
		group string
	}
	volumes := map[weekGroup]int{}
	weights := map[int][]WeightPoint{}

	// set logs come most recently updated first
	for _, s := range setLogs {
		w, ok := workoutByID[s.WorkoutLogID]
		if !ok {
			continue
		}

		reps := 0
		if s.RepsDone != nil {
			reps = *s.RepsDone
		} else if pe, ok := scheduled[plan.ScheduleKey{
			PlanID:      w.PlanID,
			WeekNumber:  w.WeekNumber,
			Day:         w.Day,
			SessionCode: w.SessionCode,
			ExerciseID:  s.ExerciseID,
		}]; ok {
			reps = FirstInt(pe.RepsTarget)
		}
		volumes[weekGroup{week: w.WeekNumber, group: s.Exercise.GroupOr(UngroupedLabel)}] += reps

		if s.WeightKg == nil {
			continue
		}
		if points := weights[s.ExerciseID]; len(points) < MaxWeightPoints {
			weights[s.ExerciseID] = append(points, WeightPoint{
				WeightKg:  *s.WeightKg,
				UpdatedAt: s.UpdatedAt,
			})
		}
	}

	stats := &Stats{
		CompletedByWeek:   make([]WeekCompleted, 0, len(completedPerWeek)),
		VolumeByWeekGroup: make([]WeekGroupVolume, 0, len(volumes)),
		WeightsByExercise: make([]ExerciseWeights, 0, len(weights)),
	}
	for _, week := range sortedKeys(weeks) {
		stats.CompletedByWeek = append(stats.CompletedByWeek, WeekCompleted{
			WeekNumber: week,
			Completed:  completedPerWeek[week],
		})
	}
	for k, volume := range volumes {
		stats.VolumeByWeekGroup = append(stats.VolumeByWeekGroup, WeekGroupVolume{
			WeekNumber: k.week,
			Group:      k.group,
			Volume:     volume,
		})
	}
	sort.Slice(stats.VolumeByWeekGroup, func(i, j int) bool {
		x, y := stats.VolumeByWeekGroup[i], stats.VolumeByWeekGroup[j]
		if x.WeekNumber != y.WeekNumber {
			return x.WeekNumber < y.WeekNumber
		}
		return x.Group < y.Group
	})
	for _, exerciseID := range sortedKeys(weights) {
		stats.WeightsByExercise = append(stats.WeightsByExercise, ExerciseWeights{
			ExerciseID: exerciseID,
			Points:     weights[exerciseID],
		})
	}

	return stats, nil
}

// FirstInt returns the first run of digits in a target text like "8-10"
// or "6 a 8", or 0 when there is none.
func FirstInt(text *string) int {
	if text == nil {
		return 0
	}
	m := firstIntRegex.FindString(*text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
