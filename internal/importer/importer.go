// Package importer loads the exercise library and the training plan from
// the coach's spreadsheets.
package importer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	PlanID   = 1
	PlanName = "Treino paciente Victor Cebin (Semanas 5–8 → 1–4)"

	SheetLibrary  = "Biblioteca"
	SheetCalendar = "Calendário"
	SheetParams   = "Parâmetros"
	SheetPlan     = "Plano 8 Semanas"

	// spreadsheet weeks 5..8 become plan weeks 1..4
	firstSourceWeek = 5
	lastSourceWeek  = 8
)

// Result holds the table counts after an import.
type Result struct {
	LibraryFile   string
	PlanFile      string
	Exercises     int64
	WeekSettings  int64
	PlanExercises int64
}

func (r Result) String() string {
	return fmt.Sprintf(
		"import done | exercises: %d | week settings: %d | plan exercises: %d",
		r.Exercises, r.WeekSettings, r.PlanExercises,
	)
}

type Importer struct {
	conn    db.Conn
	dataDir string
}

func New(conn db.Conn, dataDir string) *Importer {
	return &Importer{
		conn:    conn,
		dataDir: dataDir,
	}
}

// Run imports both workbooks in a single transaction, nothing is written
// when any row fails.
func (i *Importer) Run(ctx context.Context) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "importer.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	libraryFile, err := FindWorkbook(i.dataDir, SheetLibrary)
	if err != nil {
		return nil, err
	}
	planFile, err := FindWorkbook(i.dataDir, SheetCalendar, SheetParams, SheetPlan)
	if err != nil {
		return nil, err
	}
	log.Infof("importer: library from %s, plan from %s", libraryFile, planFile)

	libraryRows, err := ReadSheet(libraryFile, SheetLibrary)
	if err != nil {
		return nil, err
	}
	calendarRows, err := ReadSheet(planFile, SheetCalendar)
	if err != nil {
		return nil, err
	}
	paramsRows, err := ReadSheet(planFile, SheetParams)
	if err != nil {
		return nil, err
	}
	planRows, err := ReadSheet(planFile, SheetPlan)
	if err != nil {
		return nil, err
	}

	gdb, err := i.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	err = gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conn := db.Static(tx)
		exerciseRepo := exercises.NewRepo(conn)
		planRepo := plan.NewRepo(conn)

		if err := planRepo.UpsertPlan(ctx, plan.Plan{ID: PlanID, Name: PlanName}); err != nil {
			return err
		}
		if err := importLibrary(ctx, exerciseRepo, libraryRows); err != nil {
			return err
		}
		if err := importWeeks(ctx, planRepo, calendarRows, paramsRows); err != nil {
			return err
		}
		return importPlanExercises(ctx, exerciseRepo, planRepo, planRows)
	})
	if err != nil {
		return nil, fmt.Errorf("import rolled back: %w", err)
	}

	exerciseCount, err := exercises.NewRepo(i.conn).Count(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := plan.NewRepo(i.conn).Counts(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		LibraryFile:   libraryFile,
		PlanFile:      planFile,
		Exercises:     exerciseCount,
		WeekSettings:  counts.WeekSettings,
		PlanExercises: counts.PlanExercises,
	}, nil
}

func importLibrary(ctx context.Context, repo *exercises.Repo, rows []Row) error {
	imported := 0
	for _, row := range rows {
		id := row.Int("ID")
		name := row.Text("Exercício")
		if id == nil || *id <= 0 || name == "" {
			continue
		}

		err := repo.Upsert(ctx, exercises.Exercise{
			ID:               *id,
			Name:             name,
			Group:            row.TextPtr("Grupo"),
			MovementPattern:  row.TextPtr("Padrão de movimento"),
			Equipment:        row.TextPtr("Equipamento"),
			PrimaryMuscles:   row.TextPtr("Músculos principais"),
			SecondaryMuscles: row.TextPtr("Músculos secundários/estabilizadores"),
			TempoSuggested:   row.TextPtr("Cadência sugerida"),
			VariationEasier:  row.TextPtr("Variação mais fácil"),
			VariationHarder:  row.TextPtr("Variação mais difícil"),
			Checklist:        row.TextPtr("Checklist técnico"),
			Notes:            row.TextPtr("Observações"),
		})
		if err != nil {
			return err
		}
		imported++
	}
	log.Debugf("importer: %d exercises from library", imported)
	return nil
}

func importWeeks(ctx context.Context, repo *plan.Repo, calendarRows, paramsRows []Row) error {
	paramsByWeek := map[int]Row{}
	for _, row := range paramsRows {
		if week := row.Int("Semana"); week != nil && *week > 0 {
			paramsByWeek[*week] = row
		}
	}

	for _, row := range calendarRows {
		weekNumber, ok := planWeek(row)
		if !ok {
			continue
		}

		ws := plan.WeekSettings{
			PlanID:     PlanID,
			WeekNumber: weekNumber,
			BlockFocus: row.TextPtr("Bloco/Foco"),
			Notes:      row.TextPtr("Observações"),
		}
		if p, ok := paramsByWeek[weekNumber+firstSourceWeek-1]; ok {
			ws.SetsDefault = p.Int("Séries")
			ws.RepsTargetText = p.TextPtr("Reps alvo")
			ws.RirTargetText = p.TextPtr("RIR alvo")
			ws.RestText = p.TextPtr("Descanso")
			ws.TempoText = p.TextPtr("Cadência")
			if ws.Notes == nil {
				ws.Notes = p.TextPtr("Notas")
			}
		}

		if err := repo.UpsertWeekSettings(ctx, ws); err != nil {
			return err
		}
	}
	return nil
}

func importPlanExercises(ctx context.Context, exerciseRepo *exercises.Repo, planRepo *plan.Repo, rows []Row) error {
	for n, row := range rows {
		weekNumber, ok := planWeek(row)
		if !ok {
			continue
		}
		// header is row 1
		line := n + 2

		day, ok := plan.ParseDay(row.Text("Dia"))
		if !ok {
			return fmt.Errorf("%s line %d: invalid day %q", SheetPlan, line, row.Text("Dia"))
		}
		sessionCode, ok := plan.ParseSessionCode(row.Text("Sessão"))
		if !ok {
			return fmt.Errorf("%s line %d: invalid session %q", SheetPlan, line, row.Text("Sessão"))
		}
		exerciseID := row.Int("ID Biblioteca")
		if exerciseID == nil || *exerciseID <= 0 {
			continue
		}

		// rows may point at exercises missing from the library
		name := row.Text("Exercício")
		if name == "" {
			name = "Exercício " + strconv.Itoa(*exerciseID)
		}
		err := exerciseRepo.EnsureExists(ctx, exercises.Exercise{
			ID:    *exerciseID,
			Name:  name,
			Group: row.TextPtr("Grupo"),
		})
		if err != nil {
			return err
		}

		err = planRepo.UpsertPlanExercise(ctx, plan.PlanExercise{
			PlanID:        PlanID,
			WeekNumber:    weekNumber,
			Day:           day,
			SessionCode:   sessionCode,
			ExerciseID:    *exerciseID,
			SessionNumber: row.Int("Nº Sessão"),
			Sets:          row.Int("Séries"),
			RepsTarget:    row.TextPtr("Reps alvo"),
			RirTarget:     row.TextPtr("RIR alvo"),
			Rest:          row.TextPtr("Descanso"),
			Tempo:         row.TextPtr("Cadência"),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func planWeek(row Row) (int, bool) {
	week := row.Int("Semana")
	if week == nil || *week < firstSourceWeek || *week > lastSourceWeek {
		return 0, false
	}
	return *week - firstSourceWeek + 1, true
}
