package exercises

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type ListParams struct {
	Search    string
	Group     string
	Equipment string
	Pattern   string
}

func (p ListParams) trimmed() ListParams {
	return ListParams{
		Search:    strings.TrimSpace(p.Search),
		Group:     strings.TrimSpace(p.Group),
		Equipment: strings.TrimSpace(p.Equipment),
		Pattern:   strings.TrimSpace(p.Pattern),
	}
}

type Repo struct {
	conn db.Conn
}

func NewRepo(conn db.Conn) *Repo {
	return &Repo{conn: conn}
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	params = params.trimmed()
	span.SetAttributes(
		attribute.String("params.search", params.Search),
		attribute.String("params.group", params.Group),
	)

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	q := gdb.WithContext(ctx).Model(&Exercise{})
	if params.Search != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(params.Search)+"%")
	}
	if params.Group != "" {
		q = q.Where("muscle_group = ?", params.Group)
	}
	if params.Equipment != "" {
		q = q.Where("equipment = ?", params.Equipment)
	}
	if params.Pattern != "" {
		q = q.Where("movement_pattern = ?", params.Pattern)
	}

	exercises := []Exercise{}
	if err := q.Order("name ASC").Order("id ASC").Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	return exercises, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		if errors.Is(err, ErrExerciseNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	var exercise Exercise
	if err := gdb.WithContext(ctx).First(&exercise, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("get exercise %d: %w", id, err)
	}

	return &exercise, nil
}

// Upsert creates the exercise or overwrites all of its fields.
func (r *Repo) Upsert(ctx context.Context, exercise Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}

	err = gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "muscle_group", "movement_pattern", "equipment",
				"primary_muscles", "secondary_muscles", "tempo_suggested",
				"variation_easier", "variation_harder", "checklist", "notes",
				"updated_at",
			}),
		}).
		Create(&exercise).Error
	if err != nil {
		return fmt.Errorf("upsert exercise %d: %w", exercise.ID, err)
	}
	return nil
}

// EnsureExists inserts a bare exercise row unless the id is already taken.
func (r *Repo) EnsureExists(ctx context.Context, exercise Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.ensure_exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}

	err = gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&exercise).Error
	if err != nil {
		return fmt.Errorf("ensure exercise %d: %w", exercise.ID, err)
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	gdb, err := r.conn.Get(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := gdb.WithContext(ctx).Model(&Exercise{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
