// Package autosave keeps the set cells of one workout in sync with the
// server. Every edit is applied locally right away and saved after a quiet
// period, one debounce timer per (exercise, set) cell.
package autosave

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/mmtreino/internal/workouts"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultDelay   = 600 * time.Millisecond
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrLocked is returned for edits after the workout was completed.
	// Savers should make their "workout completed" error match it.
	ErrLocked = errors.New("workout completed, sets are locked")
	// ErrStale is returned by savers when the server kept a revision at
	// least as new as the write and ignored it.
	ErrStale  = errors.New("set write ignored, server holds a newer revision")
	ErrClosed = errors.New("autosave controller closed")
)

type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

type Key struct {
	ExerciseID int
	SetNumber  int
}

// Values are the cell inputs as typed, empty meaning unset.
type Values struct {
	WeightKg  string
	RepsDone  string
	RirActual string
	Notes     string
}

// Patch changes only the non-nil fields of a cell.
type Patch struct {
	WeightKg  *string
	RepsDone  *string
	RirActual *string
	Notes     *string
}

func (p Patch) apply(v Values) Values {
	if p.WeightKg != nil {
		v.WeightKg = *p.WeightKg
	}
	if p.RepsDone != nil {
		v.RepsDone = *p.RepsDone
	}
	if p.RirActual != nil {
		v.RirActual = *p.RirActual
	}
	if p.Notes != nil {
		v.Notes = *p.Notes
	}
	return v
}

// SetWrite is one save of a whole cell.
type SetWrite struct {
	ExerciseID int
	SetNumber  int
	Values
	Revision int64
}

type Saver interface {
	RecordSet(ctx context.Context, workoutLogID string, write SetWrite) error
}

type CellState struct {
	Values
	Status   Status
	SavedAt  time.Time
	Err      error
	Revision int64
}

type cell struct {
	values   Values
	touched  bool
	status   Status
	savedAt  time.Time
	err      error
	revision int64
	timer    *time.Timer
	// gen invalidates timers that fired while being replaced
	gen uint64
}

func (c *cell) state() CellState {
	return CellState{
		Values:   c.values,
		Status:   c.status,
		SavedAt:  c.savedAt,
		Err:      c.err,
		Revision: c.revision,
	}
}

type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithTimeout bounds a single save call.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithOnChange registers a callback for every status change. It is called
// without the controller lock held.
func WithOnChange(fn func(Key, CellState)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

type Controller struct {
	saver        Saver
	workoutLogID string
	delay        time.Duration
	timeout      time.Duration
	onChange     func(Key, CellState)

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	cells    map[Key]*cell
	inflight map[uint64]chan struct{}
	nextSave uint64
	locked   bool
	closed   bool
}

func New(saver Saver, workoutLogID string, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		saver:        saver,
		workoutLogID: workoutLogID,
		delay:        DefaultDelay,
		timeout:      DefaultTimeout,
		ctx:          ctx,
		cancel:       cancel,
		cells:        map[Key]*cell{},
		inflight:     map[uint64]chan struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) cellLocked(key Key) *cell {
	cl, ok := c.cells[key]
	if !ok {
		cl = &cell{status: StatusIdle}
		c.cells[key] = cl
	}
	return cl
}

// Edit applies the patch locally and (re)schedules the save of that cell.
func (c *Controller) Edit(key Key, patch Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.locked {
		return ErrLocked
	}

	cl := c.cellLocked(key)
	cl.values = patch.apply(cl.values)
	cl.touched = true
	if cl.timer != nil {
		cl.timer.Stop()
	}
	cl.gen++
	gen := cl.gen
	cl.timer = time.AfterFunc(c.delay, func() {
		c.fire(key, gen)
	})
	return nil
}

// SetExerciseNotes stores exercise level notes, kept on set 1.
func (c *Controller) SetExerciseNotes(exerciseID int, notes string) error {
	return c.Edit(Key{ExerciseID: exerciseID, SetNumber: 1}, Patch{Notes: &notes})
}

// Seed fills cells from stored set logs. Cells edited locally keep their
// values; revisions only move forward.
func (c *Controller) Seed(setLogs []workouts.SetLog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range setLogs {
		cl := c.cellLocked(Key{ExerciseID: s.ExerciseID, SetNumber: s.SetNumber})
		if s.Revision > cl.revision {
			cl.revision = s.Revision
		}
		if cl.touched {
			continue
		}
		cl.values = Values{
			WeightKg:  deref(s.WeightKg),
			RepsDone:  itoa(s.RepsDone),
			RirActual: itoa(s.RirActual),
			Notes:     deref(s.Notes),
		}
	}
}

// Lock drops pending saves and rejects any further edit.
func (c *Controller) Lock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lockLocked()
}

func (c *Controller) lockLocked() {
	c.locked = true
	for _, cl := range c.cells {
		c.stopTimerLocked(cl)
	}
}

func (c *Controller) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked
}

func (c *Controller) stopTimerLocked(cl *cell) bool {
	if cl.timer == nil {
		return false
	}
	cl.timer.Stop()
	cl.timer = nil
	cl.gen++
	return true
}

// Flush saves every pending cell now and waits until all saves in flight
// are done or ctx ends.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	var changed []Key
	if !c.closed && !c.locked {
		for key, cl := range c.cells {
			if c.stopTimerLocked(cl) {
				c.startSaveLocked(key, cl)
				changed = append(changed, key)
			}
		}
	}
	waitFor := c.inflightLocked()
	c.mu.Unlock()

	c.notify(changed...)
	return wait(ctx, waitFor)
}

// Close stops all timers, cancels saves in flight and waits for them.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	for _, cl := range c.cells {
		c.stopTimerLocked(cl)
	}
	waitFor := c.inflightLocked()
	c.mu.Unlock()

	c.cancel()
	_ = wait(context.Background(), waitFor)
}

func (c *Controller) State(key Key) CellState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cl, ok := c.cells[key]; ok {
		return cl.state()
	}
	return CellState{Status: StatusIdle}
}

func (c *Controller) States() map[Key]CellState {
	c.mu.Lock()
	defer c.mu.Unlock()
	states := make(map[Key]CellState, len(c.cells))
	for key, cl := range c.cells {
		states[key] = cl.state()
	}
	return states
}

func (c *Controller) fire(key Key, gen uint64) {
	c.mu.Lock()
	cl, ok := c.cells[key]
	if !ok || cl.gen != gen || c.closed || c.locked {
		c.mu.Unlock()
		return
	}
	cl.timer = nil
	c.startSaveLocked(key, cl)
	c.mu.Unlock()

	c.notify(key)
}

func (c *Controller) startSaveLocked(key Key, cl *cell) {
	cl.revision++
	cl.status = StatusSaving
	cl.err = nil
	write := SetWrite{
		ExerciseID: key.ExerciseID,
		SetNumber:  key.SetNumber,
		Values:     cl.values,
		Revision:   cl.revision,
	}

	c.nextSave++
	id := c.nextSave
	done := make(chan struct{})
	c.inflight[id] = done

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
		err := c.saver.RecordSet(ctx, c.workoutLogID, write)
		cancel()

		c.finishSave(id, key, write.Revision, err)
	}()
}

func (c *Controller) finishSave(id uint64, key Key, revision int64, err error) {
	c.mu.Lock()
	delete(c.inflight, id)

	if errors.Is(err, ErrLocked) && !c.locked {
		log.Debugf("autosave %s: workout completed elsewhere, locking", c.workoutLogID)
		c.lockLocked()
	}

	cl := c.cells[key]
	// a newer save of the same cell owns the status
	if cl == nil || cl.revision != revision || c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		log.Debugf("autosave %s [%d/%d rev %d]: %s", c.workoutLogID, key.ExerciseID, key.SetNumber, revision, err)
		cl.status = StatusError
		cl.err = err
	} else {
		cl.status = StatusSaved
		cl.savedAt = time.Now()
	}
	c.mu.Unlock()

	c.notify(key)
}

func (c *Controller) inflightLocked() []chan struct{} {
	chans := make([]chan struct{}, 0, len(c.inflight))
	for _, ch := range c.inflight {
		chans = append(chans, ch)
	}
	return chans
}

func (c *Controller) notify(keys ...Key) {
	if c.onChange == nil {
		return
	}
	for _, key := range keys {
		c.onChange(key, c.State(key))
	}
}

func wait(ctx context.Context, chans []chan struct{}) error {
	for _, ch := range chans {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
