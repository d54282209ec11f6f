// Package warehouse owns the canonical Load, Shipment, and QuizReport
// collections. Every mutation goes through a named operation on the Engine;
// reads are pure functions of current state and return copies. Updates and
// deletes against a missing id are silent no-ops — callers rely on that
// tolerance and must not treat it as an error.
package warehouse

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wharfline/depot/internal/models"
	"github.com/wharfline/depot/internal/store"
)

// ErrValidation marks caller-input failures. When a returned error matches,
// no mutation occurred.
var ErrValidation = errors.New("validation failed")

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("warehouse: %s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Engine is the single source of truth for warehouse state. There is one
// logical writer; the mutex guards against concurrent readers observing a
// half-applied mutation. Each successful mutation persists the affected
// collection through the store before returning.
type Engine struct {
	mu    sync.Mutex
	store store.Store

	loads       []models.Load
	shipments   []models.Shipment
	quizReports []models.QuizReport

	subs []chan Event
	now  func() time.Time
}

// New builds an engine over st, loading any previously persisted
// collections. Missing keys yield empty collections.
func New(st store.Store) (*Engine, error) {
	e := &Engine{
		store: st,
		now:   time.Now,
	}
	if _, err := store.GetJSON(st, store.KeyLoads, &e.loads); err != nil {
		return nil, fmt.Errorf("warehouse: load loads: %w", err)
	}
	if _, err := store.GetJSON(st, store.KeyShipments, &e.shipments); err != nil {
		return nil, fmt.Errorf("warehouse: load shipments: %w", err)
	}
	if _, err := store.GetJSON(st, store.KeyQuizReports, &e.quizReports); err != nil {
		return nil, fmt.Errorf("warehouse: load quiz reports: %w", err)
	}
	return e, nil
}

// timestamp returns the current instant as a stored timestamp.
func (e *Engine) timestamp() *models.Time {
	return models.NewTime(e.now().UTC())
}

func (e *Engine) persistLoads() error {
	return store.PutJSON(e.store, store.KeyLoads, e.loads)
}

func (e *Engine) persistShipments() error {
	return store.PutJSON(e.store, store.KeyShipments, e.shipments)
}

func (e *Engine) persistQuizReports() error {
	return store.PutJSON(e.store, store.KeyQuizReports, e.quizReports)
}
