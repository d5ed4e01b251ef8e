// Package notify publishes handover outcomes to external consumers.
// Delivery is best effort: the import never fails because a consumer is down.
package notify

import (
	"context"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"

	"go.uber.org/zap"
)

// Bed transition kinds
const (
	TransitionAssigned    = "assigned"
	TransitionTransferred = "transferred"
	TransitionReleased    = "released"
	TransitionDisplaced   = "displaced"
)

// Event types
const (
	TypeImportCompleted = "import_completed"
	TypeBedTransition   = "bed_transition"
)

// BedTransition one change of bed occupancy
type BedTransition struct {
	Kind        string          `json:"kind"`
	PatientID   string          `json:"patient_id"`
	PatientName string          `json:"patient_name,omitempty"`
	RUT         string          `json:"rut,omitempty"`
	From        *domain.BedSlot `json:"from,omitempty"`
	To          *domain.BedSlot `json:"to,omitempty"`
	At          time.Time       `json:"at"`
}

// ImportCompleted summary of one reconciled handover batch
type ImportCompleted struct {
	ImportID    string          `json:"import_id"`
	Source      string          `json:"source,omitempty"`
	At          time.Time       `json:"at"`
	Success     int             `json:"success"`
	Failed      int             `json:"failed"`
	Skipped     int             `json:"skipped"`
	Errors      []string        `json:"errors"`
	Transitions []BedTransition `json:"transitions"`
}

// Notifier event sink
type Notifier interface {
	NotifyImport(ctx context.Context, ev ImportCompleted) error
	NotifyBed(ctx context.Context, tr BedTransition) error
}

// Nop discards every event
type Nop struct{}

func (Nop) NotifyImport(context.Context, ImportCompleted) error { return nil }
func (Nop) NotifyBed(context.Context, BedTransition) error      { return nil }

// Multi fans events out to several notifiers and logs failures instead of returning them
type Multi struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewMulti builds a fan-out notifier; nil entries are ignored
func NewMulti(logger *zap.Logger, notifiers ...Notifier) *Multi {
	m := &Multi{logger: logger}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Len number of attached notifiers
func (m *Multi) Len() int { return len(m.notifiers) }

func (m *Multi) NotifyImport(ctx context.Context, ev ImportCompleted) error {
	for _, n := range m.notifiers {
		if err := n.NotifyImport(ctx, ev); err != nil {
			m.logger.Warn("Failed to publish import event",
				zap.String("import_id", ev.ImportID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (m *Multi) NotifyBed(ctx context.Context, tr BedTransition) error {
	for _, n := range m.notifiers {
		if err := n.NotifyBed(ctx, tr); err != nil {
			m.logger.Warn("Failed to publish bed transition",
				zap.String("patient_id", tr.PatientID),
				zap.String("kind", tr.Kind),
				zap.Error(err),
			)
		}
	}
	return nil
}

var (
	_ Notifier = Nop{}
	_ Notifier = (*Multi)(nil)
)
