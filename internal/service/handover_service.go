package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/astro-cL99/pediatria-sub001/internal/domain"
	"github.com/astro-cL99/pediatria-sub001/internal/handover"
	"github.com/astro-cL99/pediatria-sub001/internal/lock"
	"github.com/astro-cL99/pediatria-sub001/internal/metrics"
	"github.com/astro-cL99/pediatria-sub001/internal/notify"
	"github.com/astro-cL99/pediatria-sub001/internal/repository"
	"github.com/astro-cL99/pediatria-sub001/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const reportKeyPrefix = "handover:import:"

// HandoverOptions reconciler tuning
type HandoverOptions struct {
	Workers        int           // worker pool size, default 4
	Timeout        time.Duration // deadline for a whole batch, 0 = none
	HeaderScanRows int
	ReportTTL      time.Duration
}

// HandoverService imports bed handover sheets into the patient/admission/bed graph
type HandoverService struct {
	tx       repository.Transactor
	locker   lock.Locker
	kv       store.KV
	notifier notify.Notifier
	opts     HandoverOptions
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandoverService creates the reconciler. kv and notifier may be nil.
func NewHandoverService(tx repository.Transactor, locker lock.Locker, kv store.KV, notifier notify.Notifier, opts HandoverOptions, logger *zap.Logger) *HandoverService {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.ReportTTL <= 0 {
		opts.ReportTTL = 24 * time.Hour
	}
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &HandoverService{
		tx:       tx,
		locker:   locker,
		kv:       kv,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// ReconcileResult outcome of a batch: one error string per failed record, "<name>: <reason>"
type ReconcileResult struct {
	Success int      `json:"success"`
	Errors  []string `json:"errors"`
}

// ImportReport everything known about one workbook import; cached for ReportTTL
type ImportReport struct {
	ImportID      string                    `json:"import_id"`
	FileName      string                    `json:"file_name,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	HeaderRow     int                       `json:"header_row"`
	TotalDataRows int                       `json:"total_data_rows"`
	Skipped       []handover.SkipDiagnostic `json:"skipped"`
	Warnings      []handover.Warning        `json:"warnings"`
	Result        ReconcileResult           `json:"result"`
	Transitions   []notify.BedTransition    `json:"transitions"`
}

// ImportRequest workbook import input
type ImportRequest struct {
	FileName string
	Sheet    string // empty: first sheet
}

// recordOutcome result of one worker
type recordOutcome struct {
	err         error
	transitions []notify.BedTransition
}

// Reconcile applies records to the store. Records are processed concurrently by a
// bounded worker pool; a failing record never aborts the others.
func (s *HandoverService) Reconcile(ctx context.Context, records []domain.HandoverRecord) ReconcileResult {
	res, _ := s.reconcile(ctx, records, 0)
	return res
}

func (s *HandoverService) reconcile(ctx context.Context, records []domain.HandoverRecord, skipped int) (ReconcileResult, []notify.BedTransition) {
	start := time.Now()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	outcomes := make([]recordOutcome, len(records))
	conflicts := batchConflicts(records)
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i := range records {
		if conflicts[i] != nil {
			outcomes[i] = recordOutcome{err: conflicts[i]}
			continue
		}
		g.Go(func() error {
			rec := records[i]
			outcomes[i] = s.reconcileRecord(ctx, &rec)
			// never fail the group: one record must not cancel the rest
			return nil
		})
	}
	_ = g.Wait()

	res := ReconcileResult{Errors: []string{}}
	transitions := []notify.BedTransition{}
	for i, o := range outcomes {
		if o.err != nil {
			rec := &records[i]
			res.Errors = append(res.Errors, (&ReconciliationError{PatientName: rec.Name, Err: o.err}).Error())
			s.logger.Warn("Failed to reconcile handover record",
				zap.String("patient_name", rec.Name),
				zap.String("rut", rec.RUT),
				zap.String("room", rec.Room),
				zap.Int("bed", rec.Bed),
				zap.Error(o.err),
			)
			continue
		}
		res.Success++
		transitions = append(transitions, o.transitions...)
	}

	duration := time.Since(start)
	metrics.RecordImport(res.Success, len(res.Errors), skipped, duration)
	s.logger.Info("Handover batch reconciled",
		zap.Int("success", res.Success),
		zap.Int("failed", len(res.Errors)),
		zap.Int("skipped", skipped),
		zap.Duration("duration", duration),
	)
	return res, transitions
}

// batchConflicts rejects, in sheet order, every row naming a bed or a RUT that an earlier
// row of the batch already named. The first row wins, so re-running a sheet is stable.
func batchConflicts(records []domain.HandoverRecord) []error {
	errs := make([]error, len(records))
	beds := make(map[string]int, len(records))
	ruts := make(map[string]int, len(records))
	for i := range records {
		rec := &records[i]
		rut := domain.NormalizeRUT(rec.RUT)
		slot := domain.BedSlot{Room: strings.ToUpper(strings.TrimSpace(rec.Room)), Bed: rec.Bed}
		if rut == "" || slot.Room == "" || slot.Bed < 1 {
			// rejected on its own by reconcileRecord
			continue
		}
		if j, ok := beds[slot.Key()]; ok {
			errs[i] = fmt.Errorf("bed %s %w by %s", slot.Key(), ErrDuplicateInBatch, rowLabel(records, j))
			continue
		}
		if j, ok := ruts[rut]; ok {
			errs[i] = fmt.Errorf("rut %s %w by %s", rut, ErrDuplicateInBatch, rowLabel(records, j))
			continue
		}
		beds[slot.Key()] = i
		ruts[rut] = i
	}
	return errs
}

func rowLabel(records []domain.HandoverRecord, i int) string {
	if records[i].Row > 0 {
		return fmt.Sprintf("row %d", records[i].Row)
	}
	return fmt.Sprintf("record %d", i+1)
}

// reconcileRecord resolves the patient, the active admission and the bed of one record,
// under the patient and bed locks, in a single transaction
func (s *HandoverService) reconcileRecord(ctx context.Context, rec *domain.HandoverRecord) recordOutcome {
	if err := ctx.Err(); err != nil {
		return recordOutcome{err: err}
	}
	if strings.TrimSpace(rec.RUT) == "" {
		return recordOutcome{err: fmt.Errorf("%w: missing rut", ErrInvalidRequest)}
	}
	rec.RUT = domain.NormalizeRUT(rec.RUT)
	slot := rec.Slot()
	if slot.Room == "" || slot.Bed < 1 {
		return recordOutcome{err: fmt.Errorf("%w: invalid bed %q", ErrInvalidRequest, slot.Key())}
	}

	unlock, err := s.locker.Lock(ctx, lock.PatientKey(rec.RUT), lock.BedKey(slot.Key()))
	if err != nil {
		return recordOutcome{err: err}
	}
	defer unlock()

	now := s.now()
	var transitions []notify.BedTransition
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st repository.Stores) error {
		patient, err := s.resolvePatient(ctx, st, rec)
		if err != nil {
			return err
		}
		admissionID, err := s.resolveAdmission(ctx, st, patient.PatientID, rec, now)
		if err != nil {
			return err
		}
		_, transitions, err = placeInBed(ctx, st, placement{
			Patient:     patient,
			AdmissionID: admissionID,
			Slot:        slot,
			At:          now,
			Displace:    true,
		})
		return err
	})
	if err != nil {
		return recordOutcome{err: err}
	}
	return recordOutcome{transitions: transitions}
}

func (s *HandoverService) resolvePatient(ctx context.Context, st repository.Stores, rec *domain.HandoverRecord) (*domain.Patient, error) {
	patient, err := st.Patients.GetPatientByRUT(ctx, rec.RUT)
	if errors.Is(err, repository.ErrNotFound) {
		dob := rec.BirthDate
		admitted := rec.AdmissionDate
		patient = &domain.Patient{
			RUT:           rec.RUT,
			Name:          rec.Name,
			DateOfBirth:   &dob,
			Status:        string(domain.AdmissionActive),
			AdmissionDate: &admitted,
		}
		id, err := st.Patients.CreatePatient(ctx, patient)
		if err != nil {
			return nil, fmt.Errorf("failed to create patient: %w", err)
		}
		patient.PatientID = id
		return patient, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	// a placeholder birth date never overwrites a stored one
	var dob *time.Time
	if rec.HasKnownBirthDate() && (patient.DateOfBirth == nil || !patient.DateOfBirth.Equal(rec.BirthDate)) {
		d := rec.BirthDate
		dob = &d
	}
	if patient.Name != rec.Name || dob != nil {
		if err := st.Patients.UpdatePatientDemographics(ctx, patient.PatientID, rec.Name, dob); err != nil {
			return nil, fmt.Errorf("failed to update patient: %w", err)
		}
		patient.Name = rec.Name
		if dob != nil {
			patient.DateOfBirth = dob
		}
	}
	return patient, nil
}

func (s *HandoverService) resolveAdmission(ctx context.Context, st repository.Stores, patientID string, rec *domain.HandoverRecord, now time.Time) (string, error) {
	adm, err := st.Admissions.GetActiveAdmission(ctx, patientID)
	if errors.Is(err, repository.ErrNotFound) {
		adm = domain.NewAdmissionFromRecord(patientID, rec, now)
		id, err := st.Admissions.CreateAdmission(ctx, adm)
		if err != nil {
			return "", fmt.Errorf("failed to create admission: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get admission: %w", err)
	}

	adm.ApplyClinicalContext(rec, now)
	if err := st.Admissions.UpdateAdmissionClinicalContext(ctx, adm); err != nil {
		return "", fmt.Errorf("failed to update admission: %w", err)
	}
	return adm.AdmissionID, nil
}

// Preview parses a workbook without touching the store
func (s *HandoverService) Preview(ctx context.Context, r io.Reader, sheet string) (*handover.ParseResult, error) {
	rows, err := handover.ReadWorkbook(r, sheet)
	if err != nil {
		return nil, err
	}
	return handover.Parse(rows, handover.ParseOptions{
		HeaderScanRows: s.opts.HeaderScanRows,
		Reference:      s.now(),
	})
}

// ImportWorkbook parses, reconciles, caches the report and publishes an ImportCompleted event.
// Only a structural parse failure fails the import.
func (s *HandoverService) ImportWorkbook(ctx context.Context, r io.Reader, req ImportRequest) (*ImportReport, error) {
	parsed, err := s.Preview(ctx, r, req.Sheet)
	if err != nil {
		s.logger.Error("Failed to parse handover workbook",
			zap.String("file_name", req.FileName),
			zap.Error(err),
		)
		return nil, err
	}
	for _, w := range parsed.Warnings {
		s.logger.Warn("Handover row warning",
			zap.Int("row", w.Row),
			zap.String("field", w.Field),
			zap.String("reason", w.Reason),
		)
	}
	for _, sk := range parsed.Skipped {
		s.logger.Info("Handover row skipped",
			zap.Int("row", sk.Row),
			zap.String("reason", sk.Reason),
		)
	}

	result, transitions := s.reconcile(ctx, parsed.Records, len(parsed.Skipped))

	report := &ImportReport{
		ImportID:      uuid.New().String(),
		FileName:      req.FileName,
		CreatedAt:     s.now().UTC(),
		HeaderRow:     parsed.HeaderRow,
		TotalDataRows: parsed.TotalDataRows,
		Skipped:       parsed.Skipped,
		Warnings:      parsed.Warnings,
		Result:        result,
		Transitions:   transitions,
	}

	if err := store.SetJSON(ctx, s.kv, reportKeyPrefix+report.ImportID, report, s.opts.ReportTTL); err != nil {
		s.logger.Warn("Failed to cache import report", zap.String("import_id", report.ImportID), zap.Error(err))
	}

	_ = s.notifier.NotifyImport(ctx, notify.ImportCompleted{
		ImportID:    report.ImportID,
		Source:      req.FileName,
		At:          report.CreatedAt,
		Success:     result.Success,
		Failed:      len(result.Errors),
		Skipped:     len(parsed.Skipped),
		Errors:      result.Errors,
		Transitions: transitions,
	})

	return report, nil
}

// GetReport returns a cached import report
func (s *HandoverService) GetReport(ctx context.Context, importID string) (*ImportReport, error) {
	var report ImportReport
	if err := store.GetJSON(ctx, s.kv, reportKeyPrefix+importID, &report); err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get import report: %w", err)
	}
	return &report, nil
}

// ListReports ids of the cached import reports
func (s *HandoverService) ListReports(ctx context.Context) ([]string, error) {
	keys, err := s.kv.ScanKeys(ctx, reportKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list import reports: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, reportKeyPrefix))
	}
	return ids, nil
}
