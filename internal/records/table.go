package records

import (
	"context"
	"errors"
	"sync"
	"time"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/attendance"
	"attendancedesk/internal/logger"
	"attendancedesk/internal/model"
)

// Source supplies the record list and performs deletes. Both the in-process
// service and the HTTP client satisfy it.
type Source interface {
	GetAllAttendanceRecordsWithExtraInfo(ctx context.Context) ([]model.RecordWithInfo, error)
	DeleteAttendanceRecordByID(ctx context.Context, in attendance.DeleteRecordInput) (model.AttendanceRecord, error)
}

// Table is the record list view. It keeps the last fetched snapshot and refetches
// after every delete settles.
type Table struct {
	src     Source
	tracker *Tracker
	loc     *time.Location

	mu      sync.RWMutex
	records []model.RecordWithInfo
}

// NewTable builds a table over src. Timestamps render in loc, UTC when nil.
// onChange observes tracker transitions.
func NewTable(src Source, loc *time.Location, onChange func(State)) *Table {
	return &Table{src: src, tracker: NewTracker(onChange), loc: loc}
}

// Tracker exposes the delete-progress tracker.
func (t *Table) Tracker() *Tracker { return t.tracker }

// Load replaces the snapshot with a fresh fetch.
func (t *Table) Load(ctx context.Context) error {
	recs, err := t.src.GetAllAttendanceRecordsWithExtraInfo(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.records = recs
	t.mu.Unlock()
	return nil
}

// Rows renders the snapshot in fetch order.
func (t *Table) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	state := t.tracker.State()
	out := make([]Row, 0, len(t.records))
	for _, rec := range t.records {
		deleting := state.Deleting && state.ID == rec.AttendanceRecordID
		out = append(out, NewRow(rec, deleting, t.loc))
	}
	return out
}

// Delete starts deleting id. The returned channel yields the delete result after
// the snapshot has been refetched and the tracker has settled.
func (t *Table) Delete(ctx context.Context, id string) <-chan error {
	return t.tracker.Start(ctx, id, func(ctx context.Context, id string) error {
		_, err := t.src.DeleteAttendanceRecordByID(ctx, attendance.DeleteRecordInput{AttendanceRecordID: id})
		if err != nil {
			logger.Warn().Err(err).Str("attendanceRecordId", id).Msg("delete attendance record failed")
		}
		if lerr := t.Load(ctx); lerr != nil {
			logger.Warn().Err(lerr).Msg("refetch attendance records failed")
		}
		return err
	})
}

// Edit is not available yet and never mutates anything.
func (t *Table) Edit(string) error { return ErrNotImplemented }

// Notice is the user-facing text for an action's error.
func Notice(err error) string {
	if errors.Is(err, ErrNotImplemented) {
		return EditNotice
	}
	return apperrors.Message(err)
}
