// Package worker turns queued check-ins into attendance records.
package worker

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/logger"
	"attendancedesk/internal/model"
	"attendancedesk/internal/queue"
)

// Recorder stores one check-in.
type Recorder interface {
	CreateAttendanceRecord(ctx context.Context, in attendance.CreateRecordInput) (model.AttendanceRecord, error)
}

// Worker consumes check-ins and records them as role.
type Worker struct {
	q    queue.Queue
	rec  Recorder
	role string
}

// New builds a worker that calls rec with a staff identity carrying role.
func New(q queue.Queue, rec Recorder, role string) *Worker {
	return &Worker{q: q, rec: rec, role: role}
}

// Run processes messages until ctx is done or the queue closes. Failed check-ins
// are logged and dropped.
func (w *Worker) Run(ctx context.Context) error {
	messages, err := w.q.Consume(ctx)
	if err != nil {
		return err
	}
	ctx = auth.WithClaims(ctx, auth.Claims{
		Role:             w.role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "worker"},
	})

	logger.Info().Msg("worker started, waiting for check-ins")
	for msg := range messages {
		w.Handle(ctx, msg)
	}
	logger.Info().Msg("worker stopped")
	return nil
}

// Handle processes a single message.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) {
	if msg.Type != queue.TypeCheckIn {
		logger.Debug().Str("type", msg.Type).Msg("skipping message")
		return
	}
	var in attendance.CreateRecordInput
	if err := msg.Decode(&in); err != nil {
		logger.Warn().Err(err).Msg("malformed check-in")
		return
	}
	rec, err := w.rec.CreateAttendanceRecord(ctx, in)
	if err != nil {
		logger.Warn().Err(err).
			Str("studentId", in.StudentID).
			Str("lectureId", in.LectureID).
			Msg("check-in failed")
		return
	}
	logger.Info().
		Str("attendanceRecordId", rec.AttendanceRecordID).
		Str("status", string(rec.Status)).
		Msg("check-in recorded")
}
