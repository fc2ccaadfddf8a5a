// Package entity defines the typed accessors the record service reads and writes through.
//
// Implementations must keep single-row operations atomic and report failures with
// apperrors kinds: a duplicate primary or unique key on Create is a Conflict, a
// foreign key to a missing row is a Dependency, and DeleteByID of a missing id is a
// NotFound. Deleting a row that other rows still reference is a Dependency.
package entity

import (
	"context"

	"attendancedesk/internal/model"
)

// Table is the per-entity accessor set.
type Table[E any, K comparable] interface {
	FindAll(ctx context.Context) ([]E, error)
	FindByID(ctx context.Context, id K) (E, bool, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, row E) (E, error)
	DeleteByID(ctx context.Context, id K) (E, error)
}

// Store groups the tables and the joined reads.
type Store interface {
	Students() Table[model.Student, string]
	Modules() Table[model.Module, string]
	Lectures() Table[model.Lecture, string]
	Records() Table[model.AttendanceRecord, string]

	// FindStudentByCardID looks a student up by studentCardId.
	FindStudentByCardID(ctx context.Context, cardID string) (model.Student, bool, error)
	// LecturesWithModules attaches the module name to every lecture.
	LecturesWithModules(ctx context.Context) ([]model.LectureWithModule, error)
}
