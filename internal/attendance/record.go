package attendance

import (
	"context"
	"fmt"
	"time"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/model"
)

// DeleteRecordInput is the deleteAttendanceRecordById request.
type DeleteRecordInput struct {
	AttendanceRecordID string `json:"attendanceRecordId" validate:"required"`
}

// CreateRecordInput is a check-in. Status and Timestamp are optional: the timestamp
// defaults to now and a missing status is derived from the lecture's start time.
type CreateRecordInput struct {
	StudentID string    `json:"studentId" validate:"required,max=8"`
	LectureID string    `json:"lectureId" validate:"required"`
	Status    string    `json:"status,omitempty" validate:"omitempty,oneof=present late absent"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// CreateModuleInput is the createModule request.
type CreateModuleInput struct {
	ModuleID   string `json:"moduleId" validate:"required"`
	ModuleName string `json:"moduleName" validate:"required"`
}

// GetAllAttendanceRecords returns every attendance record.
func (s *Service) GetAllAttendanceRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	return run(ctx, s, "getAllAttendanceRecords", func(ctx context.Context) ([]model.AttendanceRecord, error) {
		return s.store.Records().FindAll(ctx)
	})
}

// GetAllAttendanceRecordsWithExtraInfo returns every record with the student's full
// name and the module name joined on.
func (s *Service) GetAllAttendanceRecordsWithExtraInfo(ctx context.Context) ([]model.RecordWithInfo, error) {
	return run(ctx, s, "getAllAttendanceRecordsWithExtraInfo", func(ctx context.Context) ([]model.RecordWithInfo, error) {
		records, err := s.store.Records().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		students, err := s.store.Students().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		lectures, err := s.store.Lectures().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		modules, err := s.store.Modules().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return model.JoinRecords(records, students, lectures, modules), nil
	})
}

// DeleteAttendanceRecordByID removes a record and returns the deleted row.
func (s *Service) DeleteAttendanceRecordByID(ctx context.Context, in DeleteRecordInput) (model.AttendanceRecord, error) {
	return run(ctx, s, "deleteAttendanceRecordById", func(ctx context.Context) (model.AttendanceRecord, error) {
		if err := s.check("deleteAttendanceRecordById", in); err != nil {
			return model.AttendanceRecord{}, err
		}
		return s.store.Records().DeleteByID(ctx, in.AttendanceRecordID)
	})
}

// CreateAttendanceRecord stores a check-in under a fresh id.
func (s *Service) CreateAttendanceRecord(ctx context.Context, in CreateRecordInput) (model.AttendanceRecord, error) {
	return run(ctx, s, "createAttendanceRecord", func(ctx context.Context) (model.AttendanceRecord, error) {
		if err := s.check("createAttendanceRecord", in); err != nil {
			return model.AttendanceRecord{}, err
		}
		at := in.Timestamp.UTC()
		if in.Timestamp.IsZero() {
			at = s.now()
		}

		status := model.Status(in.Status)
		if status == "" {
			lecture, ok, err := s.store.Lectures().FindByID(ctx, in.LectureID)
			if err != nil {
				return model.AttendanceRecord{}, err
			}
			if !ok {
				return model.AttendanceRecord{}, apperrors.Dependency("createAttendanceRecord",
					fmt.Sprintf("lecture %q does not exist", in.LectureID), nil)
			}
			status = StatusFor(lecture, at, s.lateGrace)
		}

		return s.store.Records().Create(ctx, model.AttendanceRecord{
			AttendanceRecordID: s.newID(),
			StudentID:          in.StudentID,
			LectureID:          in.LectureID,
			Status:             status,
			Timestamp:          at,
		})
	})
}

// ValidateCheckIn checks a check-in without storing it, so it can be queued.
func (s *Service) ValidateCheckIn(in CreateRecordInput) error {
	return s.check("createAttendanceRecord", in)
}

// StatusFor derives the status of a check-in at time at: present up to the lecture
// start plus grace, late afterwards.
func StatusFor(lecture model.Lecture, at time.Time, grace time.Duration) model.Status {
	if at.After(lecture.StartTime.Add(grace)) {
		return model.StatusLate
	}
	return model.StatusPresent
}

// GetAllModules returns every module.
func (s *Service) GetAllModules(ctx context.Context) ([]model.Module, error) {
	return run(ctx, s, "getAllModules", func(ctx context.Context) ([]model.Module, error) {
		return s.store.Modules().FindAll(ctx)
	})
}

// CreateModule inserts a module.
func (s *Service) CreateModule(ctx context.Context, in CreateModuleInput) (model.Module, error) {
	return run(ctx, s, "createModule", func(ctx context.Context) (model.Module, error) {
		if err := s.check("createModule", in); err != nil {
			return model.Module{}, err
		}
		return s.store.Modules().Create(ctx, model.Module{ModuleID: in.ModuleID, ModuleName: in.ModuleName})
	})
}
