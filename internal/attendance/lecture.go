package attendance

import (
	"context"
	"errors"
	"time"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/logger"
	"attendancedesk/internal/model"
)

// ErrCreateLecture replaces every store error raised while creating a lecture.
var ErrCreateLecture = errors.New("failed to create lecture")

// CreateLectureInput is the createNewLecture request.
type CreateLectureInput struct {
	LectureID string    `json:"lectureId" validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required,gtefield=StartTime"`
	ModuleID  string    `json:"moduleId" validate:"required"`
}

// DeleteLectureInput is the deleteLectureRecordById request.
type DeleteLectureInput struct {
	LectureID string `json:"lectureId" validate:"required"`
}

// CreateNewLecture inserts a lecture. Store failures are logged and reported as a
// generic internal error; the cause is not returned to the caller.
func (s *Service) CreateNewLecture(ctx context.Context, in CreateLectureInput) (model.Lecture, error) {
	return run(ctx, s, "createNewLecture", func(ctx context.Context) (model.Lecture, error) {
		if err := s.check("createNewLecture", in); err != nil {
			return model.Lecture{}, err
		}
		lecture, err := s.store.Lectures().Create(ctx, model.Lecture{
			LectureID: in.LectureID,
			StartTime: in.StartTime.UTC(),
			EndTime:   in.EndTime.UTC(),
			ModuleID:  in.ModuleID,
		})
		if err != nil {
			logger.Error().Err(err).
				Str("lectureId", in.LectureID).
				Str("moduleId", in.ModuleID).
				Msg("error creating lecture")
			return model.Lecture{}, &apperrors.Error{
				Kind:    apperrors.KindInternal,
				Op:      "createNewLecture",
				Message: ErrCreateLecture.Error(),
				Err:     ErrCreateLecture,
			}
		}
		return lecture, nil
	})
}

// GetAllLectures returns every lecture.
func (s *Service) GetAllLectures(ctx context.Context) ([]model.Lecture, error) {
	return run(ctx, s, "getAllLectures", func(ctx context.Context) ([]model.Lecture, error) {
		return s.store.Lectures().FindAll(ctx)
	})
}

// GetAllLecturesWithModuleNames returns every lecture with its module name attached.
func (s *Service) GetAllLecturesWithModuleNames(ctx context.Context) ([]model.LectureWithModule, error) {
	return run(ctx, s, "getAllLecturesWithModuleNames", func(ctx context.Context) ([]model.LectureWithModule, error) {
		return s.store.LecturesWithModules(ctx)
	})
}

// GetLectureCount returns the number of lectures.
func (s *Service) GetLectureCount(ctx context.Context) (int, error) {
	return run(ctx, s, "getLectureCount", func(ctx context.Context) (int, error) {
		return s.store.Lectures().Count(ctx)
	})
}

// GetAllLectureIDs returns the lectureId of every lecture.
func (s *Service) GetAllLectureIDs(ctx context.Context) ([]model.LectureIDRow, error) {
	return run(ctx, s, "getAllLectureIds", func(ctx context.Context) ([]model.LectureIDRow, error) {
		lectures, err := s.store.Lectures().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]model.LectureIDRow, 0, len(lectures))
		for _, l := range lectures {
			out = append(out, model.LectureIDRow{LectureID: l.LectureID})
		}
		return out, nil
	})
}

// GetLectureIDsWithModuleNames returns lectureId and module name pairs.
func (s *Service) GetLectureIDsWithModuleNames(ctx context.Context) ([]model.LectureIDWithModule, error) {
	return run(ctx, s, "getLectureIdsWithModuleNames", func(ctx context.Context) ([]model.LectureIDWithModule, error) {
		joined, err := s.store.LecturesWithModules(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]model.LectureIDWithModule, 0, len(joined))
		for _, lw := range joined {
			out = append(out, model.LectureIDWithModule{LectureID: lw.LectureID, Module: lw.Module})
		}
		return out, nil
	})
}

// DeleteLectureRecordByID removes a lecture and returns the deleted row.
func (s *Service) DeleteLectureRecordByID(ctx context.Context, in DeleteLectureInput) (model.Lecture, error) {
	return run(ctx, s, "deleteLectureRecordById", func(ctx context.Context) (model.Lecture, error) {
		if err := s.check("deleteLectureRecordById", in); err != nil {
			return model.Lecture{}, err
		}
		return s.store.Lectures().DeleteByID(ctx, in.LectureID)
	})
}
