package attendance

import (
	"context"

	"attendancedesk/internal/model"
)

// CreateStudentInput is the createStudent request.
type CreateStudentInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	StudentID     string `json:"studentId" validate:"required,max=8"`
	StudentCardID string `json:"studentCardId" validate:"required"`
}

// DeleteStudentInput is the deleteStudentById request. FirstName is accepted and ignored.
type DeleteStudentInput struct {
	StudentID string `json:"studentId" validate:"required"`
	FirstName string `json:"firstName,omitempty" validate:"omitempty,min=1"`
}

// CreateStudent validates and inserts a student.
func (s *Service) CreateStudent(ctx context.Context, in CreateStudentInput) (model.Student, error) {
	return run(ctx, s, "createStudent", func(ctx context.Context) (model.Student, error) {
		if err := s.check("createStudent", in); err != nil {
			return model.Student{}, err
		}
		return s.store.Students().Create(ctx, model.Student{
			StudentID:     in.StudentID,
			StudentCardID: in.StudentCardID,
			FirstName:     in.FirstName,
			LastName:      in.LastName,
		})
	})
}

// GetAllStudents returns every student.
func (s *Service) GetAllStudents(ctx context.Context) ([]model.Student, error) {
	return run(ctx, s, "getAllStudents", func(ctx context.Context) ([]model.Student, error) {
		return s.store.Students().FindAll(ctx)
	})
}

// GetStudentByID looks a student up by studentCardId. The id must be 1-8 characters.
// A nil student and nil error mean no student matches.
func (s *Service) GetStudentByID(ctx context.Context, id string) (*model.Student, error) {
	return run(ctx, s, "getStudentById", func(ctx context.Context) (*model.Student, error) {
		if err := s.checkVar("getStudentById", "id", id, "min=1,max=8"); err != nil {
			return nil, err
		}
		st, ok, err := s.store.FindStudentByCardID(ctx, id)
		if err != nil || !ok {
			return nil, err
		}
		return &st, nil
	})
}

// GetStudentCount returns the number of students.
func (s *Service) GetStudentCount(ctx context.Context) (int, error) {
	return run(ctx, s, "getStudentCount", func(ctx context.Context) (int, error) {
		return s.store.Students().Count(ctx)
	})
}

// GetAllStudentIDs returns the studentId of every student.
func (s *Service) GetAllStudentIDs(ctx context.Context) ([]model.StudentIDRow, error) {
	return run(ctx, s, "getAllStudentIds", func(ctx context.Context) ([]model.StudentIDRow, error) {
		students, err := s.store.Students().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]model.StudentIDRow, 0, len(students))
		for _, st := range students {
			out = append(out, model.StudentIDRow{StudentID: st.StudentID})
		}
		return out, nil
	})
}

// DeleteStudentByID removes a student and returns the deleted row.
func (s *Service) DeleteStudentByID(ctx context.Context, in DeleteStudentInput) (model.Student, error) {
	return run(ctx, s, "deleteStudentById", func(ctx context.Context) (model.Student, error) {
		if err := s.check("deleteStudentById", in); err != nil {
			return model.Student{}, err
		}
		return s.store.Students().DeleteByID(ctx, in.StudentID)
	})
}
