package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/model"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	s := New()
	require.NoError(t, s.Seed(context.Background(), Fixtures{
		Students: []model.Student{
			{StudentID: "S2", StudentCardID: "card2", FirstName: "Bo", LastName: "Chan"},
			{StudentID: "S1", StudentCardID: "card1", FirstName: "Ann", LastName: "Lee"},
		},
		Modules:  []model.Module{{ModuleID: "M1", ModuleName: "CS101"}},
		Lectures: []model.Lecture{{LectureID: "L1", StartTime: start, EndTime: start.Add(time.Hour), ModuleID: "M1"}},
		Records: []model.AttendanceRecord{
			{AttendanceRecordID: "R1", StudentID: "S1", LectureID: "L1", Status: model.StatusPresent, Timestamp: start},
		},
	}))
	return s
}

func TestFindAllKeepsInsertionOrder(t *testing.T) {
	s := seeded(t)
	students, err := s.Students().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "S2", students[0].StudentID)
	assert.Equal(t, "S1", students[1].StudentID)
}

func TestCreateConstraints(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	_, err := s.Students().Create(ctx, model.Student{StudentID: "S1", StudentCardID: "other"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = s.Students().Create(ctx, model.Student{StudentID: "S3", StudentCardID: "card1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = s.Lectures().Create(ctx, model.Lecture{LectureID: "L2", ModuleID: "M9"})
	assert.ErrorIs(t, err, apperrors.ErrDependency)
	_, err = s.Records().Create(ctx, model.AttendanceRecord{AttendanceRecordID: "R2", StudentID: "S9", LectureID: "L1"})
	assert.ErrorIs(t, err, apperrors.ErrDependency)

	n, err := s.Students().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "failed creates leave no rows")
}

func TestDeleteRestrictsReferencedRows(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	_, err := s.Modules().DeleteByID(ctx, "M1")
	assert.ErrorIs(t, err, apperrors.ErrDependency)
	_, err = s.Lectures().DeleteByID(ctx, "L1")
	assert.ErrorIs(t, err, apperrors.ErrDependency)
	_, err = s.Students().DeleteByID(ctx, "S1")
	assert.ErrorIs(t, err, apperrors.ErrDependency)

	deleted, err := s.Records().DeleteByID(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "R1", deleted.AttendanceRecordID)
	_, err = s.Records().DeleteByID(ctx, "R1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.Lectures().DeleteByID(ctx, "L1")
	assert.NoError(t, err)
	_, err = s.Modules().DeleteByID(ctx, "M1")
	assert.NoError(t, err)
}

func TestLookups(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	st, ok, err := s.FindStudentByCardID(ctx, "card2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "S2", st.StudentID)

	_, ok, err = s.FindStudentByCardID(ctx, "S2")
	require.NoError(t, err)
	assert.False(t, ok)

	joined, err := s.LecturesWithModules(ctx)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "CS101", joined[0].Module.ModuleName)

	_, ok, err = s.Lectures().FindByID(ctx, "L1")
	require.NoError(t, err)
	assert.True(t, ok)
}
