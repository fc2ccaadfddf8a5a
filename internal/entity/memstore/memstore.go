// Package memstore is an in-process entity.Store used by tests and STORE_DRIVER=memory.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/entity"
	"attendancedesk/internal/model"
)

// Store keeps every table behind one lock so foreign key checks see a consistent view.
type Store struct {
	mu       sync.RWMutex
	students *table[model.Student]
	modules  *table[model.Module]
	lectures *table[model.Lecture]
	records  *table[model.AttendanceRecord]
}

var _ entity.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	s := &Store{}
	s.students = newTable(s, "student", func(st model.Student) string { return st.StudentID })
	s.modules = newTable(s, "module", func(m model.Module) string { return m.ModuleID })
	s.lectures = newTable(s, "lecture", func(l model.Lecture) string { return l.LectureID })
	s.records = newTable(s, "attendance record", func(r model.AttendanceRecord) string { return r.AttendanceRecordID })

	s.students.beforeCreate = func(st model.Student) error {
		for _, other := range s.students.rows {
			if other.StudentCardID == st.StudentCardID {
				return apperrors.Conflict("memstore.students.create", "student card", nil)
			}
		}
		return nil
	}
	s.lectures.beforeCreate = func(l model.Lecture) error {
		if _, ok := s.modules.rows[l.ModuleID]; !ok {
			return apperrors.Dependency("memstore.lectures.create", fmt.Sprintf("module %q does not exist", l.ModuleID), nil)
		}
		return nil
	}
	s.records.beforeCreate = func(r model.AttendanceRecord) error {
		if _, ok := s.students.rows[r.StudentID]; !ok {
			return apperrors.Dependency("memstore.records.create", fmt.Sprintf("student %q does not exist", r.StudentID), nil)
		}
		if _, ok := s.lectures.rows[r.LectureID]; !ok {
			return apperrors.Dependency("memstore.records.create", fmt.Sprintf("lecture %q does not exist", r.LectureID), nil)
		}
		return nil
	}

	s.students.beforeDelete = func(st model.Student) error {
		for _, r := range s.records.rows {
			if r.StudentID == st.StudentID {
				return apperrors.Dependency("memstore.students.delete", "student has attendance records", nil)
			}
		}
		return nil
	}
	s.modules.beforeDelete = func(m model.Module) error {
		for _, l := range s.lectures.rows {
			if l.ModuleID == m.ModuleID {
				return apperrors.Dependency("memstore.modules.delete", "module has lectures", nil)
			}
		}
		return nil
	}
	s.lectures.beforeDelete = func(l model.Lecture) error {
		for _, r := range s.records.rows {
			if r.LectureID == l.LectureID {
				return apperrors.Dependency("memstore.lectures.delete", "lecture has attendance records", nil)
			}
		}
		return nil
	}
	return s
}

func (s *Store) Students() entity.Table[model.Student, string]         { return s.students }
func (s *Store) Modules() entity.Table[model.Module, string]           { return s.modules }
func (s *Store) Lectures() entity.Table[model.Lecture, string]         { return s.lectures }
func (s *Store) Records() entity.Table[model.AttendanceRecord, string] { return s.records }

// FindStudentByCardID implements entity.Store.
func (s *Store) FindStudentByCardID(_ context.Context, cardID string) (model.Student, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.students.order {
		if st := s.students.rows[id]; st.StudentCardID == cardID {
			return st, true, nil
		}
	}
	return model.Student{}, false, nil
}

// LecturesWithModules implements entity.Store.
func (s *Store) LecturesWithModules(_ context.Context) ([]model.LectureWithModule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LectureWithModule, 0, len(s.lectures.order))
	for _, id := range s.lectures.order {
		l := s.lectures.rows[id]
		out = append(out, model.LectureWithModule{
			Lecture: l,
			Module:  model.ModuleName{ModuleName: s.modules.rows[l.ModuleID].ModuleName},
		})
	}
	return out, nil
}

// Fixtures is a batch of rows for Seed.
type Fixtures struct {
	Students []model.Student
	Modules  []model.Module
	Lectures []model.Lecture
	Records  []model.AttendanceRecord
}

// Seed inserts fixtures in dependency order.
func (s *Store) Seed(ctx context.Context, f Fixtures) error {
	for _, st := range f.Students {
		if _, err := s.students.Create(ctx, st); err != nil {
			return err
		}
	}
	for _, m := range f.Modules {
		if _, err := s.modules.Create(ctx, m); err != nil {
			return err
		}
	}
	for _, l := range f.Lectures {
		if _, err := s.lectures.Create(ctx, l); err != nil {
			return err
		}
	}
	for _, r := range f.Records {
		if _, err := s.records.Create(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

type table[E any] struct {
	s     *Store
	name  string
	key   func(E) string
	rows  map[string]E
	order []string

	// hooks run with the store lock held
	beforeCreate func(E) error
	beforeDelete func(E) error
}

func newTable[E any](s *Store, name string, key func(E) string) *table[E] {
	return &table[E]{s: s, name: name, key: key, rows: make(map[string]E)}
}

func (t *table[E]) FindAll(_ context.Context) ([]E, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	out := make([]E, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out, nil
}

func (t *table[E]) FindByID(_ context.Context, id string) (E, bool, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok, nil
}

func (t *table[E]) Count(_ context.Context) (int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return len(t.rows), nil
}

func (t *table[E]) Create(_ context.Context, row E) (E, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var zero E
	id := t.key(row)
	if _, exists := t.rows[id]; exists {
		return zero, apperrors.Conflict("memstore.create", t.name, nil)
	}
	if t.beforeCreate != nil {
		if err := t.beforeCreate(row); err != nil {
			return zero, err
		}
	}
	t.rows[id] = row
	t.order = append(t.order, id)
	return row, nil
}

func (t *table[E]) DeleteByID(_ context.Context, id string) (E, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var zero E
	row, ok := t.rows[id]
	if !ok {
		return zero, apperrors.NotFound("memstore.delete", t.name, id)
	}
	if t.beforeDelete != nil {
		if err := t.beforeDelete(row); err != nil {
			return zero, err
		}
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return row, nil
}
