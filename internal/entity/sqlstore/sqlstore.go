// Package sqlstore implements entity.Store over database/sql for Postgres and SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/entity"
	"attendancedesk/internal/logger"
	"attendancedesk/internal/model"
)

// Dialect captures what differs between the supported databases.
type Dialect struct {
	Name          string
	Placeholder   sq.PlaceholderFormat
	TimestampType string
}

var (
	Postgres = Dialect{Name: "postgres", Placeholder: sq.Dollar, TimestampType: "TIMESTAMPTZ"}
	SQLite   = Dialect{Name: "sqlite", Placeholder: sq.Question, TimestampType: "DATETIME"}
)

// DialectFor maps a driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("sqlstore: unsupported driver %q", driver)
}

// Store is the SQL-backed entity.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType

	students *table[model.Student]
	modules  *table[model.Module]
	lectures *table[model.Lecture]
	records  *table[model.AttendanceRecord]
}

var _ entity.Store = (*Store)(nil)

// New builds a store over an open database.
func New(db *sql.DB, dialect Dialect) *Store {
	sb := sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder)
	s := &Store{db: db, dialect: dialect, sb: sb}

	s.students = &table[model.Student]{
		db: db, sb: sb, entity: "student", name: "students", key: "student_id",
		columns: []string{"student_id", "student_card_id", "first_name", "last_name"},
		values: func(st model.Student) []any {
			return []any{st.StudentID, st.StudentCardID, st.FirstName, st.LastName}
		},
		scan: func(row scanner) (model.Student, error) {
			var st model.Student
			err := row.Scan(&st.StudentID, &st.StudentCardID, &st.FirstName, &st.LastName)
			return st, err
		},
	}
	s.modules = &table[model.Module]{
		db: db, sb: sb, entity: "module", name: "modules", key: "module_id",
		columns: []string{"module_id", "module_name"},
		values:  func(m model.Module) []any { return []any{m.ModuleID, m.ModuleName} },
		scan: func(row scanner) (model.Module, error) {
			var m model.Module
			err := row.Scan(&m.ModuleID, &m.ModuleName)
			return m, err
		},
	}
	s.lectures = &table[model.Lecture]{
		db: db, sb: sb, entity: "lecture", name: "lectures", key: "lecture_id",
		columns: []string{"lecture_id", "start_time", "end_time", "module_id"},
		values: func(l model.Lecture) []any {
			return []any{l.LectureID, l.StartTime.UTC(), l.EndTime.UTC(), l.ModuleID}
		},
		scan: func(row scanner) (model.Lecture, error) {
			var l model.Lecture
			err := row.Scan(&l.LectureID, &l.StartTime, &l.EndTime, &l.ModuleID)
			l.StartTime, l.EndTime = l.StartTime.UTC(), l.EndTime.UTC()
			return l, err
		},
	}
	s.records = &table[model.AttendanceRecord]{
		db: db, sb: sb, entity: "attendance record", name: "attendance_records", key: "attendance_record_id",
		columns: []string{"attendance_record_id", "student_id", "lecture_id", "status", "taken_at"},
		values: func(r model.AttendanceRecord) []any {
			return []any{r.AttendanceRecordID, r.StudentID, r.LectureID, string(r.Status), r.Timestamp.UTC()}
		},
		scan: func(row scanner) (model.AttendanceRecord, error) {
			var (
				r      model.AttendanceRecord
				status string
			)
			err := row.Scan(&r.AttendanceRecordID, &r.StudentID, &r.LectureID, &status, &r.Timestamp)
			r.Status = model.Status(status)
			r.Timestamp = r.Timestamp.UTC()
			return r, err
		},
	}
	return s
}

func (s *Store) Students() entity.Table[model.Student, string]         { return s.students }
func (s *Store) Modules() entity.Table[model.Module, string]           { return s.modules }
func (s *Store) Lectures() entity.Table[model.Lecture, string]         { return s.lectures }
func (s *Store) Records() entity.Table[model.AttendanceRecord, string] { return s.records }

// FindStudentByCardID implements entity.Store.
func (s *Store) FindStudentByCardID(ctx context.Context, cardID string) (model.Student, bool, error) {
	query, args, err := s.sb.Select(s.students.columns...).
		From(s.students.name).
		Where(sq.Eq{"student_card_id": cardID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Student{}, false, fmt.Errorf("build find student by card query: %w", err)
	}
	st, err := s.students.scan(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, false, nil
	}
	if err != nil {
		return model.Student{}, false, translate("sqlstore.students.findByCard", "student", err)
	}
	return st, true, nil
}

// LecturesWithModules implements entity.Store.
func (s *Store) LecturesWithModules(ctx context.Context) ([]model.LectureWithModule, error) {
	query, args, err := s.sb.Select("l.lecture_id", "l.start_time", "l.end_time", "l.module_id", "m.module_name").
		From("lectures l").
		Join("modules m ON m.module_id = l.module_id").
		OrderBy("l.lecture_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lectures with modules query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("sqlstore.lectures.withModules", "lecture", err)
	}
	defer rows.Close()

	out := []model.LectureWithModule{}
	for rows.Next() {
		var lw model.LectureWithModule
		if err := rows.Scan(&lw.LectureID, &lw.StartTime, &lw.EndTime, &lw.ModuleID, &lw.Module.ModuleName); err != nil {
			return nil, translate("sqlstore.lectures.withModules", "lecture", err)
		}
		lw.StartTime, lw.EndTime = lw.StartTime.UTC(), lw.EndTime.UTC()
		out = append(out, lw)
	}
	return out, rows.Err()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ts := s.dialect.TimestampType
	statements := []string{
		`CREATE TABLE IF NOT EXISTS students (
			student_id      VARCHAR(8) PRIMARY KEY,
			student_card_id TEXT NOT NULL UNIQUE,
			first_name      TEXT NOT NULL,
			last_name       TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS modules (
			module_id   TEXT PRIMARY KEY,
			module_name TEXT NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS lectures (
			lecture_id TEXT PRIMARY KEY,
			start_time %s NOT NULL,
			end_time   %s NOT NULL,
			module_id  TEXT NOT NULL REFERENCES modules(module_id)
		)`, ts, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS attendance_records (
			attendance_record_id TEXT PRIMARY KEY,
			student_id           TEXT NOT NULL REFERENCES students(student_id),
			lecture_id           TEXT NOT NULL REFERENCES lectures(lecture_id),
			status               TEXT NOT NULL CHECK (status IN ('present', 'late', 'absent')),
			taken_at             %s NOT NULL
		)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_attendance_records_student ON attendance_records(student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_records_lecture ON attendance_records(lecture_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	logger.Info().Str("dialect", s.dialect.Name).Msg("schema ready")
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

type table[E any] struct {
	db      *sql.DB
	sb      sq.StatementBuilderType
	entity  string
	name    string
	key     string
	columns []string
	values  func(E) []any
	scan    func(scanner) (E, error)
}

func (t *table[E]) op(action string) string {
	return "sqlstore." + t.name + "." + action
}

func (t *table[E]) FindAll(ctx context.Context) ([]E, error) {
	query, args, err := t.sb.Select(t.columns...).From(t.name).OrderBy(t.key).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s select: %w", t.name, err)
	}
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(t.op("findAll"), t.entity, err)
	}
	defer rows.Close()

	out := []E{}
	for rows.Next() {
		row, err := t.scan(rows)
		if err != nil {
			return nil, translate(t.op("findAll"), t.entity, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (t *table[E]) FindByID(ctx context.Context, id string) (E, bool, error) {
	var zero E
	query, args, err := t.sb.Select(t.columns...).From(t.name).Where(sq.Eq{t.key: id}).Limit(1).ToSql()
	if err != nil {
		return zero, false, fmt.Errorf("build %s find: %w", t.name, err)
	}
	row, err := t.scan(t.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, translate(t.op("findById"), t.entity, err)
	}
	return row, true, nil
}

func (t *table[E]) Count(ctx context.Context) (int, error) {
	query, args, err := t.sb.Select("COUNT(*)").From(t.name).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s count: %w", t.name, err)
	}
	var n int
	if err := t.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, translate(t.op("count"), t.entity, err)
	}
	return n, nil
}

func (t *table[E]) Create(ctx context.Context, row E) (E, error) {
	var zero E
	query, args, err := t.sb.Insert(t.name).Columns(t.columns...).Values(t.values(row)...).ToSql()
	if err != nil {
		return zero, fmt.Errorf("build %s insert: %w", t.name, err)
	}
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		logger.Warn().Err(err).Str("table", t.name).Msg("insert failed")
		return zero, translate(t.op("create"), t.entity, err)
	}
	return row, nil
}

func (t *table[E]) DeleteByID(ctx context.Context, id string) (E, error) {
	var zero E
	query, args, err := t.sb.Delete(t.name).
		Where(sq.Eq{t.key: id}).
		Suffix("RETURNING " + strings.Join(t.columns, ", ")).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build %s delete: %w", t.name, err)
	}
	row, err := t.scan(t.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, apperrors.NotFound(t.op("delete"), t.entity, id)
	}
	if err != nil {
		return zero, translate(t.op("delete"), t.entity, err)
	}
	return row, nil
}
