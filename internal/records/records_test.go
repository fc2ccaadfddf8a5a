package records

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/entity/memstore"
	"attendancedesk/internal/model"
)

func setup(t *testing.T) (*attendance.Service, context.Context) {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	err := store.Seed(ctx, memstore.Fixtures{
		Students: []model.Student{{StudentID: "S1", StudentCardID: "card1", FirstName: "Ann", LastName: "Lee"}},
		Modules:  []model.Module{{ModuleID: "M1", ModuleName: "CS101"}},
		Lectures: []model.Lecture{{
			LectureID: "L1",
			StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
			ModuleID:  "M1",
		}},
		Records: []model.AttendanceRecord{
			{AttendanceRecordID: "R1", StudentID: "S1", LectureID: "L1", Status: model.StatusLate, Timestamp: time.Date(2024, 1, 10, 9, 5, 0, 0, time.UTC)},
			{AttendanceRecordID: "R2", StudentID: "S1", LectureID: "L1", Status: model.StatusPresent, Timestamp: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		},
	})
	require.NoError(t, err)

	svc := attendance.NewService(store, auth.NewRoleGate("staff"), attendance.Options{})
	claims := auth.Claims{Role: "staff", RegisteredClaims: jwt.RegisteredClaims{Subject: "tester"}}
	return svc, auth.WithClaims(ctx, claims)
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status model.Status
		want   Badge
	}{
		{model.StatusPresent, Badge{Text: "PRESENT", Tone: ToneAffirmative, Color: "green", Icon: "check-check", Size: "sm"}},
		{model.StatusLate, Badge{Text: "LATE", Tone: ToneCautionary, Color: "amber", Icon: "check", Size: "sm"}},
		{model.StatusAbsent, Badge{Text: "ABSENT", Tone: ToneNegative, Color: "red", Icon: "x", Size: "sm"}},
		{model.Status("Late"), Badge{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusBadge(tt.status))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 10, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "10-Jan-2024 09:05:00", FormatTimestamp(ts, nil))

	plus2 := time.FixedZone("plus2", 2*60*60)
	assert.Equal(t, "10-Jan-2024 11:05:00", FormatTimestamp(ts, plus2))
}

func TestNewRowDeleteAffordance(t *testing.T) {
	rec := model.RecordWithInfo{AttendanceRecord: model.AttendanceRecord{AttendanceRecordID: "R1", Status: model.StatusAbsent}}

	idle := NewRow(rec, false, nil)
	busy := NewRow(rec, true, nil)
	require.Len(t, idle.Actions, 3)
	assert.Equal(t, "trash-2", idle.Actions[2].Icon)
	assert.Equal(t, "loader-2", busy.Actions[2].Icon)
	assert.Equal(t, "#", idle.Actions[0].Href)
	assert.True(t, idle.Actions[2].Destructive)
}

func TestTrackerSettlesToIdle(t *testing.T) {
	for _, callErr := range []error{nil, errors.New("boom")} {
		var (
			mu   sync.Mutex
			seen []State
		)
		tr := NewTracker(func(s State) {
			mu.Lock()
			seen = append(seen, s)
			mu.Unlock()
		})
		release := make(chan struct{})
		done := tr.Start(context.Background(), "A", func(context.Context, string) error {
			<-release
			return callErr
		})

		assert.Equal(t, State{Deleting: true, ID: "A"}, tr.State())
		assert.True(t, tr.IsDeleting("A"))
		assert.False(t, tr.IsDeleting("B"))

		close(release)
		assert.Equal(t, callErr, <-done)
		assert.Equal(t, Idle, tr.State())

		mu.Lock()
		assert.Equal(t, []State{{Deleting: true, ID: "A"}, Idle}, seen)
		mu.Unlock()
	}
}

func TestTrackerLaterDeleteOwnsSlot(t *testing.T) {
	tr := NewTracker(nil)
	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	doneA := tr.Start(context.Background(), "A", func(context.Context, string) error { <-releaseA; return nil })
	doneB := tr.Start(context.Background(), "B", func(context.Context, string) error { <-releaseB; return nil })
	assert.True(t, tr.IsDeleting("B"))

	close(releaseA)
	<-doneA
	assert.True(t, tr.IsDeleting("B"), "settling A must not clear B")

	close(releaseB)
	<-doneB
	assert.Equal(t, Idle, tr.State())
}

func TestTableScenario(t *testing.T) {
	svc, ctx := setup(t)
	table := NewTable(svc, nil, nil)
	require.NoError(t, table.Load(ctx))

	rows := table.Rows()
	require.Len(t, rows, 2)
	r1 := rows[0]
	assert.Equal(t, "R1", r1.RecordID)
	assert.Equal(t, "Ann Lee", r1.StudentName)
	assert.Equal(t, "CS101", r1.Module.Text)
	assert.Equal(t, "LATE", r1.Status.Text)
	assert.Equal(t, ToneCautionary, r1.Status.Tone)
	assert.Equal(t, "10-Jan-2024 09:05:00", r1.Timestamp)

	err := table.Edit("R1")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, "not implemented yet", err.Error())
	assert.Equal(t, EditNotice, Notice(err))
	assert.Equal(t, "attendance record \"R9\" not found", Notice(apperrors.NotFound("op", "attendance record", "R9")))

	var (
		mu     sync.Mutex
		states []State
	)
	table.tracker.onChange = func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}
	release := make(chan struct{})
	gated := gatedSource{Source: svc, release: release}
	table.src = gated

	done := table.Delete(ctx, "R1")
	rows = table.Rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Deleting)
	assert.False(t, rows[1].Deleting)
	assert.Equal(t, "trash-2", rows[1].Actions[2].Icon)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, table.Tracker().State())

	rows = table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "R2", rows[0].RecordID)
	assert.False(t, rows[0].Deleting)

	all, err := svc.GetAllAttendanceRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "R2", all[0].AttendanceRecordID)

	mu.Lock()
	assert.Equal(t, []State{{Deleting: true, ID: "R1"}, Idle}, states)
	mu.Unlock()
}

func TestTableDeleteFailureStillSettles(t *testing.T) {
	svc, ctx := setup(t)
	table := NewTable(svc, nil, nil)
	require.NoError(t, table.Load(ctx))

	err := <-table.Delete(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, Idle, table.Tracker().State())
	assert.Len(t, table.Rows(), 2)
}

func TestRenderText(t *testing.T) {
	svc, ctx := setup(t)
	table := NewTable(svc, nil, nil)
	require.NoError(t, table.Load(ctx))

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, table.Rows()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[1], "Ann Lee")
	assert.Contains(t, lines[1], "LATE")
	assert.Contains(t, lines[1], "10-Jan-2024 09:05:00")
}

func TestTemplate(t *testing.T) {
	rec := model.RecordWithInfo{
		AttendanceRecord: model.AttendanceRecord{AttendanceRecordID: "R1", StudentID: "S1", LectureID: "L1", Status: model.StatusLate},
		StudentFullName:  "Ann <Lee>",
		ModuleName:       "CS101",
	}
	var buf bytes.Buffer
	err := Template().Execute(&buf, Page{Title: "Attendance", Notice: EditNotice, Rows: []Row{NewRow(rec, true, nil)}})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Ann &lt;Lee&gt;")
	assert.Contains(t, out, `data-icon="loader-2"`)
	assert.Contains(t, out, "tone-cautionary")
	assert.Contains(t, out, "<th>Attendance Record ID</th>")
	assert.Contains(t, out, "<th>Lecture ID</th>")
	assert.Contains(t, out, "<td>R1</td>")
	assert.Contains(t, out, "<td>L1</td>")
	assert.Contains(t, out, `action="/records/R1/delete"`)
	assert.Contains(t, out, `action="/records/R1/edit"`)
	assert.Contains(t, out, " disabled>", "in-flight deletes cannot be resubmitted")
	assert.Contains(t, out, `<p class="notice" role="status">Not implemented yet</p>`)

	buf.Reset()
	require.NoError(t, Template().Execute(&buf, Page{Title: "Attendance"}))
	assert.Contains(t, buf.String(), "No attendance records.")
}

type gatedSource struct {
	Source
	release chan struct{}
}

func (g gatedSource) DeleteAttendanceRecordByID(ctx context.Context, in attendance.DeleteRecordInput) (model.AttendanceRecord, error) {
	<-g.release
	return g.Source.DeleteAttendanceRecordByID(ctx, in)
}
