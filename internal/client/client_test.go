package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendancedesk/internal/api"
	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/entity/memstore"
	"attendancedesk/internal/model"
	"attendancedesk/internal/queue"
	"attendancedesk/internal/records"
)

const (
	key    = "client-test-key"
	issuer = "client-test"
)

func newServer(t *testing.T) (*httptest.Server, *queue.InMemory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memstore.New()
	require.NoError(t, store.Seed(context.Background(), memstore.Fixtures{
		Modules: []model.Module{{ModuleID: "M1", ModuleName: "CS101"}},
	}))
	q := queue.NewInMemory(4)
	svc := attendance.NewService(store, auth.NewRoleGate("staff"), attendance.Options{})
	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Service:    svc,
		Queue:      q,
		SigningKey: key,
		Issuer:     issuer,
	}))
	t.Cleanup(srv.Close)
	return srv, q
}

func staffClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	tok, err := auth.Issue("tester", "staff", issuer, key, time.Hour)
	require.NoError(t, err)
	return New(baseURL, tok.AccessToken)
}

func TestClientRoundTrip(t *testing.T) {
	srv, _ := newServer(t)
	c := staffClient(t, srv.URL+"/")
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	st, err := c.CreateStudent(ctx, attendance.CreateStudentInput{
		FirstName: "Ann", LastName: "Lee", StudentID: "S1", StudentCardID: "card1",
	})
	require.NoError(t, err)
	assert.Equal(t, "S1", st.StudentID)

	found, err := c.GetStudentByID(ctx, "card1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ann Lee", found.FullName())

	missing, err := c.GetStudentByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	lecture, err := c.CreateNewLecture(ctx, attendance.CreateLectureInput{
		LectureID: "L1", StartTime: start, EndTime: start.Add(time.Hour), ModuleID: "M1",
	})
	require.NoError(t, err)
	assert.True(t, start.Equal(lecture.StartTime))

	n, err := c.GetLectureCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	joined, err := c.GetLectureIDsWithModuleNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.LectureIDWithModule{{LectureID: "L1", Module: model.ModuleName{ModuleName: "CS101"}}}, joined)

	modules, err := c.GetAllModules(ctx)
	require.NoError(t, err)
	assert.Len(t, modules, 1)

	_, err = c.DeleteLectureRecordByID(ctx, attendance.DeleteLectureInput{LectureID: "L1"})
	require.NoError(t, err)
	_, err = c.DeleteLectureRecordByID(ctx, attendance.DeleteLectureInput{LectureID: "L1"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	deleted, err := c.DeleteStudentByID(ctx, attendance.DeleteStudentInput{StudentID: "S1", FirstName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "S1", deleted.StudentID)

	ids, err := c.GetAllStudentIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClientErrorKinds(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()

	_, err := New(srv.URL, "").GetAllStudents(ctx)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	c := staffClient(t, srv.URL)
	_, err = c.CreateStudent(ctx, attendance.CreateStudentInput{
		FirstName: "A", LastName: "B", StudentID: "123456789", StudentCardID: "x",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "Student ID must be 8 characters max", apperrors.Message(err))

	_, err = c.CreateModule(ctx, attendance.CreateModuleInput{ModuleID: "M1", ModuleName: "dup"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = c.CreateNewLecture(ctx, attendance.CreateLectureInput{
		LectureID: "L9", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour), ModuleID: "nope",
	})
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Equal(t, "failed to create lecture", apperrors.Message(err))
}

func TestClientCheckIn(t *testing.T) {
	srv, q := newServer(t)
	c := staffClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.CheckIn(ctx, attendance.CreateRecordInput{StudentID: "S1", LectureID: "L1"}))
	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	select {
	case msg := <-msgs:
		assert.Equal(t, queue.TypeCheckIn, msg.Type)
	case <-ctx.Done():
		t.Fatal("check-in was not queued")
	}
}

func TestDecodeErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "t").GetAllModules(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClientDrivesRecordTable(t *testing.T) {
	var _ records.Source = (*Client)(nil)

	srv, _ := newServer(t)
	c := staffClient(t, srv.URL)
	table := records.NewTable(c, nil, nil)
	require.NoError(t, table.Load(context.Background()))
	assert.Empty(t, table.Rows())

	err := <-table.Delete(context.Background(), "R404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, records.Idle, table.Tracker().State())
}
