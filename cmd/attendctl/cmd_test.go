package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendancedesk/internal/api"
	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/config"
	"attendancedesk/internal/entity/memstore"
	"attendancedesk/internal/model"
	"attendancedesk/internal/queue"
)

func setup(t *testing.T) config.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.StoreDriver = "memory"
	cfg.JWTSigningKey = "cli-test-key"

	store := memstore.New()
	require.NoError(t, store.Seed(context.Background(), memstore.Fixtures{
		Students: []model.Student{{StudentID: "S1", StudentCardID: "card1", FirstName: "Ann", LastName: "Lee"}},
		Modules:  []model.Module{{ModuleID: "M1", ModuleName: "CS101"}},
		Lectures: []model.Lecture{{
			LectureID: "L1",
			StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
			ModuleID:  "M1",
		}},
		Records: []model.AttendanceRecord{{
			AttendanceRecordID: "R1", StudentID: "S1", LectureID: "L1",
			Status: model.StatusLate, Timestamp: time.Date(2024, 1, 10, 9, 5, 0, 0, time.UTC),
		}},
	}))
	svc := attendance.NewService(store, auth.NewRoleGate(cfg.StaffRoles...), attendance.Options{})
	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Service:    svc,
		Queue:      queue.NewInMemory(4),
		SigningKey: cfg.JWTSigningKey,
		Issuer:     cfg.JWTIssuer,
	}))
	t.Cleanup(srv.Close)

	tok, err := auth.Issue("cli", "staff", cfg.JWTIssuer, cfg.JWTSigningKey, time.Hour)
	require.NoError(t, err)
	cfg.APIURL = srv.URL
	cfg.APIToken = tok.AccessToken
	return cfg
}

func run(t *testing.T, cfg config.App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommandLine(cfg, &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type cliTest struct {
	name     string
	args     []string
	wantErr  error
	wantOut  []string
	wantNone []string
}

func Test_commandLine(t *testing.T) {
	cfg := setup(t)

	tests := []cliTest{
		{name: "students count", args: []string{"students", "count"}, wantOut: []string{"1"}},
		{name: "students find", args: []string{"students", "find", "card1"}, wantOut: []string{`"firstName": "Ann"`}},
		{name: "students find missing", args: []string{"students", "find", "nobody"}, wantOut: []string{"null"}},
		{name: "students add too long", args: []string{"students", "add", "--id", "123456789", "--card", "c", "--first-name", "A", "--last-name", "B"}, wantErr: apperrors.ErrValidation},
		{name: "modules add", args: []string{"modules", "add", "--id", "M2", "--name", "MA201"}, wantOut: []string{`"moduleName": "MA201"`}},
		{name: "lectures add bad time", args: []string{"lectures", "add", "--id", "L2", "--module", "M1", "--start", "soon", "--end", "later"}, wantOut: []string{"--start"}},
		{name: "lectures add", args: []string{"lectures", "add", "--id", "L2", "--module", "M2", "--start", "2024-01-11T09:00:00Z", "--end", "2024-01-11T10:00:00Z"}, wantOut: []string{`"lectureId": "L2"`}},
		{name: "lectures ids-with-modules", args: []string{"lectures", "ids-with-modules"}, wantOut: []string{`"moduleName": "MA201"`}},
		{name: "records list", args: []string{"records", "list"}, wantOut: []string{"Ann Lee", "CS101", "LATE", "10-Jan-2024 09:05:00"}},
		{name: "records edit", args: []string{"records", "edit", "R1"}, wantOut: []string{"Not implemented yet"}},
		{name: "records checkin", args: []string{"records", "checkin", "--student", "S1", "--lecture", "L1"}, wantOut: []string{"check-in queued"}},
		{name: "records delete", args: []string{"records", "delete", "R1"}, wantOut: []string{"deleting R1...", "STATUS"}, wantNone: []string{"Ann Lee"}},
		{name: "records delete again", args: []string{"records", "delete", "R1"}, wantErr: apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, cfg, tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			for _, none := range tt.wantNone {
				assert.NotContains(t, out, none)
			}
		})
	}
}

func Test_commandLine_token(t *testing.T) {
	cfg := config.Defaults()
	cfg.JWTSigningKey = "cli-test-key"

	out, err := run(t, cfg, "token", "--subject", "alice", "--ttl", "1h")
	require.NoError(t, err)

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	claims, err := auth.Parse(body.AccessToken, cfg.JWTSigningKey, cfg.JWTIssuer)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "staff", claims.Role)

	_, err = run(t, cfg, "token")
	assert.Error(t, err, "subject is required")
}

func Test_commandLine_unauthorized(t *testing.T) {
	cfg := setup(t)
	cfg.APIToken = ""
	out, err := run(t, cfg, "students", "list")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.True(t, strings.Contains(out, "caller is not authorized"), out)
}
