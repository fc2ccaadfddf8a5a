// Package client calls the attendance API over HTTP. Its methods mirror the record
// service, so callers can swap one for the other.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/attendance"
	"attendancedesk/internal/model"
)

// Client calls the attendance API with a staff bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New creates a client with a request timeout.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Health reports whether the API answers its health probe with 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api unhealthy: %s", resp.Status)
	}
	return nil
}

// call sends one request and decodes the response into T. Error bodies come back
// as *apperrors.Error with the server's kind and message.
func call[T any](ctx context.Context, c *Client, op, method, path string, body any) (T, error) {
	var out T
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return out, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return out, apperrors.Wrap(apperrors.KindInternal, op, fmt.Errorf("api request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return out, decodeError(op, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, apperrors.Wrap(apperrors.KindInternal, op, fmt.Errorf("failed to decode response: %w", err))
	}
	return out, nil
}

func decodeError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error struct {
			Kind    apperrors.Kind `json:"kind"`
			Message string         `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Error.Kind == "" {
		return apperrors.New(kindForStatus(resp.StatusCode), op,
			fmt.Sprintf("api error %s: %s", resp.Status, strings.TrimSpace(string(data))))
	}
	return apperrors.New(body.Error.Kind, op, body.Error.Message)
}

func kindForStatus(status int) apperrors.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperrors.KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.KindUnauthorized
	case http.StatusNotFound:
		return apperrors.KindNotFound
	case http.StatusConflict:
		return apperrors.KindConflict
	case http.StatusUnprocessableEntity:
		return apperrors.KindDependency
	}
	return apperrors.KindInternal
}

// CreateStudent calls POST /v1/students.
func (c *Client) CreateStudent(ctx context.Context, in attendance.CreateStudentInput) (model.Student, error) {
	return call[model.Student](ctx, c, "createStudent", http.MethodPost, "/v1/students", in)
}

// GetAllStudents calls GET /v1/students.
func (c *Client) GetAllStudents(ctx context.Context) ([]model.Student, error) {
	return call[[]model.Student](ctx, c, "getAllStudents", http.MethodGet, "/v1/students", nil)
}

// GetStudentByID looks a student up by card id. A nil student means no match.
func (c *Client) GetStudentByID(ctx context.Context, id string) (*model.Student, error) {
	return call[*model.Student](ctx, c, "getStudentById", http.MethodGet, "/v1/students/by-card/"+url.PathEscape(id), nil)
}

// GetStudentCount calls GET /v1/students/count.
func (c *Client) GetStudentCount(ctx context.Context) (int, error) {
	return call[int](ctx, c, "getStudentCount", http.MethodGet, "/v1/students/count", nil)
}

// GetAllStudentIDs calls GET /v1/students/ids.
func (c *Client) GetAllStudentIDs(ctx context.Context) ([]model.StudentIDRow, error) {
	return call[[]model.StudentIDRow](ctx, c, "getAllStudentIds", http.MethodGet, "/v1/students/ids", nil)
}

// DeleteStudentByID calls DELETE /v1/students/:studentId.
func (c *Client) DeleteStudentByID(ctx context.Context, in attendance.DeleteStudentInput) (model.Student, error) {
	path := "/v1/students/" + url.PathEscape(in.StudentID)
	if in.FirstName != "" {
		path += "?" + url.Values{"firstName": {in.FirstName}}.Encode()
	}
	return call[model.Student](ctx, c, "deleteStudentById", http.MethodDelete, path, nil)
}

// CreateNewLecture calls POST /v1/lectures.
func (c *Client) CreateNewLecture(ctx context.Context, in attendance.CreateLectureInput) (model.Lecture, error) {
	return call[model.Lecture](ctx, c, "createNewLecture", http.MethodPost, "/v1/lectures", in)
}

// GetAllLectures calls GET /v1/lectures.
func (c *Client) GetAllLectures(ctx context.Context) ([]model.Lecture, error) {
	return call[[]model.Lecture](ctx, c, "getAllLectures", http.MethodGet, "/v1/lectures", nil)
}

// GetAllLecturesWithModuleNames calls GET /v1/lectures/with-modules.
func (c *Client) GetAllLecturesWithModuleNames(ctx context.Context) ([]model.LectureWithModule, error) {
	return call[[]model.LectureWithModule](ctx, c, "getAllLecturesWithModuleNames", http.MethodGet, "/v1/lectures/with-modules", nil)
}

// GetLectureCount calls GET /v1/lectures/count.
func (c *Client) GetLectureCount(ctx context.Context) (int, error) {
	return call[int](ctx, c, "getLectureCount", http.MethodGet, "/v1/lectures/count", nil)
}

// GetAllLectureIDs calls GET /v1/lectures/ids.
func (c *Client) GetAllLectureIDs(ctx context.Context) ([]model.LectureIDRow, error) {
	return call[[]model.LectureIDRow](ctx, c, "getAllLectureIds", http.MethodGet, "/v1/lectures/ids", nil)
}

// GetLectureIDsWithModuleNames calls GET /v1/lectures/ids-with-modules.
func (c *Client) GetLectureIDsWithModuleNames(ctx context.Context) ([]model.LectureIDWithModule, error) {
	return call[[]model.LectureIDWithModule](ctx, c, "getLectureIdsWithModuleNames", http.MethodGet, "/v1/lectures/ids-with-modules", nil)
}

// DeleteLectureRecordByID calls DELETE /v1/lectures/:lectureId.
func (c *Client) DeleteLectureRecordByID(ctx context.Context, in attendance.DeleteLectureInput) (model.Lecture, error) {
	return call[model.Lecture](ctx, c, "deleteLectureRecordById", http.MethodDelete, "/v1/lectures/"+url.PathEscape(in.LectureID), nil)
}

// GetAllModules calls GET /v1/modules.
func (c *Client) GetAllModules(ctx context.Context) ([]model.Module, error) {
	return call[[]model.Module](ctx, c, "getAllModules", http.MethodGet, "/v1/modules", nil)
}

// CreateModule calls POST /v1/modules.
func (c *Client) CreateModule(ctx context.Context, in attendance.CreateModuleInput) (model.Module, error) {
	return call[model.Module](ctx, c, "createModule", http.MethodPost, "/v1/modules", in)
}

// GetAllAttendanceRecords calls GET /v1/records.
func (c *Client) GetAllAttendanceRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	return call[[]model.AttendanceRecord](ctx, c, "getAllAttendanceRecords", http.MethodGet, "/v1/records", nil)
}

// GetAllAttendanceRecordsWithExtraInfo calls GET /v1/records/with-info.
func (c *Client) GetAllAttendanceRecordsWithExtraInfo(ctx context.Context) ([]model.RecordWithInfo, error) {
	return call[[]model.RecordWithInfo](ctx, c, "getAllAttendanceRecordsWithExtraInfo", http.MethodGet, "/v1/records/with-info", nil)
}

// DeleteAttendanceRecordByID calls DELETE /v1/records/:attendanceRecordId.
func (c *Client) DeleteAttendanceRecordByID(ctx context.Context, in attendance.DeleteRecordInput) (model.AttendanceRecord, error) {
	return call[model.AttendanceRecord](ctx, c, "deleteAttendanceRecordById", http.MethodDelete, "/v1/records/"+url.PathEscape(in.AttendanceRecordID), nil)
}

// CheckIn calls POST /v1/checkins. The record is created asynchronously.
func (c *Client) CheckIn(ctx context.Context, in attendance.CreateRecordInput) error {
	_, err := call[map[string]bool](ctx, c, "checkin", http.MethodPost, "/v1/checkins", in)
	return err
}
