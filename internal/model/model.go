package model

import (
	"fmt"
	"time"
)

// Status is the attendance outcome of a student at a lecture.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPresent, StatusLate, StatusAbsent}

// Valid reports whether s is one of the enumerated values. Comparison is exact.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid attendance status %q", raw)
	}
	return s, nil
}

// Student is a registered student.
type Student struct {
	StudentID     string `json:"studentId"`
	StudentCardID string `json:"studentCardId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Module is a taught course unit.
type Module struct {
	ModuleID   string `json:"moduleId"`
	ModuleName string `json:"moduleName"`
}

// Lecture is one scheduled session of a module.
type Lecture struct {
	LectureID string    `json:"lectureId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	ModuleID  string    `json:"moduleId"`
}

// AttendanceRecord records a student's status at a lecture.
type AttendanceRecord struct {
	AttendanceRecordID string    `json:"attendanceRecordId"`
	StudentID          string    `json:"studentId"`
	LectureID          string    `json:"lectureId"`
	Status             Status    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
}

// StudentIDRow is the studentId-only projection of a Student.
type StudentIDRow struct {
	StudentID string `json:"studentId"`
}

// LectureIDRow is the lectureId-only projection of a Lecture.
type LectureIDRow struct {
	LectureID string `json:"lectureId"`
}

// ModuleName is the moduleName-only projection of a Module, nested under joined lectures.
type ModuleName struct {
	ModuleName string `json:"moduleName"`
}

// LectureWithModule is a Lecture joined with its module's name.
type LectureWithModule struct {
	Lecture
	Module ModuleName `json:"Module"`
}

// LectureIDWithModule is a lectureId joined with its module's name.
type LectureIDWithModule struct {
	LectureID string     `json:"lectureId"`
	Module    ModuleName `json:"Module"`
}

// RecordWithInfo is an AttendanceRecord with the student's full name and the module
// name derived at read time. The derived fields are never stored or sent back on write.
type RecordWithInfo struct {
	AttendanceRecord
	StudentFullName string `json:"studentFullName"`
	ModuleName      string `json:"moduleName"`
}

// JoinRecords derives RecordWithInfo rows from the four entity sets. References that
// cannot be resolved leave the derived field empty.
func JoinRecords(records []AttendanceRecord, students []Student, lectures []Lecture, modules []Module) []RecordWithInfo {
	names := make(map[string]string, len(students))
	for _, st := range students {
		names[st.StudentID] = st.FullName()
	}
	moduleNames := make(map[string]string, len(modules))
	for _, m := range modules {
		moduleNames[m.ModuleID] = m.ModuleName
	}
	lectureModule := make(map[string]string, len(lectures))
	for _, l := range lectures {
		lectureModule[l.LectureID] = moduleNames[l.ModuleID]
	}

	out := make([]RecordWithInfo, 0, len(records))
	for _, r := range records {
		out = append(out, RecordWithInfo{
			AttendanceRecord: r,
			StudentFullName:  names[r.StudentID],
			ModuleName:       lectureModule[r.LectureID],
		})
	}
	return out
}
