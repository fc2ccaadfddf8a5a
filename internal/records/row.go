// Package records turns joined attendance records into display rows and tracks
// in-flight deletes for the record table.
package records

import (
	"errors"
	"strings"
	"time"

	"attendancedesk/internal/model"
)

// TimestampLayout renders as dd-MMM-yyyy HH:mm:ss.
const TimestampLayout = "02-Jan-2006 15:04:05"

// EditNotice is shown in place of an editor.
const EditNotice = "Not implemented yet"

// ErrNotImplemented is returned by the edit action.
var ErrNotImplemented = errors.New("not implemented yet")

// Tone is the semantic styling of a badge.
type Tone string

const (
	ToneNeutral     Tone = "neutral"
	ToneAffirmative Tone = "affirmative"
	ToneCautionary  Tone = "cautionary"
	ToneNegative    Tone = "negative"
)

// Badge is a small labelled chip.
type Badge struct {
	Text  string
	Tone  Tone
	Color string
	Icon  string
	Size  string
}

// StatusBadge maps a status to its badge. It is a pure function of status.
func StatusBadge(status model.Status) Badge {
	text := strings.ToUpper(string(status))
	switch status {
	case model.StatusPresent:
		return Badge{Text: text, Tone: ToneAffirmative, Color: "green", Icon: "check-check", Size: "sm"}
	case model.StatusLate:
		return Badge{Text: text, Tone: ToneCautionary, Color: "amber", Icon: "check", Size: "sm"}
	case model.StatusAbsent:
		return Badge{Text: text, Tone: ToneNegative, Color: "red", Icon: "x", Size: "sm"}
	}
	return Badge{}
}

// ModuleBadge is the neutral chip holding the module name.
func ModuleBadge(name string) Badge {
	return Badge{Text: name, Tone: ToneNeutral, Color: "neutral", Size: "xs"}
}

// FormatTimestamp renders t in loc (UTC when nil) with TimestampLayout.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

// ActionKind names a row action.
type ActionKind string

const (
	ActionViewInfo ActionKind = "view-info"
	ActionEdit     ActionKind = "edit"
	ActionDelete   ActionKind = "delete"
)

// Action is one entry of a row's actions menu.
type Action struct {
	Kind        ActionKind
	Label       string
	Icon        string
	Href        string
	Destructive bool
}

// Row is a display-ready record.
type Row struct {
	RecordID    string
	StudentID   string
	StudentName string
	LectureID   string
	Module      Badge
	Status      Badge
	Timestamp   string
	Deleting    bool
	Actions     []Action
}

// NewRow builds the display row for rec. deleting selects the progress indicator
// in place of the delete icon.
func NewRow(rec model.RecordWithInfo, deleting bool, loc *time.Location) Row {
	deleteIcon := "trash-2"
	if deleting {
		deleteIcon = "loader-2"
	}
	return Row{
		RecordID:    rec.AttendanceRecordID,
		StudentID:   rec.StudentID,
		StudentName: rec.StudentFullName,
		LectureID:   rec.LectureID,
		Module:      ModuleBadge(rec.ModuleName),
		Status:      StatusBadge(rec.Status),
		Timestamp:   FormatTimestamp(rec.Timestamp, loc),
		Deleting:    deleting,
		Actions: []Action{
			{Kind: ActionViewInfo, Label: "View info", Icon: "external-link", Href: "#"},
			{Kind: ActionEdit, Label: "Edit", Icon: "pencil"},
			{Kind: ActionDelete, Label: "Delete", Icon: deleteIcon, Destructive: true},
		},
	}
}
