package records

import (
	"fmt"
	"html/template"
	"io"
	"text/tabwriter"
)

// RenderText writes rows as an aligned plain-text table.
func RenderText(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORD\tSTUDENT ID\tNAME\tLECTURE\tMODULE\tSTATUS\tTIMESTAMP\t")
	for _, r := range rows {
		state := ""
		if r.Deleting {
			state = "deleting..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RecordID, r.StudentID, r.StudentName, r.LectureID,
			r.Module.Text, r.Status.Text, r.Timestamp, state)
	}
	return tw.Flush()
}

// PageTemplate is the name under which the records page is registered.
const PageTemplate = "records.html"

// Page is the data handed to the records page template.
type Page struct {
	Title string
	// Notice is shown above the table, e.g. after a failed delete.
	Notice string
	Rows   []Row
}

// Template returns the records page template.
func Template() *template.Template {
	return template.Must(template.New(PageTemplate).Parse(pageHTML))
}

const pageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{- with .Notice}}
<p class="notice" role="status">{{.}}</p>
{{- end}}
<table>
<thead>
<tr><th>Attendance Record ID</th><th>Student ID</th><th>Name</th><th>Lecture ID</th><th>Module</th><th>Status</th><th>Timestamp</th><th></th></tr>
</thead>
<tbody>
{{- range .Rows}}
{{- $row := .}}
<tr data-record-id="{{.RecordID}}">
<td>{{.RecordID}}</td>
<td>{{.StudentID}}</td>
<td>{{.StudentName}}</td>
<td>{{.LectureID}}</td>
<td><span class="badge badge-{{.Module.Color}} badge-{{.Module.Size}}">{{.Module.Text}}</span></td>
<td>{{with .Status}}<span class="badge badge-{{.Color}} tone-{{.Tone}}" data-icon="{{.Icon}}">{{.Text}}</span>{{end}}</td>
<td>{{.Timestamp}}</td>
<td class="actions">
{{- range .Actions}}
{{- if eq .Kind "view-info"}}<a href="{{.Href}}" data-icon="{{.Icon}}">{{.Label}}</a>
{{- else if eq .Kind "delete"}}<form method="post" action="/records/{{$row.RecordID}}/delete"><button type="submit" class="destructive" data-action="delete" data-icon="{{.Icon}}"{{if $row.Deleting}} disabled{{end}}>{{.Label}}</button></form>
{{- else}}<form method="post" action="/records/{{$row.RecordID}}/{{.Kind}}"><button type="submit" data-action="{{.Kind}}" data-icon="{{.Icon}}">{{.Label}}</button></form>
{{- end}}
{{- end}}
</td>
</tr>
{{- else}}
<tr><td colspan="8">No attendance records.</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`
