// Package api exposes the record service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/httpmiddleware"
	"attendancedesk/internal/queue"
	"attendancedesk/internal/records"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Deps are the collaborators the router serves.
type Deps struct {
	Service *attendance.Service
	// Queue receives check-ins. Without one, POST /v1/checkins is not routed.
	Queue   queue.Queue
	Limiter httpmiddleware.Limiter
	Metrics http.Handler
	Health  map[string]HealthCheck

	SigningKey  string
	Issuer      string
	CORSOrigins []string
	// Location renders timestamps on the records page; UTC when nil.
	Location *time.Location
}

type handler struct {
	svc *attendance.Service
	q   queue.Queue
	loc *time.Location
}

// NewRouter builds the gin engine with every route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger("/healthz", "/metrics"))
	r.Use(corsMiddleware(d.CORSOrigins))
	r.Use(securityHeaders())
	if d.Limiter != nil {
		r.Use(httpmiddleware.RateLimit(d.Limiter))
	}
	r.SetHTMLTemplate(records.Template())

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}
	r.GET("/healthz", healthz(d.Health))

	h := &handler{svc: d.Service, q: d.Queue, loc: d.Location}
	bearer := auth.Bearer(d.SigningKey, d.Issuer)

	page := r.Group("/records", bearer)
	page.GET("", h.recordsPage)
	page.POST("/:id/delete", h.deleteFromPage)
	page.POST("/:id/edit", h.editFromPage)

	v1 := r.Group("/v1", bearer)

	students := v1.Group("/students")
	students.POST("", h.createStudent)
	students.GET("", h.getAllStudents)
	students.GET("/count", h.getStudentCount)
	students.GET("/ids", h.getAllStudentIDs)
	students.GET("/by-card/:id", h.getStudentByID)
	students.DELETE("/:studentId", h.deleteStudentByID)

	lectures := v1.Group("/lectures")
	lectures.POST("", h.createNewLecture)
	lectures.GET("", h.getAllLectures)
	lectures.GET("/with-modules", h.getAllLecturesWithModuleNames)
	lectures.GET("/count", h.getLectureCount)
	lectures.GET("/ids", h.getAllLectureIDs)
	lectures.GET("/ids-with-modules", h.getLectureIDsWithModuleNames)
	lectures.DELETE("/:lectureId", h.deleteLectureRecordByID)

	modules := v1.Group("/modules")
	modules.GET("", h.getAllModules)
	modules.POST("", h.createModule)

	recs := v1.Group("/records")
	recs.GET("", h.getAllAttendanceRecords)
	recs.GET("/with-info", h.getAllAttendanceRecordsWithExtraInfo)
	recs.DELETE("/:attendanceRecordId", h.deleteAttendanceRecordByID)

	if d.Queue != nil {
		v1.POST("/checkins", h.enqueueCheckIn)
	}
	return r
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "ok"}
		for name, check := range checks {
			ok := check(c.Request.Context())
			body[name] = ok
			if !ok {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
		c.JSON(status, body)
	}
}
