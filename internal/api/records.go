package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/attendance"
	"attendancedesk/internal/logger"
	"attendancedesk/internal/queue"
	"attendancedesk/internal/records"
)

func (h *handler) getAllAttendanceRecords(c *gin.Context) {
	recs, err := h.svc.GetAllAttendanceRecords(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *handler) getAllAttendanceRecordsWithExtraInfo(c *gin.Context) {
	recs, err := h.svc.GetAllAttendanceRecordsWithExtraInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *handler) deleteAttendanceRecordByID(c *gin.Context) {
	rec, err := h.svc.DeleteAttendanceRecordByID(c.Request.Context(), attendance.DeleteRecordInput{
		AttendanceRecordID: c.Param("attendanceRecordId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handler) getAllModules(c *gin.Context) {
	modules, err := h.svc.GetAllModules(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}

func (h *handler) createModule(c *gin.Context) {
	var in attendance.CreateModuleInput
	if !h.bind(c, "createModule", &in) {
		return
	}
	m, err := h.svc.CreateModule(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// enqueueCheckIn validates a check-in and hands it to the worker.
func (h *handler) enqueueCheckIn(c *gin.Context) {
	ctx := c.Request.Context()
	var in attendance.CreateRecordInput
	if !h.bind(c, "checkin", &in) {
		return
	}
	if err := h.svc.ValidateCheckIn(in); err != nil {
		respondError(c, err)
		return
	}
	msg, err := queue.NewMessage(queue.TypeCheckIn, in)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.q.Publish(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("queue publish failed")
		respondError(c, apperrors.Wrap(apperrors.KindInternal, "checkin", err))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

const pageTitle = "Attendance records"

func (h *handler) recordsPage(c *gin.Context) {
	table := records.NewTable(h.svc, h.loc, nil)
	if err := table.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.renderPage(c, http.StatusOK, table, "")
}

// deleteFromPage runs the page's delete action through the table's tracker and
// answers with the refetched page.
func (h *handler) deleteFromPage(c *gin.Context) {
	ctx := c.Request.Context()
	table := records.NewTable(h.svc, h.loc, nil)
	if err := table.Load(ctx); err != nil {
		respondError(c, err)
		return
	}
	if err := <-table.Delete(ctx, c.Param("id")); err != nil {
		h.renderPage(c, StatusFor(apperrors.KindOf(err)), table, records.Notice(err))
		return
	}
	h.renderPage(c, http.StatusOK, table, "")
}

func (h *handler) editFromPage(c *gin.Context) {
	table := records.NewTable(h.svc, h.loc, nil)
	if err := table.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	notice := ""
	if err := table.Edit(c.Param("id")); err != nil {
		notice = records.Notice(err)
	}
	h.renderPage(c, http.StatusOK, table, notice)
}

func (h *handler) renderPage(c *gin.Context, status int, table *records.Table, notice string) {
	c.HTML(status, records.PageTemplate, records.Page{
		Title:  pageTitle,
		Notice: notice,
		Rows:   table.Rows(),
	})
}
