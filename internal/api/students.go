package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendancedesk/internal/attendance"
)

func (h *handler) createStudent(c *gin.Context) {
	var in attendance.CreateStudentInput
	if !h.bind(c, "createStudent", &in) {
		return
	}
	st, err := h.svc.CreateStudent(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *handler) getAllStudents(c *gin.Context) {
	students, err := h.svc.GetAllStudents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// getStudentByID looks up by student card id and answers null when nothing matches.
func (h *handler) getStudentByID(c *gin.Context) {
	st, err := h.svc.GetStudentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handler) getStudentCount(c *gin.Context) {
	n, err := h.svc.GetStudentCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *handler) getAllStudentIDs(c *gin.Context) {
	ids, err := h.svc.GetAllStudentIDs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (h *handler) deleteStudentByID(c *gin.Context) {
	st, err := h.svc.DeleteStudentByID(c.Request.Context(), attendance.DeleteStudentInput{
		StudentID: c.Param("studentId"),
		FirstName: c.Query("firstName"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
