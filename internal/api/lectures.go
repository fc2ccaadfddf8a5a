package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendancedesk/internal/attendance"
)

func (h *handler) createNewLecture(c *gin.Context) {
	var in attendance.CreateLectureInput
	if !h.bind(c, "createNewLecture", &in) {
		return
	}
	lecture, err := h.svc.CreateNewLecture(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lecture)
}

func (h *handler) getAllLectures(c *gin.Context) {
	lectures, err := h.svc.GetAllLectures(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lectures)
}

func (h *handler) getAllLecturesWithModuleNames(c *gin.Context) {
	lectures, err := h.svc.GetAllLecturesWithModuleNames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lectures)
}

func (h *handler) getLectureCount(c *gin.Context) {
	n, err := h.svc.GetLectureCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *handler) getAllLectureIDs(c *gin.Context) {
	ids, err := h.svc.GetAllLectureIDs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (h *handler) getLectureIDsWithModuleNames(c *gin.Context) {
	ids, err := h.svc.GetLectureIDsWithModuleNames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (h *handler) deleteLectureRecordByID(c *gin.Context) {
	lecture, err := h.svc.DeleteLectureRecordByID(c.Request.Context(), attendance.DeleteLectureInput{
		LectureID: c.Param("lectureId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lecture)
}
