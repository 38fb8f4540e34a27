package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"progress-service/internal/models"
	"progress-service/internal/service"
)

var (
	eligibilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_eligibility_checks_total",
			Help: "Total number of eligibility evaluations",
		},
		[]string{"kind", "eligible"},
	)

	progressReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "progress_read_duration_seconds",
			Help:    "Time spent building progress read models",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	attemptReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_attempt_reports_total",
			Help: "Total number of raw attempt reports written",
		},
		[]string{"activity", "status"},
	)
)

type ProgressHandler struct {
	Service *service.ProgressService
}

func NewProgressHandler(s *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{Service: s}
}

// GetUserProgress returns the full dashboard read model: both tracks,
// per-lesson statuses and aggregates.
func (h *ProgressHandler) GetUserProgress(c *gin.Context) {
	timer := prometheus.NewTimer(progressReadDuration.WithLabelValues("user"))
	defer timer.ObserveDuration()

	view, err := h.Service.GetUserProgress(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProgressHandler) GetTrackProgress(c *gin.Context) {
	timer := prometheus.NewTimer(progressReadDuration.WithLabelValues("track"))
	defer timer.ObserveDuration()

	track, err := models.ParseTrack(c.Param("track"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.Service.GetTrackProgress(context.Background(), c.Param("id"), track)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// CheckEligibility serves the read-only consumers (dashboards, reporting,
// admin tooling). Issuance goes through the certificate handler, but both
// end up in the same evaluator.
func (h *ProgressHandler) CheckEligibility(c *gin.Context) {
	kind, err := models.ParseCertificateKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	verdict, err := h.Service.CheckEligibility(context.Background(), c.Param("id"), kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	eligibilityChecks.WithLabelValues(string(kind), boolLabel(verdict.Eligible)).Inc()
	c.JSON(http.StatusOK, verdict)
}

func (h *ProgressHandler) ReportQuizAttempt(c *gin.Context) {
	var report models.QuizAttemptReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if report.UserID == "" {
		report.UserID = c.GetHeader("X-User-ID")
	}
	if err := h.Service.RecordQuizAttempt(context.Background(), report); err != nil {
		attemptReports.WithLabelValues("quiz", "rejected").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrLessonOutOfRange) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	attemptReports.WithLabelValues("quiz", "accepted").Inc()
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

func (h *ProgressHandler) ReportSimulationAttempt(c *gin.Context) {
	var report models.SimulationAttemptReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if report.UserID == "" {
		report.UserID = c.GetHeader("X-User-ID")
	}
	if err := h.Service.RecordSimulationAttempt(context.Background(), report); err != nil {
		attemptReports.WithLabelValues("simulation", "rejected").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrLessonOutOfRange) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	attemptReports.WithLabelValues("simulation", "accepted").Inc()
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

func (h *ProgressHandler) ReportPageCompletion(c *gin.Context) {
	var report models.PageCompletionReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if report.UserID == "" {
		report.UserID = c.GetHeader("X-User-ID")
	}
	if err := h.Service.RecordPageCompletion(context.Background(), report); err != nil {
		attemptReports.WithLabelValues("pages", "rejected").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrLessonOutOfRange) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	attemptReports.WithLabelValues("pages", "accepted").Inc()
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
