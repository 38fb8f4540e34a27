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

var certificatesIssued = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "progress_certificates_issued_total",
		Help: "Total number of certificates issued",
	},
	[]string{"kind"},
)

type CertificateHandler struct {
	Service *service.CertificateService
}

func NewCertificateHandler(s *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{Service: s}
}

type issueRequest struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind" binding:"required"`
}

// IssueCertificate gates the one-time certificate write on a fresh
// verdict. An ineligible learner gets the incomplete lesson keys back so
// the UI can explain without leaking scores.
func (h *CertificateHandler) IssueCertificate(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		req.UserID = c.GetHeader("X-User-ID")
	}
	kind, err := models.ParseCertificateKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cert, verdict, err := h.Service.Issue(context.Background(), req.UserID, kind)
	if errors.Is(err, service.ErrNotEligible) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not eligible", "verdict": verdict})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if verdict == nil {
		// Already issued; idempotent replay.
		c.JSON(http.StatusOK, cert)
		return
	}
	certificatesIssued.WithLabelValues(string(kind)).Inc()
	c.JSON(http.StatusCreated, cert)
}

// VerifyCertificate resolves a public serial to its issued record. It
// never recomputes eligibility from partial trust.
func (h *CertificateHandler) VerifyCertificate(c *gin.Context) {
	cert, err := h.Service.Verify(context.Background(), c.Param("serial"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (h *CertificateHandler) GetUserCertificates(c *gin.Context) {
	certs, err := h.Service.ListByUser(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, certs)
}
