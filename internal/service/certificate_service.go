package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"progress-service/internal/event"
	"progress-service/internal/models"
	"progress-service/internal/repository"
)

var ErrNotEligible = errors.New("learner is not eligible")

// CertificateService is the one-time side effect behind a positive
// verdict. It never re-derives the eligibility rule itself; the verdict
// comes from ProgressService, re-evaluated at the instant of issuance.
type CertificateService struct {
	Repo      *repository.CertificateRepository
	Progress  *ProgressService
	Publisher *event.Publisher
}

func NewCertificateService(repo *repository.CertificateRepository, progress *ProgressService, publisher *event.Publisher) *CertificateService {
	return &CertificateService{Repo: repo, Progress: progress, Publisher: publisher}
}

// Issue grants a certificate of the given kind, gated strictly on a fresh
// eligibility check. Issuance is idempotent: an already-issued
// certificate is returned as-is with no new record and no new event. On
// an ineligible learner the verdict is returned alongside ErrNotEligible
// so callers can surface the incomplete lessons.
func (s *CertificateService) Issue(ctx context.Context, userID string, kind models.CertificateKind) (*models.Certificate, *models.EligibilityVerdict, error) {
	existing, err := s.Repo.FindByUserAndKind(ctx, userID, kind)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return existing, nil, nil
	}

	verdict, err := s.Progress.CheckEligibility(ctx, userID, kind)
	if err != nil {
		return nil, nil, err
	}
	if !verdict.Eligible {
		return nil, &verdict, ErrNotEligible
	}

	cert := &models.Certificate{
		ID:       uuid.NewString(),
		UserID:   userID,
		Kind:     kind,
		Serial:   uuid.NewString(),
		IssuedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, cert); err != nil {
		return nil, &verdict, err
	}

	if s.Publisher != nil {
		s.Publisher.Publish("certificate.issued", map[string]interface{}{
			"user_id":   cert.UserID,
			"kind":      cert.Kind,
			"serial":    cert.Serial,
			"issued_at": cert.IssuedAt,
		})
	}
	return cert, &verdict, nil
}

// Verify looks up an issued certificate by its public serial. It reads
// stored records only and never regenerates a verdict.
func (s *CertificateService) Verify(ctx context.Context, serial string) (*models.Certificate, error) {
	return s.Repo.FindBySerial(ctx, serial)
}

func (s *CertificateService) ListByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	return s.Repo.FindByUser(ctx, userID)
}
