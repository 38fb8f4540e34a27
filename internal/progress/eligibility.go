package progress

import (
	"fmt"

	"progress-service/internal/models"
)

// EvaluateEligibility applies the certificate-grant predicate for kind
// against the resolved statuses of the full curriculum. It is pure and
// side-effect-free: callers on the dashboard path and the issuance path
// get the identical verdict for identical input, which is the consistency
// invariant the whole system rests on.
//
// lms_full requires every lesson completed. game_generic requires the
// Game-track completed count to reach the curriculum size, which over a
// fixed-size curriculum reduces to the same all-lessons condition (the
// Game track simply has no page gate feeding its statuses).
//
// A curriculum size or status-slice mismatch is a caller programming
// error and is surfaced, never defaulted to "not eligible".
func EvaluateEligibility(kind models.CertificateKind, statuses []models.LessonStatus, curriculumSize int) (models.EligibilityVerdict, error) {
	if curriculumSize <= 0 {
		return models.EligibilityVerdict{}, fmt.Errorf("invalid curriculum size %d", curriculumSize)
	}
	if len(statuses) != curriculumSize {
		return models.EligibilityVerdict{}, fmt.Errorf("expected %d lesson statuses, got %d", curriculumSize, len(statuses))
	}

	verdict := models.EligibilityVerdict{
		Kind:              kind,
		IncompleteLessons: []int{},
	}

	completed := 0
	for i, status := range statuses {
		if status == models.StatusCompleted {
			completed++
		} else {
			verdict.IncompleteLessons = append(verdict.IncompleteLessons, i+1)
		}
	}

	switch kind {
	case models.CertificateLMSFull:
		verdict.Eligible = len(verdict.IncompleteLessons) == 0
	case models.CertificateGameGeneric:
		verdict.Eligible = completed >= curriculumSize
	default:
		return models.EligibilityVerdict{}, fmt.Errorf("unknown certificate kind %q", kind)
	}
	return verdict, nil
}
