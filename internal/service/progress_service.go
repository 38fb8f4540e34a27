package service

import (
	"context"
	"errors"
	"fmt"

	"progress-service/internal/models"
	"progress-service/internal/progress"
	"progress-service/internal/repository"
)

var ErrLessonOutOfRange = errors.New("lesson key out of range")

// ProgressService is the read-and-derive pipeline: raw store snapshot,
// normalization, status resolution, aggregation. It holds no mutable
// state and recomputes everything per call; derived values are read-model
// projections, never cached ground truth.
type ProgressService struct {
	Repo           *repository.ProgressRepository
	CurriculumSize int
}

func NewProgressService(repo *repository.ProgressRepository, curriculumSize int) *ProgressService {
	return &ProgressService{Repo: repo, CurriculumSize: curriculumSize}
}

// GetTrackProgress builds the dashboard read model for one track: each
// lesson's normalized records with its derived status, plus the track
// aggregate.
func (s *ProgressService) GetTrackProgress(ctx context.Context, userID string, track models.Track) (*models.TrackProgressView, error) {
	lessons, err := s.Repo.Snapshot(ctx, userID, track, s.CurriculumSize)
	if err != nil {
		return nil, err
	}
	agg, err := progress.Aggregate(lessons, s.CurriculumSize)
	if err != nil {
		return nil, err
	}

	views := make([]models.LessonView, len(lessons))
	for i, lp := range lessons {
		views[i] = models.LessonView{
			Lesson:     lp.Lesson,
			Status:     progress.ResolveLessonStatus(lp.Pages, lp.Quiz, lp.Simulation),
			Pages:      lp.Pages,
			Quiz:       lp.Quiz,
			Simulation: lp.Simulation,
		}
	}
	return &models.TrackProgressView{
		UserID:    userID,
		Track:     track,
		Lessons:   views,
		Aggregate: agg,
	}, nil
}

// GetUserProgress returns both tracks. They are computed independently
// and never merged; the Game track's page-less model must not contaminate
// the LMS aggregate.
func (s *ProgressService) GetUserProgress(ctx context.Context, userID string) (*models.UserProgressView, error) {
	lms, err := s.GetTrackProgress(ctx, userID, models.TrackLMS)
	if err != nil {
		return nil, err
	}
	game, err := s.GetTrackProgress(ctx, userID, models.TrackGame)
	if err != nil {
		return nil, err
	}
	return &models.UserProgressView{UserID: userID, LMS: lms, Game: game}, nil
}

// CheckEligibility computes a fresh verdict from the current snapshot.
// Every consumer goes through here, so the dashboard path and the
// issuance path cannot drift apart. Store failures propagate; a verdict
// is never derived from a partial read.
func (s *ProgressService) CheckEligibility(ctx context.Context, userID string, kind models.CertificateKind) (models.EligibilityVerdict, error) {
	lessons, err := s.Repo.Snapshot(ctx, userID, kind.TrackFor(), s.CurriculumSize)
	if err != nil {
		return models.EligibilityVerdict{}, err
	}
	return progress.EvaluateEligibility(kind, progress.Statuses(lessons), s.CurriculumSize)
}

// RecordQuizAttempt writes one raw quiz attempt reported by a client.
func (s *ProgressService) RecordQuizAttempt(ctx context.Context, report models.QuizAttemptReport) error {
	track, err := models.ParseTrack(report.Track)
	if err != nil {
		return err
	}
	if err := s.validateLesson(report.Lesson); err != nil {
		return err
	}
	if report.Score < 0 || report.Score > progress.QuizMaxScore {
		return fmt.Errorf("quiz score %.2f outside 0..%.0f", report.Score, progress.QuizMaxScore)
	}
	return s.Repo.RecordQuizAttempt(ctx, report.UserID, track, report.Lesson, report.Score, report.Completed)
}

// RecordSimulationAttempt writes one raw simulation attempt.
func (s *ProgressService) RecordSimulationAttempt(ctx context.Context, report models.SimulationAttemptReport) error {
	track, err := models.ParseTrack(report.Track)
	if err != nil {
		return err
	}
	if err := s.validateLesson(report.Lesson); err != nil {
		return err
	}
	return s.Repo.RecordSimulationAttempt(ctx, report.UserID, track, report.Lesson, report.Score, report.Passed, report.Completed)
}

// RecordPageCompletion writes the LMS page counter; the Game client has
// no page concept so the track is fixed.
func (s *ProgressService) RecordPageCompletion(ctx context.Context, report models.PageCompletionReport) error {
	if err := s.validateLesson(report.Lesson); err != nil {
		return err
	}
	if report.PagesCompleted < 0 {
		return fmt.Errorf("negative page count %d", report.PagesCompleted)
	}
	return s.Repo.RecordPageCompletion(ctx, report.UserID, report.Lesson, report.PagesCompleted)
}

func (s *ProgressService) validateLesson(lesson int) error {
	if lesson < 1 || lesson > s.CurriculumSize {
		return fmt.Errorf("%w: %d (curriculum has %d lessons)", ErrLessonOutOfRange, lesson, s.CurriculumSize)
	}
	return nil
}
