package progress_test

import (
	"reflect"
	"testing"

	"progress-service/internal/models"
	"progress-service/internal/normalize"
	"progress-service/internal/progress"
)

// Runs raw store documents through the whole derive pipeline the way the
// service layer does: normalize, resolve, evaluate. Guards against the
// layers drifting apart in how they interpret a snapshot.
func TestPipelineFromRawDocuments(t *testing.T) {
	finished := map[string]interface{}{
		"pages":      map[string]interface{}{"completed_pages_count": 5},
		"quiz":       map[string]interface{}{"completed": "yes", "highest_score": "8", "attempts": 2},
		"simulation": map[string]interface{}{"passed": 1, "attempts": 1},
	}
	belowThreshold := map[string]interface{}{
		"pages":      map[string]interface{}{"last_assessment_passed": true},
		"quiz":       map[string]interface{}{"completed": true, "highest_score": 6, "attempts": 4},
		"simulation": map[string]interface{}{"passed": true, "attempts": 2},
	}

	t.Run("lms track", func(t *testing.T) {
		raws := []map[string]interface{}{finished, belowThreshold, finished, finished, finished, nil}
		lessons := make([]models.LessonProgress, len(raws))
		for i, raw := range raws {
			lessons[i] = normalize.Lesson(i+1, models.TrackLMS, raw)
		}

		statuses := progress.Statuses(lessons)
		expected := []models.LessonStatus{
			models.StatusCompleted,
			models.StatusInProgress,
			models.StatusCompleted,
			models.StatusCompleted,
			models.StatusCompleted,
			models.StatusNotStarted,
		}
		for i := range expected {
			if statuses[i] != expected[i] {
				t.Errorf("Lesson %d: expected %s, got %s", i+1, expected[i], statuses[i])
			}
		}

		verdict, err := progress.EvaluateEligibility(models.CertificateLMSFull, statuses, 6)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if verdict.Eligible {
			t.Error("Expected not eligible with lessons 2 and 6 incomplete")
		}
		if !reflect.DeepEqual(verdict.IncompleteLessons, []int{2, 6}) {
			t.Errorf("Expected incomplete lessons [2 6], got %v", verdict.IncompleteLessons)
		}

		agg, err := progress.Aggregate(lessons, 6)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if agg.LessonsCompleted != 4 {
			t.Errorf("Expected 4 lessons completed, got %d", agg.LessonsCompleted)
		}
		if agg.TotalQuizAttempts != 12 {
			t.Errorf("Expected 12 quiz attempts, got %d", agg.TotalQuizAttempts)
		}
	})

	t.Run("game track ignores page gate", func(t *testing.T) {
		lessons := make([]models.LessonProgress, 6)
		for i := 0; i < 6; i++ {
			lessons[i] = normalize.Lesson(i+1, models.TrackGame, finished)
		}
		verdict, err := progress.EvaluateEligibility(models.CertificateGameGeneric, progress.Statuses(lessons), 6)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !verdict.Eligible {
			t.Errorf("Expected game certificate eligibility, got %+v", verdict)
		}
	})

	t.Run("dashboard and issuance agree", func(t *testing.T) {
		raws := []map[string]interface{}{finished, finished, belowThreshold, nil, finished, belowThreshold}
		lessons := make([]models.LessonProgress, len(raws))
		for i, raw := range raws {
			lessons[i] = normalize.Lesson(i+1, models.TrackLMS, raw)
		}
		statuses := progress.Statuses(lessons)

		dashboard, err := progress.EvaluateEligibility(models.CertificateLMSFull, statuses, 6)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		issuance, err := progress.EvaluateEligibility(models.CertificateLMSFull, progress.Statuses(lessons), 6)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !reflect.DeepEqual(dashboard, issuance) {
			t.Errorf("Verdicts diverged: %+v vs %+v", dashboard, issuance)
		}
	})
}
