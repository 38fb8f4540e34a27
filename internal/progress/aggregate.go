package progress

import (
	"fmt"

	"progress-service/internal/models"
)

// Aggregate folds one track's per-lesson snapshots into learner totals.
// lessons must cover the full curriculum in order; a length mismatch is a
// caller programming error and fails loudly rather than producing totals
// that would silently corrupt an eligibility computation.
//
// AvgQuizScore distinguishes "no data" from "score of zero": it is nil
// when no lesson has a quiz attempt, and otherwise averages HighestScore
// over attempted lessons only. Attempt totals are unconditional; attempts
// on an unresolved lesson still count.
func Aggregate(lessons []models.LessonProgress, curriculumSize int) (models.LearnerAggregate, error) {
	if curriculumSize <= 0 {
		return models.LearnerAggregate{}, fmt.Errorf("invalid curriculum size %d", curriculumSize)
	}
	if len(lessons) != curriculumSize {
		return models.LearnerAggregate{}, fmt.Errorf("expected %d lessons, got %d", curriculumSize, len(lessons))
	}

	agg := models.LearnerAggregate{TotalLessons: curriculumSize}
	var scoreSum float64
	var scored int

	for _, lp := range lessons {
		if ResolveLessonStatus(lp.Pages, lp.Quiz, lp.Simulation) == models.StatusCompleted {
			agg.LessonsCompleted++
		}
		agg.TotalQuizAttempts += lp.Quiz.Attempts
		agg.TotalSimulationAttempts += lp.Simulation.Attempts
		if lp.Quiz.Attempts > 0 {
			scoreSum += lp.Quiz.HighestScore
			scored++
		}
	}

	if scored > 0 {
		avg := scoreSum / float64(scored)
		agg.AvgQuizScore = &avg
	}
	return agg, nil
}
