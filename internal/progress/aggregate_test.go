package progress

import (
	"testing"

	"progress-service/internal/models"
)

func completedLesson(n int) models.LessonProgress {
	return models.LessonProgress{
		Lesson:     n,
		Pages:      pages(true, 2),
		Quiz:       passingQuiz(),
		Simulation: passingSim(),
	}
}

func emptyLesson(n int) models.LessonProgress {
	return models.LessonProgress{Lesson: n, Pages: pages(false, 0)}
}

func TestAggregateTotals(t *testing.T) {
	lessons := []models.LessonProgress{
		completedLesson(1),
		{Lesson: 2, Pages: pages(true, 1), Quiz: models.QuizRecord{Completed: true, HighestScore: 6, Attempts: 3}},
		{Lesson: 3, Pages: pages(false, 0), Simulation: models.SimulationRecord{Attempts: 2}},
		emptyLesson(4),
		emptyLesson(5),
		emptyLesson(6),
	}

	agg, err := Aggregate(lessons, 6)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if agg.LessonsCompleted != 1 {
		t.Errorf("Expected 1 lesson completed, got %d", agg.LessonsCompleted)
	}
	if agg.TotalLessons != 6 {
		t.Errorf("Expected 6 total lessons, got %d", agg.TotalLessons)
	}
	if agg.TotalQuizAttempts != 5 {
		t.Errorf("Expected 5 quiz attempts, got %d", agg.TotalQuizAttempts)
	}
	if agg.TotalSimulationAttempts != 3 {
		t.Errorf("Expected 3 simulation attempts, got %d", agg.TotalSimulationAttempts)
	}
	// (8 + 6) / 2 over the two attempted lessons only.
	if agg.AvgQuizScore == nil || *agg.AvgQuizScore != 7 {
		t.Errorf("Expected avg quiz score 7, got %v", agg.AvgQuizScore)
	}
}

func TestAggregateAverageNilIffNoAttempts(t *testing.T) {
	t.Run("no attempts anywhere", func(t *testing.T) {
		lessons := []models.LessonProgress{emptyLesson(1), emptyLesson(2)}
		agg, err := Aggregate(lessons, 2)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if agg.AvgQuizScore != nil {
			t.Errorf("Expected nil average with zero attempts, got %v", *agg.AvgQuizScore)
		}
	})

	t.Run("zero score is a real score", func(t *testing.T) {
		lessons := []models.LessonProgress{
			{Lesson: 1, Pages: pages(false, 0), Quiz: models.QuizRecord{Attempts: 1, HighestScore: 0}},
			emptyLesson(2),
		}
		agg, err := Aggregate(lessons, 2)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if agg.AvgQuizScore == nil {
			t.Fatal("Expected non-nil average: a zero score must not read as no data")
		}
		if *agg.AvgQuizScore != 0 {
			t.Errorf("Expected average 0, got %v", *agg.AvgQuizScore)
		}
	})
}

func TestAggregateAverageBounds(t *testing.T) {
	scores := [][]float64{
		{0, 10}, {7, 7, 7}, {10}, {1.5, 9.5, 3},
	}
	for _, set := range scores {
		lessons := make([]models.LessonProgress, len(set))
		for i, s := range set {
			lessons[i] = models.LessonProgress{
				Lesson: i + 1,
				Pages:  pages(false, 0),
				Quiz:   models.QuizRecord{Attempts: 1, HighestScore: s},
			}
		}
		agg, err := Aggregate(lessons, len(set))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if agg.AvgQuizScore == nil || *agg.AvgQuizScore < 0 || *agg.AvgQuizScore > QuizMaxScore {
			t.Errorf("Scores %v: average %v outside [0, %v]", set, agg.AvgQuizScore, QuizMaxScore)
		}
	}
}

func TestAggregateRejectsBadInput(t *testing.T) {
	if _, err := Aggregate([]models.LessonProgress{emptyLesson(1)}, 6); err == nil {
		t.Error("Expected error on lesson count mismatch")
	}
	if _, err := Aggregate(nil, 0); err == nil {
		t.Error("Expected error on zero curriculum size")
	}
	if _, err := Aggregate(nil, -1); err == nil {
		t.Error("Expected error on negative curriculum size")
	}
}
