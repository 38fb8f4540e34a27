// Package progress derives lesson statuses, learner aggregates and
// certificate-eligibility verdicts from normalized progress records. It is
// the single authority for the completion rule: every consumer (dashboard,
// analytics, issuance, verification) must call into this package and never
// re-derive the thresholds.
package progress

import "progress-service/internal/models"

// Quiz scoring bounds. QuizPassScore is read by both the status resolver
// and the eligibility evaluator; it must never be restated elsewhere.
const (
	QuizMaxScore  = 10.0
	QuizPassScore = 7.0
)

// QuizPassed reports whether a quiz record clears the pass threshold.
// Exactly QuizPassScore passes.
func QuizPassed(q models.QuizRecord) bool {
	return q.Completed && q.HighestScore >= QuizPassScore
}

// SimPassed reports whether the simulation gate is satisfied.
func SimPassed(s models.SimulationRecord) bool {
	return s.Completed && s.Passed
}

// ResolveLessonStatus computes the status of one lesson from its three
// gates. pages is nil on the Game track, where the page gate is
// implicitly satisfied. Completion requires all three gates; any partial
// activity (an attempt, a sub-threshold quiz pass, completed pages) reads
// as in_progress. A lesson with no recorded activity is not_started on
// either track, so the nil page state of the Game track does not count as
// activity by itself.
func ResolveLessonStatus(pages *models.PageState, quiz models.QuizRecord, sim models.SimulationRecord) models.LessonStatus {
	pagesOk := pages == nil || pages.HasPages
	quizOk := QuizPassed(quiz)
	simOk := SimPassed(sim)

	if pagesOk && quizOk && simOk {
		return models.StatusCompleted
	}

	pagesStarted := pages != nil && pages.HasPages
	if pagesStarted || quiz.Completed || quizOk || simOk || quiz.Attempts > 0 || sim.Attempts > 0 {
		return models.StatusInProgress
	}
	return models.StatusNotStarted
}

// Statuses resolves every lesson in order.
func Statuses(lessons []models.LessonProgress) []models.LessonStatus {
	out := make([]models.LessonStatus, len(lessons))
	for i, lp := range lessons {
		out[i] = ResolveLessonStatus(lp.Pages, lp.Quiz, lp.Simulation)
	}
	return out
}
