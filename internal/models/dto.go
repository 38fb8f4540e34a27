package models

// LessonView pairs the normalized raw records with the status derived from
// them, for dashboard rendering.
type LessonView struct {
	Lesson     int              `json:"lesson"`
	Status     LessonStatus     `json:"status"`
	Pages      *PageState       `json:"pages,omitempty"`
	Quiz       QuizRecord       `json:"quiz"`
	Simulation SimulationRecord `json:"simulation"`
}

type TrackProgressView struct {
	UserID    string           `json:"user_id"`
	Track     Track            `json:"track"`
	Lessons   []LessonView     `json:"lessons"`
	Aggregate LearnerAggregate `json:"aggregate"`
}

type UserProgressView struct {
	UserID string             `json:"user_id"`
	LMS    *TrackProgressView `json:"lms"`
	Game   *TrackProgressView `json:"game"`
}

// QuizAttemptReport is the write payload from the LMS or Game client after
// a quiz attempt. Only raw records are written; derived status never is.
type QuizAttemptReport struct {
	UserID    string  `json:"user_id"`
	Track     string  `json:"track" binding:"required"`
	Lesson    int     `json:"lesson" binding:"required"`
	Score     float64 `json:"score"`
	Completed bool    `json:"completed"`
}

type SimulationAttemptReport struct {
	UserID    string  `json:"user_id"`
	Track     string  `json:"track" binding:"required"`
	Lesson    int     `json:"lesson" binding:"required"`
	Score     float64 `json:"score"`
	Passed    bool    `json:"passed"`
	Completed bool    `json:"completed"`
}

// PageCompletionReport is LMS-only; the Game client has no page concept.
type PageCompletionReport struct {
	UserID         string `json:"user_id"`
	Lesson         int    `json:"lesson" binding:"required"`
	PagesCompleted int    `json:"pages_completed"`
}
