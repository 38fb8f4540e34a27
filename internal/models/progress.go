package models

import (
	"fmt"
	"time"
)

// Track identifies which client reported the progress. The LMS (browser)
// track and the Game track are written by independent clients and are
// never merged.
type Track string

const (
	TrackLMS  Track = "lms"
	TrackGame Track = "game"
)

func ParseTrack(s string) (Track, error) {
	switch Track(s) {
	case TrackLMS:
		return TrackLMS, nil
	case TrackGame:
		return TrackGame, nil
	}
	return "", fmt.Errorf("unknown track %q", s)
}

// LessonStatus is derived, never persisted. It is always recomputed from
// the raw records so stored state and reported status cannot diverge.
type LessonStatus string

const (
	StatusNotStarted LessonStatus = "not_started"
	StatusInProgress LessonStatus = "in_progress"
	StatusCompleted  LessonStatus = "completed"
)

type QuizRecord struct {
	Completed    bool       `bson:"completed" json:"completed"`
	HighestScore float64    `bson:"highest_score" json:"highest_score"`
	Attempts     int        `bson:"attempts" json:"attempts"`
	LastAttempt  *time.Time `bson:"last_attempt,omitempty" json:"last_attempt"`
}

type SimulationRecord struct {
	Completed   bool       `bson:"completed" json:"completed"`
	Passed      bool       `bson:"passed" json:"passed"`
	Score       float64    `bson:"score" json:"score"`
	Attempts    int        `bson:"attempts" json:"attempts"`
	LastAttempt *time.Time `bson:"last_attempt,omitempty" json:"last_attempt"`
}

// PageState exists on the LMS track only. HasPages is computed, not read
// verbatim from storage (see the normalize package).
type PageState struct {
	HasPages            bool `bson:"has_pages" json:"has_pages"`
	CompletedPagesCount int  `bson:"completed_pages_count" json:"completed_pages_count"`
}

// LessonProgress is the normalized per-lesson snapshot for one learner on
// one track. Pages is nil on the Game track.
type LessonProgress struct {
	Lesson     int              `json:"lesson"`
	Pages      *PageState       `json:"pages,omitempty"`
	Quiz       QuizRecord       `json:"quiz"`
	Simulation SimulationRecord `json:"simulation"`
}

// LearnerAggregate holds per-track totals for dashboards. AvgQuizScore is
// nil when no lesson on the track has a quiz attempt; a zero score is a
// real score and is never mapped to nil.
type LearnerAggregate struct {
	LessonsCompleted        int      `json:"lessons_completed"`
	TotalLessons            int      `json:"total_lessons"`
	AvgQuizScore            *float64 `json:"avg_quiz_score"`
	TotalQuizAttempts       int      `json:"total_quiz_attempts"`
	TotalSimulationAttempts int      `json:"total_simulation_attempts"`
}

type CertificateKind string

const (
	CertificateLMSFull     CertificateKind = "lms_full"
	CertificateGameGeneric CertificateKind = "game_generic"
)

func ParseCertificateKind(s string) (CertificateKind, error) {
	switch CertificateKind(s) {
	case CertificateLMSFull:
		return CertificateLMSFull, nil
	case CertificateGameGeneric:
		return CertificateGameGeneric, nil
	}
	return "", fmt.Errorf("unknown certificate kind %q", s)
}

// TrackFor maps a certificate kind to the track whose progress backs it.
func (k CertificateKind) TrackFor() Track {
	if k == CertificateGameGeneric {
		return TrackGame
	}
	return TrackLMS
}

// EligibilityVerdict is a pure, re-derivable decision. IncompleteLessons
// lists the lesson keys not yet completed, ascending, and is empty (never
// nil) when the learner is eligible. Scores are deliberately not included.
type EligibilityVerdict struct {
	Kind              CertificateKind `json:"certificate_kind"`
	Eligible          bool            `json:"eligible"`
	IncompleteLessons []int           `json:"incomplete_lessons"`
}
