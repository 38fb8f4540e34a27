// Package normalize converts raw, schema-drifted progress records from the
// store into canonical typed records. It is the single boundary where
// loose typing is absorbed; everything downstream works on typed values
// and never branches on raw shape. All functions are pure and never fail.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"progress-service/internal/models"
)

// Map coerces a decoded BSON sub-document into a plain map. Anything that
// is not a document (absent field, wrong type) yields nil, which the
// record normalizers treat as an empty record.
func Map(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case bson.M:
		return m
	case bson.D:
		out := make(map[string]interface{}, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	}
	return nil
}

// Bool coerces native booleans, 0/1 numerics and the string forms
// true/false/yes/no/1/0 (case-insensitive). Anything else yields def.
func Bool(v interface{}, def bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
		return def
	}
	if n, ok := numeric(v); ok {
		if n == 0 {
			return false
		}
		if n == 1 {
			return true
		}
	}
	return def
}

// Number coerces any numeric width the driver may decode, plus numeric
// strings. Absent, non-finite or unparseable values yield 0, so NaN never
// propagates past this boundary.
func Number(v interface{}) float64 {
	if n, ok := numeric(v); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	}
	return 0
}

// Count is Number clamped to a non-negative integer.
func Count(v interface{}) int {
	n := int(Number(v))
	if n < 0 {
		return 0
	}
	return n
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Timestamp accepts the datetime shapes seen in the store: BSON datetimes,
// native times and RFC 3339 strings. Anything else is nil.
func Timestamp(v interface{}) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case primitive.DateTime:
		tt := t.Time()
		return &tt
	case string:
		if tt, err := time.Parse(time.RFC3339, t); err == nil {
			return &tt
		}
	}
	return nil
}

// field returns the first present key from names, to cover the legacy
// alternate field names the schema accumulated over time.
func field(raw map[string]interface{}, names ...string) interface{} {
	for _, name := range names {
		if v, ok := raw[name]; ok {
			return v
		}
	}
	return nil
}

// Quiz normalizes a raw quiz sub-record. A nil or empty map yields the
// zero record. The attempts==0 implies completed==false invariant is
// enforced here so a stray completion flag on an attempt-less record
// cannot leak downstream.
func Quiz(raw map[string]interface{}) models.QuizRecord {
	q := models.QuizRecord{
		Completed:    Bool(field(raw, "completed", "complete", "is_completed"), false),
		HighestScore: Number(field(raw, "highest_score", "highestScore", "best_score", "score")),
		Attempts:     Count(field(raw, "attempts", "attempt_count", "attemptCount")),
		LastAttempt:  Timestamp(field(raw, "last_attempt", "lastAttempt", "last_attempt_at")),
	}
	if q.Attempts == 0 {
		q.Completed = false
	}
	return q
}

// Simulation normalizes a raw simulation sub-record. passed implies
// completed; some Game client versions set only the pass flag.
func Simulation(raw map[string]interface{}) models.SimulationRecord {
	s := models.SimulationRecord{
		Completed:   Bool(field(raw, "completed", "complete", "is_completed"), false),
		Passed:      Bool(field(raw, "passed", "pass", "is_passed"), false),
		Score:       Number(field(raw, "score", "highest_score", "best_score")),
		Attempts:    Count(field(raw, "attempts", "attempt_count", "attemptCount")),
		LastAttempt: Timestamp(field(raw, "last_attempt", "lastAttempt", "last_attempt_at")),
	}
	if s.Passed {
		s.Completed = true
	}
	return s
}

// Pages normalizes an LMS page sub-record. HasPages is computed, never
// read verbatim: the store holds two historical shapes, a completed-page
// count and an older last-assessment-passed flag, and either one marks
// the page gate satisfied.
func Pages(raw map[string]interface{}) models.PageState {
	count := Count(field(raw, "completed_pages_count", "completedPagesCount", "pages_completed"))
	legacy := Bool(field(raw, "last_assessment_passed", "lastAssessmentPassed", "assessment_passed"), false)
	return models.PageState{
		HasPages:            count > 0 || legacy,
		CompletedPagesCount: count,
	}
}

// Lesson assembles a full normalized LessonProgress from a raw per-lesson
// document. The Game track carries no page state.
func Lesson(lesson int, track models.Track, raw map[string]interface{}) models.LessonProgress {
	lp := models.LessonProgress{
		Lesson:     lesson,
		Quiz:       Quiz(Map(field(raw, "quiz"))),
		Simulation: Simulation(Map(field(raw, "simulation", "sim"))),
	}
	if track == models.TrackLMS {
		pages := Pages(Map(field(raw, "pages", "page_state")))
		lp.Pages = &pages
	}
	return lp
}
