package normalize

import (
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"progress-service/internal/models"
)

func TestBoolCoercion(t *testing.T) {
	testCases := []struct {
		name     string
		input    interface{}
		def      bool
		expected bool
	}{
		{"native true", true, false, true},
		{"native false", false, true, false},
		{"int one", 1, false, true},
		{"int zero", 0, true, false},
		{"int32 one", int32(1), false, true},
		{"int64 zero", int64(0), true, false},
		{"float one", 1.0, false, true},
		{"string true", "true", false, true},
		{"string TRUE", "TRUE", false, true},
		{"string yes", "yes", false, true},
		{"string Yes padded", " Yes ", false, true},
		{"string no", "no", true, false},
		{"string false", "False", true, false},
		{"string one", "1", false, true},
		{"string zero", "0", true, false},
		{"garbage string default false", "maybe", false, false},
		{"garbage string default true", "maybe", true, true},
		{"numeric two default", 2, false, false},
		{"nil default true", nil, true, true},
		{"nil default false", nil, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Bool(tc.input, tc.def); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNumberCoercion(t *testing.T) {
	testCases := []struct {
		name     string
		input    interface{}
		expected float64
	}{
		{"float", 7.5, 7.5},
		{"int", 7, 7},
		{"int32", int32(3), 3},
		{"int64", int64(9), 9},
		{"numeric string", "6.5", 6.5},
		{"numeric string padded", " 8 ", 8},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
		{"garbage string", "n/a", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Number(tc.input)
			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
			if math.IsNaN(got) {
				t.Error("NaN must never pass the normalizer boundary")
			}
		})
	}
}

func TestCountClampsNegative(t *testing.T) {
	if got := Count(-3); got != 0 {
		t.Errorf("Expected 0 for negative count, got %d", got)
	}
	if got := Count("4"); got != 4 {
		t.Errorf("Expected 4, got %d", got)
	}
}

func TestQuizNormalization(t *testing.T) {
	testCases := []struct {
		name     string
		raw      map[string]interface{}
		expected models.QuizRecord
	}{
		{
			"nil record zero-filled",
			nil,
			models.QuizRecord{},
		},
		{
			"typed record",
			map[string]interface{}{"completed": true, "highest_score": 8.0, "attempts": 2},
			models.QuizRecord{Completed: true, HighestScore: 8, Attempts: 2},
		},
		{
			"stringly typed record",
			map[string]interface{}{"completed": "yes", "highest_score": "7", "attempts": "3"},
			models.QuizRecord{Completed: true, HighestScore: 7, Attempts: 3},
		},
		{
			"legacy field names",
			map[string]interface{}{"complete": 1, "best_score": 9, "attempt_count": 1},
			models.QuizRecord{Completed: true, HighestScore: 9, Attempts: 1},
		},
		{
			"completed flag without attempts is dropped",
			map[string]interface{}{"completed": true, "highest_score": 10},
			models.QuizRecord{Completed: false, HighestScore: 10, Attempts: 0},
		},
		{
			"NaN score zeroed",
			map[string]interface{}{"completed": true, "highest_score": math.NaN(), "attempts": 1},
			models.QuizRecord{Completed: true, HighestScore: 0, Attempts: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Quiz(tc.raw)
			if got.Completed != tc.expected.Completed {
				t.Errorf("Expected completed %v, got %v", tc.expected.Completed, got.Completed)
			}
			if got.HighestScore != tc.expected.HighestScore {
				t.Errorf("Expected score %v, got %v", tc.expected.HighestScore, got.HighestScore)
			}
			if got.Attempts != tc.expected.Attempts {
				t.Errorf("Expected attempts %d, got %d", tc.expected.Attempts, got.Attempts)
			}
		})
	}
}

func TestQuizTimestamp(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	got := Quiz(map[string]interface{}{"attempts": 1, "last_attempt": at.Format(time.RFC3339)})
	if got.LastAttempt == nil || !got.LastAttempt.Equal(at) {
		t.Errorf("Expected last attempt %v, got %v", at, got.LastAttempt)
	}
	if got2 := Quiz(map[string]interface{}{"attempts": 1, "last_attempt": "not a date"}); got2.LastAttempt != nil {
		t.Errorf("Expected nil timestamp for garbage, got %v", got2.LastAttempt)
	}
}

func TestSimulationNormalization(t *testing.T) {
	t.Run("passed implies completed", func(t *testing.T) {
		got := Simulation(map[string]interface{}{"passed": true, "attempts": 1})
		if !got.Completed {
			t.Error("Expected completed to be forced true when passed")
		}
	})

	t.Run("completed without pass stays unpassed", func(t *testing.T) {
		got := Simulation(map[string]interface{}{"completed": "1", "passed": "no", "attempts": 2, "score": 55})
		if !got.Completed || got.Passed {
			t.Errorf("Expected completed=true passed=false, got completed=%v passed=%v", got.Completed, got.Passed)
		}
		if got.Score != 55 {
			t.Errorf("Expected score 55, got %v", got.Score)
		}
	})

	t.Run("empty record", func(t *testing.T) {
		got := Simulation(nil)
		if got.Completed || got.Passed || got.Attempts != 0 {
			t.Errorf("Expected zero record, got %+v", got)
		}
	})
}

func TestPagesLegacyShapes(t *testing.T) {
	testCases := []struct {
		name          string
		raw           map[string]interface{}
		expectedHas   bool
		expectedCount int
	}{
		{"page count shape", map[string]interface{}{"completed_pages_count": 3}, true, 3},
		{"zero count", map[string]interface{}{"completed_pages_count": 0}, false, 0},
		{"legacy assessment flag", map[string]interface{}{"last_assessment_passed": true}, true, 0},
		{"legacy flag stringly", map[string]interface{}{"assessment_passed": "yes"}, true, 0},
		{"both shapes", map[string]interface{}{"completed_pages_count": 2, "last_assessment_passed": false}, true, 2},
		{"absent record", nil, false, 0},
		{"camel case count", map[string]interface{}{"completedPagesCount": 1}, true, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Pages(tc.raw)
			if got.HasPages != tc.expectedHas {
				t.Errorf("Expected has_pages %v, got %v", tc.expectedHas, got.HasPages)
			}
			if got.CompletedPagesCount != tc.expectedCount {
				t.Errorf("Expected count %d, got %d", tc.expectedCount, got.CompletedPagesCount)
			}
		})
	}
}

func TestLessonAssembly(t *testing.T) {
	raw := bson.M{
		"quiz":       bson.M{"completed": true, "highest_score": 8, "attempts": 2},
		"simulation": bson.M{"passed": true, "attempts": 1},
		"pages":      bson.M{"completed_pages_count": 4},
	}

	t.Run("lms track carries page state", func(t *testing.T) {
		lp := Lesson(2, models.TrackLMS, raw)
		if lp.Lesson != 2 {
			t.Errorf("Expected lesson 2, got %d", lp.Lesson)
		}
		if lp.Pages == nil || !lp.Pages.HasPages {
			t.Errorf("Expected page state with has_pages, got %+v", lp.Pages)
		}
		if !lp.Quiz.Completed || lp.Quiz.HighestScore != 8 {
			t.Errorf("Unexpected quiz record %+v", lp.Quiz)
		}
	})

	t.Run("game track has no page state", func(t *testing.T) {
		lp := Lesson(2, models.TrackGame, raw)
		if lp.Pages != nil {
			t.Errorf("Expected nil page state on game track, got %+v", lp.Pages)
		}
	})

	t.Run("absent document yields empty progress", func(t *testing.T) {
		lp := Lesson(5, models.TrackLMS, nil)
		if lp.Quiz.Attempts != 0 || lp.Simulation.Attempts != 0 {
			t.Errorf("Expected empty records, got %+v", lp)
		}
		if lp.Pages == nil || lp.Pages.HasPages {
			t.Errorf("Expected empty page state, got %+v", lp.Pages)
		}
	})

	t.Run("legacy sim key", func(t *testing.T) {
		lp := Lesson(1, models.TrackGame, bson.M{"sim": bson.M{"passed": 1, "attempts": 1}})
		if !lp.Simulation.Passed {
			t.Errorf("Expected legacy sim sub-record to be recognized, got %+v", lp.Simulation)
		}
	})
}
