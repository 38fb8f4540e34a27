package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"progress-service/internal/models"
	"progress-service/internal/normalize"
)

// ProgressRepository reads and writes the raw progress store. One document
// per (user, track, lesson); documents are decoded untyped and handed to
// the normalize package, so legacy field shapes never reach typed code.
type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("progress")}
}

// FindLessonRaw returns the raw lesson document, or nil when the learner
// has no record for that slot. Absence is not an error; every other store
// failure is passed through untouched.
func (r *ProgressRepository) FindLessonRaw(ctx context.Context, userID string, track models.Track, lesson int) (bson.M, error) {
	var raw bson.M
	err := r.Col.FindOne(ctx, bson.M{
		"user_id": userID,
		"track":   string(track),
		"lesson":  lesson,
	}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Snapshot fetches and normalizes all lesson slots for one track. Reads
// are fanned out concurrently since lesson slots have no ordering
// dependency, but the snapshot is all-or-nothing: any store failure
// aborts the whole read so no verdict is ever computed from a partial
// set.
func (r *ProgressRepository) Snapshot(ctx context.Context, userID string, track models.Track, curriculumSize int) ([]models.LessonProgress, error) {
	if curriculumSize <= 0 {
		return nil, fmt.Errorf("invalid curriculum size %d", curriculumSize)
	}

	lessons := make([]models.LessonProgress, curriculumSize)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < curriculumSize; i++ {
		i := i
		g.Go(func() error {
			raw, err := r.FindLessonRaw(gctx, userID, track, i+1)
			if err != nil {
				return err
			}
			lessons[i] = normalize.Lesson(i+1, track, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lessons, nil
}

// RecordQuizAttempt merges one quiz attempt into the raw record. The
// highest score is a $max so it stays monotonic regardless of report
// order, and the completion flag is only ever raised, never cleared.
func (r *ProgressRepository) RecordQuizAttempt(ctx context.Context, userID string, track models.Track, lesson int, score float64, completed bool) error {
	set := bson.M{"quiz.last_attempt": time.Now()}
	if completed {
		set["quiz.completed"] = true
	}
	update := bson.M{
		"$inc": bson.M{"quiz.attempts": 1},
		"$max": bson.M{"quiz.highest_score": score},
		"$set": set,
	}
	_, err := r.Col.UpdateOne(ctx, lessonFilter(userID, track, lesson), update, options.Update().SetUpsert(true))
	return err
}

// RecordSimulationAttempt merges one simulation attempt. A pass raises
// both the passed and completed flags.
func (r *ProgressRepository) RecordSimulationAttempt(ctx context.Context, userID string, track models.Track, lesson int, score float64, passed, completed bool) error {
	set := bson.M{"simulation.last_attempt": time.Now()}
	if passed {
		set["simulation.passed"] = true
		set["simulation.completed"] = true
	} else if completed {
		set["simulation.completed"] = true
	}
	update := bson.M{
		"$inc": bson.M{"simulation.attempts": 1},
		"$max": bson.M{"simulation.score": score},
		"$set": set,
	}
	_, err := r.Col.UpdateOne(ctx, lessonFilter(userID, track, lesson), update, options.Update().SetUpsert(true))
	return err
}

// RecordPageCompletion merges the LMS page counter. $max keeps the count
// monotonic when reports arrive out of order.
func (r *ProgressRepository) RecordPageCompletion(ctx context.Context, userID string, lesson int, pagesCompleted int) error {
	update := bson.M{
		"$max": bson.M{"pages.completed_pages_count": pagesCompleted},
	}
	_, err := r.Col.UpdateOne(ctx, lessonFilter(userID, models.TrackLMS, lesson), update, options.Update().SetUpsert(true))
	return err
}

func lessonFilter(userID string, track models.Track, lesson int) bson.M {
	return bson.M{
		"user_id": userID,
		"track":   string(track),
		"lesson":  lesson,
	}
}
