package records

import (
	"context"
	"fmt"

	"policy-training-assistant/internal/chat/repository"
	"policy-training-assistant/internal/model"
	pkgLog "policy-training-assistant/pkg/log"
)

type implRepository struct {
	client *Client
	l      pkgLog.Logger
}

// New creates a records-backed repository.
func New(client *Client, l pkgLog.Logger) repository.RecordsRepository {
	return &implRepository{
		client: client,
		l:      l,
	}
}

// GetTrainingRecord fetches and maps one user's training record.
func (r *implRepository) GetTrainingRecord(ctx context.Context, userID string) (model.TrainingRecord, error) {
	record, err := r.client.GetRecord(ctx, userID)
	if err != nil {
		r.l.Errorf(ctx, "records repository: failed to get record for user %s: %v", userID, err)
		return model.TrainingRecord{}, fmt.Errorf("failed to get training record: %w", err)
	}

	out := model.TrainingRecord{
		UserID:           record.UserID,
		OverallProgress:  record.OverallProgress,
		CompletedCourses: mapCourses(record.Completed),
		PendingCourses:   mapCourses(record.Pending),
	}

	r.l.Infof(ctx, "records repository: user %s has %d completed, %d pending courses",
		userID, len(out.CompletedCourses), len(out.PendingCourses))
	return out, nil
}

func mapCourses(courses []Course) []model.CourseProgress {
	out := make([]model.CourseProgress, 0, len(courses))
	for _, c := range courses {
		out = append(out, model.CourseProgress{
			CourseID:   c.CourseID,
			Title:      c.Title,
			Progress:   c.Progress,
			DueDate:    c.DueDate,
			MandateTag: c.MandateTag,
		})
	}
	return out
}
