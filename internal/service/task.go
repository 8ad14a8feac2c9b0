package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
)

// TaskStore is the storage TaskService writes to.
type TaskStore interface {
	repository.EntityRepository
	repository.ChecklistRepository
	repository.TodoEventRepository
}

// groupEffects maps a task group to the activity a completion stamps.
var groupEffects = map[string]model.Activity{
	"review": model.ActivityReviewReply,
	"insta":  model.ActivityInstaCaption,
	"blog":   model.ActivityBlogPost,
	"event":  model.ActivityEventPlan,
}

// TaskOutcome is the operator's answer to a recommended task.
type TaskOutcome struct {
	Group  string           `json:"group" validate:"required,max=50"`
	Text   string           `json:"text" validate:"max=500"`
	Status model.TodoStatus `json:"status" validate:"required,oneof=DONE SKIP"`
}

// TaskService records task completions and applies their effects.
type TaskService struct {
	store TaskStore
	now   func() time.Time
	log   *logrus.Entry
}

// NewTaskService creates a task service.
func NewTaskService(store TaskStore, now func() time.Time, logger logrus.FieldLogger) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{store: store, now: now, log: logging.Component(logger, "TaskService")}
}

// Record stores the outcome. A DONE outcome for the review, insta, blog or
// event group also stamps the matching activity.
func (s *TaskService) Record(ctx context.Context, operatorID string, entityID int64, out TaskOutcome) (*model.TodoEvent, error) {
	out.Group = strings.TrimSpace(out.Group)
	out.Text = strings.TrimSpace(out.Text)
	out.Status = model.TodoStatus(strings.ToUpper(string(out.Status)))
	if err := validate.Struct(out); err != nil {
		return nil, err
	}

	if _, err := s.store.GetEntity(ctx, operatorID, entityID); err != nil {
		return nil, err
	}

	now := s.now()
	ev := &model.TodoEvent{
		EntityID:   entityID,
		OperatorID: operatorID,
		Group:      out.Group,
		Text:       out.Text,
		Status:     out.Status,
		CreatedAt:  now,
	}
	if err := s.store.RecordTodoEvent(ctx, ev); err != nil {
		return nil, err
	}

	if ev.Status == model.TodoDone {
		if activity, ok := groupEffects[ev.Group]; ok {
			if err := s.store.TouchActivity(ctx, entityID, activity, now); err != nil {
				return nil, fmt.Errorf("failed to apply task effect: %w", err)
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"entity_id": entityID,
		"group":     ev.Group,
		"status":    ev.Status,
	}).Info("task recorded")
	return ev, nil
}
