package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"owners-health-api/internal/cache"
	"owners-health-api/internal/llm"
	"owners-health-api/internal/logging"
	"owners-health-api/internal/model"
	"owners-health-api/internal/repository"
)

// Feature names a kind of generated text.
type Feature string

const (
	FeaturePlaceKeywords Feature = "place_keywords"
	FeaturePlaceDesc     Feature = "place_desc"
	FeatureWayGuide      Feature = "way_guide"
	FeatureParkingGuide  Feature = "parking_guide"
	FeaturePlaceQA       Feature = "place_qa"
	FeatureReviewReply   Feature = "review_reply"
	FeatureBlogPost      Feature = "blog_post"
	FeatureInstaCaption  Feature = "insta_caption"
	FeatureEventPlan     Feature = "event_plan"
)

// featureDef describes how a feature prompts and what it marks as done.
type featureDef struct {
	title    string
	flag     model.Flag
	activity model.Activity
	prompt   func(e *model.Entity, input string) string
}

func storeLine(e *model.Entity) string {
	return fmt.Sprintf("Store: %s, category: %s, address: %s, signature: %s", e.Name, categoryLabel(e), e.Address, e.Signature)
}

func categoryLabel(e *model.Entity) string {
	if e.Subcategory == "" {
		return e.Category
	}
	return e.Category + " > " + e.Subcategory
}

var features = map[Feature]featureDef{
	FeaturePlaceKeywords: {
		title: "Place keywords",
		flag:  model.FlagKeywords,
		prompt: func(e *model.Entity, _ string) string {
			return storeLine(e) + ". Suggest 5 SEO keywords for a local place listing (format: #keyword1 #keyword2 ...)."
		},
	},
	FeaturePlaceDesc: {
		title: "Place description",
		flag:  model.FlagPlaceDesc,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("%s, strengths: %s, target customers: %s. Details: %s. Write a trustworthy, professional place description.",
				storeLine(e), e.Strengths, e.Target, input)
		},
	},
	FeatureWayGuide: {
		title: "Directions",
		flag:  model.FlagWayGuide,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("%s. Landmarks and notes: %s. Write short, friendly directions to the store.", storeLine(e), input)
		},
	},
	FeatureParkingGuide: {
		title: "Parking guide",
		flag:  model.FlagParkingGuide,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("%s. Parking situation: %s. Write a concise, clear parking notice.", storeLine(e), input)
		},
	},
	FeaturePlaceQA: {
		title:    "Place Q&A",
		activity: model.ActivityPlaceQA,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("As a local listing expert, answer: %s. Store: %s. Keep it professional and brief.", input, e.Name)
		},
	},
	FeatureReviewReply: {
		title:    "Review reply",
		activity: model.ActivityReviewReply,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("You are the thoughtful owner of %s (%s, signature: %s). Write a warm reply to this customer review:\n%q",
				e.Name, categoryLabel(e), e.Signature, input)
		},
	},
	FeatureBlogPost: {
		title:    "Blog campaign",
		activity: model.ActivityBlogPost,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("Store: %s, category: %s, benefits: %s. Write a blog reviewer recruitment post with conditions and visit details.",
				e.Name, categoryLabel(e), input)
		},
	},
	FeatureInstaCaption: {
		title:    "Instagram caption",
		activity: model.ActivityInstaCaption,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("%s. Photo description: %s. Write one Instagram caption and 12 hashtags.", storeLine(e), input)
		},
	},
	FeatureEventPlan: {
		title:    "Event plan",
		activity: model.ActivityEventPlan,
		prompt: func(e *model.Entity, input string) string {
			return fmt.Sprintf("%s, target customers: %s. Goal and theme: %s. Plan one event with a title, mechanics, period and promotion copy.",
				storeLine(e), e.Target, input)
		},
	},
}

// Features lists the supported features in name order.
func Features() []Feature {
	out := make([]Feature, 0, len(features))
	for f := range features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GenerationRequest asks for one generated text.
type GenerationRequest struct {
	Feature Feature `json:"feature" validate:"required"`
	Input   string  `json:"input" validate:"max=2000"`

	// Refresh drops a cached text for the same request and generates anew.
	Refresh bool `json:"refresh"`
}

// GenerationResult is the generated text and where it came from.
type GenerationResult struct {
	Feature   Feature `json:"feature"`
	Title     string  `json:"title"`
	Text      string  `json:"text"`
	Cached    bool    `json:"cached"`
	HistoryID int64   `json:"history_id,omitempty"`
}

// GenerationStore is the storage GenerationService needs.
type GenerationStore interface {
	repository.EntityRepository
	repository.ChecklistRepository
	repository.HistoryRepository
}

// GenerationOptions tunes GenerationService.
type GenerationOptions struct {
	CacheTTL time.Duration
	LockTTL  time.Duration
	Locker   *redislock.Client
	Now      func() time.Time
}

// GenerationService produces marketing texts, caches them, keeps history
// and marks the matching checklist item as done.
type GenerationService struct {
	store    GenerationStore
	gen      llm.Generator
	cache    cache.Cache
	locker   *redislock.Client
	cacheTTL time.Duration
	lockTTL  time.Duration
	now      func() time.Time
	log      *logrus.Entry
}

// NewGenerationService creates a generation service. A nil locker skips
// cross-instance locking.
func NewGenerationService(store GenerationStore, gen llm.Generator, c cache.Cache, opts GenerationOptions, logger logrus.FieldLogger) *GenerationService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 90 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GenerationService{
		store:    store,
		gen:      gen,
		cache:    c,
		locker:   opts.Locker,
		cacheTTL: opts.CacheTTL,
		lockTTL:  opts.LockTTL,
		now:      opts.Now,
		log:      logging.Component(logger, "GenerationService"),
	}
}

func cacheKey(entityID int64, f Feature, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("gen:%d:%s:%s", entityID, f, hex.EncodeToString(sum[:16]))
}

// Generate produces the text for req. Identical requests within the cache
// TTL reuse the earlier text without calling the provider or adding history,
// unless req.Refresh is set.
func (s *GenerationService) Generate(ctx context.Context, operatorID string, entityID int64, req GenerationRequest) (*GenerationResult, error) {
	req.Input = strings.TrimSpace(req.Input)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	def, ok := features[req.Feature]
	if !ok {
		return nil, fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, req.Feature)
	}

	e, err := s.store.GetEntity(ctx, operatorID, entityID)
	if err != nil {
		return nil, err
	}

	prompt := def.prompt(e, req.Input)
	key := cacheKey(entityID, req.Feature, prompt)
	result := &GenerationResult{Feature: req.Feature, Title: def.title}

	if req.Refresh {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.WithError(err).Warn("failed to drop cached text")
		}
	}

	var generated bool
	value, err := s.cache.GetOrSet(ctx, key, s.cacheTTL, func() ([]byte, error) {
		release := s.lock(ctx, entityID, req.Feature)
		defer release()

		// Whoever held the lock may have filled the key meanwhile.
		if text, ok := s.cached(ctx, key); ok {
			return []byte(text), nil
		}

		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return nil, err
		}
		generated = true
		return []byte(text), nil
	})
	if err != nil {
		if !generated {
			if !errors.Is(err, llm.ErrGenerationUnavailable) {
				logging.LogError(s.log, "GenerationService", "Generate", "provider call", map[string]interface{}{
					"entity_id": entityID, "feature": req.Feature,
				}, err)
			}
			return nil, err
		}
		s.log.WithError(err).Warn("failed to cache generated text")
	}

	result.Text = string(value)
	if !generated {
		result.Cached = true
		return result, s.applyEffect(ctx, entityID, def)
	}

	h := &model.HistoryEntry{
		EntityID:   entityID,
		OperatorID: operatorID,
		Feature:    string(req.Feature),
		Title:      def.title,
		Input:      req.Input,
		Output:     result.Text,
		CreatedAt:  s.now(),
	}
	if err := s.store.SaveHistory(ctx, h); err != nil {
		return nil, err
	}
	result.HistoryID = h.ID

	return result, s.applyEffect(ctx, entityID, def)
}

func (s *GenerationService) cached(ctx context.Context, key string) (string, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WithError(err).Warn("cache read failed")
		}
		return "", false
	}
	return string(value), true
}

// lock takes a best-effort lock so that concurrent identical requests on
// different instances wait for the first one and then hit the cache. When
// the lock is unavailable generation proceeds without it.
func (s *GenerationService) lock(ctx context.Context, entityID int64, f Feature) func() {
	noop := func() {}
	if s.locker == nil {
		return noop
	}

	key := fmt.Sprintf("lock:gen:%d:%s", entityID, f)
	lock, err := s.locker.Obtain(ctx, key, s.lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(250*time.Millisecond), 40),
	})
	if err != nil {
		entry := s.log.WithFields(logrus.Fields{"entity_id": entityID, "feature": f})
		if errors.Is(err, redislock.ErrNotObtained) {
			entry.Warn("could not obtain generation lock; proceeding without lock")
		} else {
			entry.WithError(err).Warn("error obtaining generation lock; proceeding without lock")
		}
		return noop
	}

	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			s.log.WithError(err).Warn("failed to release generation lock")
		}
	}
}

func (s *GenerationService) applyEffect(ctx context.Context, entityID int64, def featureDef) error {
	if def.flag != "" {
		if err := s.store.SetFlags(ctx, entityID, map[model.Flag]bool{def.flag: true}); err != nil {
			return fmt.Errorf("failed to apply generation effect: %w", err)
		}
	}
	if def.activity != "" {
		if err := s.store.TouchActivity(ctx, entityID, def.activity, s.now()); err != nil {
			return fmt.Errorf("failed to apply generation effect: %w", err)
		}
	}
	return nil
}

// History lists recent generated texts of an entity.
func (s *GenerationService) History(ctx context.Context, operatorID string, entityID int64, filter repository.HistoryFilter) ([]model.HistoryEntry, error) {
	if _, err := s.store.GetEntity(ctx, operatorID, entityID); err != nil {
		return nil, err
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.store.RecentHistory(ctx, operatorID, entityID, filter)
}
