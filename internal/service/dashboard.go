package service

import (
	"context"
	"sort"
	"time"

	"owners-health-api/internal/engine"
	"owners-health-api/internal/model"
	"owners-health-api/internal/profile"
	"owners-health-api/internal/repository"
)

// DashboardStore is the storage DashboardService reads from.
type DashboardStore interface {
	repository.EntityRepository
	repository.ChecklistRepository
	repository.TodoEventRepository
}

// Dashboard is the complete health view of one entity at one instant.
type Dashboard struct {
	Entity    *model.Entity          `json:"entity"`
	Checklist *model.ChecklistRecord `json:"checklist"`
	DoneToday []string               `json:"done_today"`
	AsOf      time.Time              `json:"as_of"`
	engine.Assessment
}

// DashboardService assembles dashboards from stored state and the
// resolved profile.
type DashboardService struct {
	store    DashboardStore
	resolver *profile.Resolver
	now      func() time.Time
	loc      *time.Location
}

// NewDashboardService creates a dashboard service. loc decides where a
// day starts for "done today".
func NewDashboardService(store DashboardStore, resolver *profile.Resolver, loc *time.Location, now func() time.Time) *DashboardService {
	if resolver == nil {
		resolver = profile.NewResolver(nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardService{store: store, resolver: resolver, now: now, loc: loc}
}

// DayBounds returns the start of now's day in loc and the start of the next.
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Dashboard computes the view for an entity owned by operatorID.
func (s *DashboardService) Dashboard(ctx context.Context, operatorID string, entityID int64) (*Dashboard, error) {
	e, err := s.store.GetEntity(ctx, operatorID, entityID)
	if err != nil {
		return nil, err
	}

	ck, err := s.store.GetOrCreateChecklist(ctx, entityID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from, to := DayBounds(now, s.loc)
	done, err := s.store.DoneGroups(ctx, operatorID, entityID, from, to)
	if err != nil {
		return nil, err
	}

	p := s.resolver.Resolve(e.Category, e.Subcategory)

	doneList := make([]string, 0, len(done))
	for g := range done {
		doneList = append(doneList, g)
	}
	sort.Strings(doneList)

	return &Dashboard{
		Entity:     e,
		Checklist:  ck,
		DoneToday:  doneList,
		AsOf:       now,
		Assessment: engine.Assess(e, ck, p, done, now),
	}, nil
}

// Profile returns the resolved profile for a category pair.
func (s *DashboardService) Profile(category, subcategory string) profile.Profile {
	return s.resolver.Resolve(category, subcategory)
}
