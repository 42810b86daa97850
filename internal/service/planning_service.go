package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

const (
	planningCachePrefix  = "planning:heatmap:"
	planningCachePattern = planningCachePrefix + "*"
	defaultMaxWeeks      = 26
)

type planningRepository interface {
	WeeklyHours(ctx context.Context, filter models.HeatmapFilter) ([]models.HeatmapCell, error)
}

type planningCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// PlanningConfig tunes the heatmap.
type PlanningConfig struct {
	CacheTTL time.Duration
	MaxWeeks int
}

// PlanningService builds the weekly hours heatmap.
type PlanningService struct {
	repo      planningRepository
	cache     planningCache
	cfg       PlanningConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanningService constructs the service; cache may be nil.
func NewPlanningService(repo planningRepository, cache planningCache, cfg PlanningConfig, validate *validator.Validate, logger *zap.Logger) *PlanningService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxWeeks <= 0 {
		cfg.MaxWeeks = defaultMaxWeeks
	}
	return &PlanningService{repo: repo, cache: cache, cfg: cfg, validator: validate, logger: logger}
}

// Heatmap returns assigned hours per person and week between from and to, both
// snapped to their Monday, and whether it was served from cache. Employees only see
// themselves.
func (s *PlanningService) Heatmap(ctx context.Context, query dto.HeatmapQuery, actor *models.JWTClaims) (*models.Heatmap, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, invalid(err, "invalid heatmap query")
	}
	if actor == nil {
		return nil, false, appErrors.ErrUnauthorized
	}
	from, err := models.ParseDate(query.From)
	if err != nil {
		return nil, false, invalid(err, "invalid from date")
	}
	to, err := models.ParseDate(query.To)
	if err != nil {
		return nil, false, invalid(err, "invalid to date")
	}
	from, to = from.WeekStart(), to.WeekStart()
	if to.Before(from.Time) {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}
	weeks := weekRange(from, to)
	if len(weeks) > s.cfg.MaxWeeks {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("range exceeds %d weeks", s.cfg.MaxWeeks))
	}

	personID := query.PersonID
	if actor.Role == models.RoleEmployee {
		if personID != "" && personID != actor.PersonID {
			return nil, false, appErrors.Clone(appErrors.ErrForbidden, "cannot view another person's planning")
		}
		personID = actor.PersonID
	}

	key := heatmapKey(from, to, personID)
	if s.cache != nil {
		var cached models.Heatmap
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, true, nil
		}
	}

	cells, err := s.repo.WeeklyHours(ctx, models.HeatmapFilter{From: from, To: to, PersonID: personID})
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load planning")
	}
	heatmap := buildHeatmap(from, to, weeks, cells)

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, heatmap, s.cfg.CacheTTL)
	}
	return heatmap, false, nil
}

func heatmapKey(from, to models.Date, personID string) string {
	if personID == "" {
		personID = "all"
	}
	return planningCachePrefix + from.String() + ":" + to.String() + ":" + personID
}

func weekRange(from, to models.Date) []string {
	var weeks []string
	for d := from; !d.After(to.Time); d = models.NewDate(d.AddDate(0, 0, 7)) {
		weeks = append(weeks, d.String())
	}
	return weeks
}

// buildHeatmap pivots cells into one row per person, keeping the cells' person order
// and filling weeks without assignments with zero.
func buildHeatmap(from, to models.Date, weeks []string, cells []models.HeatmapCell) *models.Heatmap {
	heatmap := &models.Heatmap{From: from, To: to, Weeks: weeks, Rows: []models.HeatmapRow{}}
	index := make(map[string]int)
	for _, cell := range cells {
		i, ok := index[cell.PersonID]
		if !ok {
			row := models.HeatmapRow{PersonID: cell.PersonID, PersonName: cell.PersonName, Weeks: make(map[string]float64, len(weeks))}
			for _, w := range weeks {
				row.Weeks[w] = 0
			}
			heatmap.Rows = append(heatmap.Rows, row)
			i = len(heatmap.Rows) - 1
			index[cell.PersonID] = i
		}
		row := &heatmap.Rows[i]
		row.Weeks[cell.Week.String()] += cell.Hours
		row.Total += cell.Hours
	}
	return heatmap
}

// invalidatePlanning drops cached heatmaps after a change to assigned hours.
func invalidatePlanning(ctx context.Context, cache cacheInvalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, planningCachePattern); err != nil {
		logger.Warn("failed to invalidate planning cache", zap.Error(err))
	}
}
