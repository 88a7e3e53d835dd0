package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotforge/timetable-api/internal/dto"
	"github.com/slotforge/timetable-api/internal/models"
	"github.com/slotforge/timetable-api/internal/timetable"
	appErrors "github.com/slotforge/timetable-api/pkg/errors"
)

// TimetableConfig governs generation behaviour.
type TimetableConfig struct {
	DefaultOptionCount int
	MaxOptionCount     int
	OptionTTL          time.Duration
	Seed               int64
	CacheTTL           time.Duration
}

// TimetableService generates timetable option sets and serves their views.
// Option sets live in an in-memory TTL store; rendered tables are cached
// through the cache service when one is wired.
type TimetableService struct {
	validator *validator.Validate
	logger    *zap.Logger
	cache     *CacheService
	metrics   *MetricsService
	cfg       TimetableConfig
	store     *optionStore
	now       func() time.Time
}

// NewTimetableService wires the timetable generator.
func NewTimetableService(validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultOptionCount <= 0 {
		cfg.DefaultOptionCount = 3
	}
	if cfg.MaxOptionCount <= 0 {
		cfg.MaxOptionCount = 10
	}
	if cfg.OptionTTL <= 0 {
		cfg.OptionTTL = 30 * time.Minute
	}
	return &TimetableService{
		validator: validate,
		logger:    logger,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		store:     newOptionStore(cfg.OptionTTL),
		now:       time.Now,
	}
}

// Generate runs the allocation engine and stores the resulting option set.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}

	cfg := req.ToConfig()
	count := s.clampOptionCount(req.Options)
	seed := s.pickSeed(req.Seed)

	set, err := s.buildSet(ctx, cfg, count, seed)
	if err != nil {
		return nil, err
	}
	s.store.Save(*set)

	summary := s.summary(*set)
	return &summary, nil
}

// Regenerate reshuffles a stored configuration under a fresh seed and
// replaces the option set in place. Cached rendered views are invalidated.
func (s *TimetableService) Regenerate(ctx context.Context, id string, req dto.RegenerateTimetableRequest) (*dto.TimetableSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid regenerate payload")
	}
	existing, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found or expired")
	}

	count := existing.OptionCount()
	if req.Options > 0 {
		count = s.clampOptionCount(req.Options)
	}
	seed := s.pickSeed(req.Seed)

	set, err := s.buildSet(ctx, existing.Config, count, seed)
	if err != nil {
		return nil, err
	}
	set.ID = existing.ID
	s.store.Save(*set)

	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("timetable:%s:*", id)); err != nil {
			s.logger.Warn("failed to invalidate timetable cache", zap.String("id", id), zap.Error(err))
		}
	}

	summary := s.summary(*set)
	return &summary, nil
}

// Get returns one option of a stored set in the requested view mode.
func (s *TimetableService) Get(ctx context.Context, id string, option int, view models.ViewMode) (*dto.OptionView, error) {
	set, chosen, err := s.lookup(id, option, view)
	if err != nil {
		return nil, err
	}

	resp := &dto.OptionView{
		ID:     set.ID,
		Option: chosen.Index,
		View:   view,
		Grid:   set.Grid,
	}
	switch view {
	case models.ViewFaculty:
		resp.Faculties = chosen.Faculties
	default:
		resp.Batches = chosen.Batches
	}
	return resp, nil
}

// Tables returns display tables for one option and view mode. Rendered
// tables are cached per timetable, option and view.
func (s *TimetableService) Tables(ctx context.Context, id string, option int, view models.ViewMode) (*dto.TablesView, error) {
	cacheKey := fmt.Sprintf("timetable:%s:tables:%d:%s", id, option, view)
	if s.cache.Enabled() {
		var cached dto.TablesView
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	set, chosen, err := s.lookup(id, option, view)
	if err != nil {
		return nil, err
	}

	var tables []models.Table
	switch view {
	case models.ViewFaculty:
		tables = timetable.FormatFacultyTables(chosen.Faculties, set.Config, set.Grid)
	default:
		tables = timetable.FormatBatchTables(chosen.Batches, set.Config, set.Grid)
	}

	resp := &dto.TablesView{ID: set.ID, Option: chosen.Index, View: view, Tables: tables}
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	}
	return resp, nil
}

// Summary returns metadata for a stored option set.
func (s *TimetableService) Summary(id string) (*dto.TimetableSummary, error) {
	set, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found or expired")
	}
	summary := s.summary(set)
	return &summary, nil
}

func (s *TimetableService) buildSet(ctx context.Context, cfg models.Config, count int, seed int64) (*timetableSet, error) {
	start := s.now()
	grid := timetable.BuildGrid(cfg.Periods, cfg.Breaks)
	schedules := timetable.GenerateOptions(ctx, cfg, count, seed)
	if schedules == nil {
		if ctx.Err() != nil {
			return nil, appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation cancelled")
		}
		schedules = []models.BatchSchedule{}
	}

	options := make([]models.TimetableOption, 0, len(schedules))
	for i, batches := range schedules {
		options = append(options, models.TimetableOption{
			Index:     i + 1,
			Batches:   batches,
			Faculties: timetable.ProjectFaculty(batches, cfg, grid),
		})
	}

	now := s.now()
	set := &timetableSet{
		ID:        uuid.NewString(),
		Config:    cfg,
		Seed:      seed,
		Grid:      grid,
		Options:   options,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.OptionTTL),
	}

	if s.metrics != nil {
		s.metrics.ObserveGeneration(now.Sub(start), len(options), freeCellRatio(options))
	}
	s.logger.Info("generated timetable options",
		zap.String("id", set.ID),
		zap.Int("options", len(options)),
		zap.Int64("seed", seed),
		zap.Int("batches", len(cfg.Batches)),
	)
	return set, nil
}

func (s *TimetableService) lookup(id string, option int, view models.ViewMode) (timetableSet, models.TimetableOption, error) {
	if !view.Valid() {
		return timetableSet{}, models.TimetableOption{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown view mode %q", view))
	}
	set, ok := s.store.Get(id)
	if !ok {
		return timetableSet{}, models.TimetableOption{}, appErrors.Clone(appErrors.ErrNotFound, "timetable not found or expired")
	}
	if option <= 0 {
		option = 1
	}
	if option > len(set.Options) {
		return timetableSet{}, models.TimetableOption{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("option %d does not exist", option))
	}
	return set, set.Options[option-1], nil
}

func (s *TimetableService) clampOptionCount(requested int) int {
	count := requested
	if count <= 0 {
		count = s.cfg.DefaultOptionCount
	}
	if count > s.cfg.MaxOptionCount {
		count = s.cfg.MaxOptionCount
	}
	return count
}

func (s *TimetableService) pickSeed(requested *int64) int64 {
	if requested != nil {
		return *requested
	}
	if s.cfg.Seed != 0 {
		return s.cfg.Seed
	}
	return s.now().UnixNano()
}

func (s *TimetableService) summary(set timetableSet) dto.TimetableSummary {
	return dto.TimetableSummary{
		ID:          set.ID,
		OptionCount: len(set.Options),
		Seed:        set.Seed,
		CreatedAt:   set.CreatedAt,
		ExpiresAt:   set.ExpiresAt,
	}
}

// freeCellRatio reports the share of non-break cells left unassigned
// across all options of a set.
func freeCellRatio(options []models.TimetableOption) float64 {
	var free, total int
	for _, opt := range options {
		for _, days := range opt.Batches {
			for _, day := range days {
				for _, cell := range day {
					switch cell.Kind {
					case models.CellBreak:
					case models.CellFree:
						free++
						total++
					default:
						total++
					}
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(free) / float64(total)
}

// --- Option set cache ---

type timetableSet struct {
	ID        string
	Config    models.Config
	Seed      int64
	Grid      []models.TimeSlot
	Options   []models.TimetableOption
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (t timetableSet) OptionCount() int {
	return len(t.Options)
}

type optionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableSet
}

func newOptionStore(ttl time.Duration) *optionStore {
	return &optionStore{
		ttl:   ttl,
		items: make(map[string]timetableSet),
	}
}

func (s *optionStore) Save(set timetableSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[set.ID] = set
}

func (s *optionStore) Get(id string) (timetableSet, bool) {
	s.mu.RLock()
	set, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableSet{}, false
	}
	if time.Since(set.CreatedAt) > s.ttl {
		s.Delete(id)
		return timetableSet{}, false
	}
	return set, true
}

func (s *optionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
