package core

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"sensor_features/internal/domain/model"
	"sensor_features/internal/domain/repository"
)

// FeatureService собирает итоговую таблицу признаков: счётчики по
// интервалам -> VAR-коэффициенты по каждому дому -> объединение с флагами
// наличия комнат в одну строку на дом.
type FeatureService struct {
	counter  IntervalCounter
	fitter   SeriesFitter
	presence PresenceExtractor

	recorder repository.FeatureRecorder
	saveRows bool
	logger   *zap.Logger
}

func NewFeatureService(recorder repository.FeatureRecorder, saveRows bool, logger *zap.Logger) *FeatureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeatureService{
		recorder: recorder,
		saveRows: saveRows,
		logger:   logger,
	}
}

// homeResult — итог обработки одного дома воркером.
type homeResult struct {
	homeID string
	coeffs model.CoefficientMatrix
	err    error
}

// Assemble превращает журнал событий в таблицу признаков: одна строка на
// каждый дом из входа. Ошибки конфигурации фатальны для всего запуска;
// дом, по которому не удалось оценить модель, исключается из таблицы и
// попадает в диагностику, не затрагивая остальные дома.
func (s *FeatureService) Assemble(
	ctx context.Context,
	events []model.Event,
	cfg model.Config,
) (*model.FeatureTable, []model.HomeDiagnostic, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, nil, err
	}
	// Пустой вход — корректный результат, а не сбой.
	if len(events) == 0 {
		return &model.FeatureTable{}, nil, nil
	}

	flags := s.presence.Flags(events, cfg.PresencePredicates)

	// Группировка событий временных рядов: дом -> комната -> события.
	byHome := make(map[string]map[string][]model.Event)
	homeIDs := make([]string, 0, len(flags))
	for homeID := range flags {
		homeIDs = append(homeIDs, homeID)
	}
	sort.Strings(homeIDs)
	for _, ev := range events {
		if !matchesAny(ev.Location, cfg.SeriesLocations) {
			continue
		}
		locs, ok := byHome[ev.HomeID]
		if !ok {
			locs = make(map[string][]model.Event)
			byHome[ev.HomeID] = locs
		}
		locs[ev.Location] = append(locs[ev.Location], ev)
	}

	results := s.fitHomes(ctx, homeIDs, byHome, cfg)

	var diags []model.HomeDiagnostic
	failed := make(map[string]bool)
	perHome := make(map[string]model.CoefficientMatrix, len(results))
	for _, res := range results {
		if res.err != nil {
			s.logger.Warn("home excluded from feature table",
				zap.String("home_id", res.homeID),
				zap.Error(res.err))
			diags = append(diags, model.HomeDiagnostic{
				HomeID: res.homeID,
				Stage:  "fit",
				Err:    res.err.Error(),
			})
			failed[res.homeID] = true
			continue
		}
		perHome[res.homeID] = res.coeffs
	}
	// Воркеры завершаются в произвольном порядке, диагностика сортируется.
	sort.Slice(diags, func(i, j int) bool { return diags[i].HomeID < diags[j].HomeID })

	table := buildTable(homeIDs, perHome, failed, flags, cfg)

	if s.saveRows && s.recorder != nil {
		if err := s.recorder.SaveFeatures(ctx, table, diags); err != nil {
			s.logger.Warn("failed to persist feature batch", zap.Error(err))
		}
	}

	return table, diags, nil
}

// fitHomes раздаёт дома по воркерам; дома независимы, слияние результатов
// не зависит от порядка обработки.
func (s *FeatureService) fitHomes(
	ctx context.Context,
	homeIDs []string,
	byHome map[string]map[string][]model.Event,
	cfg model.Config,
) []homeResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(homeIDs) {
		workers = len(homeIDs)
	}

	jobs := make(chan string)
	out := make(chan homeResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for homeID := range jobs {
				out <- s.fitHome(homeID, byHome[homeID], cfg)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, homeID := range homeIDs {
			select {
			case jobs <- homeID:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]homeResult, 0, len(homeIDs))
	for res := range out {
		results = append(results, res)
	}
	return results
}

// fitHome строит ряды счётчиков по комнатам дома и оценивает VAR-модель.
// Дом без событий в отслеживаемых комнатах остаётся в таблице только с
// флагами (нулевая матрица коэффициентов).
func (s *FeatureService) fitHome(homeID string, byLocation map[string][]model.Event, cfg model.Config) homeResult {
	if len(byLocation) == 0 {
		return homeResult{homeID: homeID}
	}

	series := make(map[string][]model.CountPoint, len(byLocation))
	for loc, evs := range byLocation {
		series[loc] = s.counter.Count(evs, cfg.Start, cfg.End, cfg.Interval)
	}

	coeffs, err := s.fitter.Fit(series, cfg.Lag)
	if err != nil {
		return homeResult{homeID: homeID, err: err}
	}
	return homeResult{homeID: homeID, coeffs: coeffs}
}

// buildTable разворачивает матрицы коэффициентов в именованные колонки и
// присоединяет флаги наличия комнат. Набор колонок — объединение по всем
// домам; отсутствующий у дома коэффициент даёт 0, отсутствующий флаг — false.
func buildTable(
	homeIDs []string,
	perHome map[string]model.CoefficientMatrix,
	failed map[string]bool,
	flags map[string]model.PresenceFlags,
	cfg model.Config,
) *model.FeatureTable {
	flagNames := make([]string, 0, len(cfg.PresencePredicates))
	for name := range cfg.PresencePredicates {
		flagNames = append(flagNames, name)
	}
	sort.Strings(flagNames)

	coeffColumns := make(map[string]struct{})
	for _, coeffs := range perHome {
		for key := range coeffs {
			coeffColumns[columnName(key)] = struct{}{}
		}
	}
	coeffNames := make([]string, 0, len(coeffColumns))
	for name := range coeffColumns {
		coeffNames = append(coeffNames, name)
	}
	sort.Strings(coeffNames)

	columns := append(append([]string{}, flagNames...), coeffNames...)

	table := &model.FeatureTable{Columns: columns}
	for _, homeID := range homeIDs {
		if failed[homeID] {
			continue
		}
		// Дом без модели (нет событий в отслеживаемых комнатах) остаётся
		// в таблице: флаги плюс нулевые коэффициенты.
		coeffs := perHome[homeID]
		values := make(map[string]float64, len(columns))
		hf := flags[homeID]
		for _, name := range flagNames {
			if hf[name] {
				values[name] = 1
			} else {
				values[name] = 0
			}
		}
		for _, name := range coeffNames {
			values[name] = 0
		}
		for key, v := range coeffs {
			values[columnName(key)] = v
		}
		table.Rows = append(table.Rows, model.FeatureRow{HomeID: homeID, Values: values})
	}
	return table
}

// columnName — явная функция именования колонки по паре
// (целевая комната, регрессор).
func columnName(key model.CoefficientKey) string {
	return key.Target + " " + key.Regressor
}

func matchesAny(location string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(location, s) {
			return true
		}
	}
	return false
}

func validateConfig(cfg model.Config) error {
	if cfg.Lag < 1 {
		return errors.Wrapf(ErrConfiguration, "lag %d, want >= 1", cfg.Lag)
	}
	if cfg.Interval <= 0 {
		return errors.Wrapf(ErrConfiguration, "interval %s, want > 0", cfg.Interval)
	}
	if !cfg.Start.Before(cfg.End) {
		return errors.Wrapf(ErrConfiguration, "start %s is not before end %s", cfg.Start, cfg.End)
	}
	if cfg.Interval > cfg.End.Sub(cfg.Start) {
		return errors.Wrapf(ErrConfiguration, "interval %s is wider than span %s", cfg.Interval, cfg.End.Sub(cfg.Start))
	}
	return nil
}
