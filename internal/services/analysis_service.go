// filepath: internal/services/analysis_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"trialdb/internal/config"
	"trialdb/internal/logging"
	"trialdb/internal/metrics"
	"trialdb/internal/models"
	"trialdb/internal/repository"
	"trialdb/internal/stats"
)

var _ AnalysisService = (*analysisService)(nil)

// analysisService answers the analytical questions from the loaded store.
// It holds no state between calls; the store is opened per query so that a
// store replaced by a later load is picked up.
type analysisService struct {
	Cfg     *config.Config
	Metrics *metrics.Metrics
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(cfg *config.Config, m *metrics.Metrics) *analysisService {
	return &analysisService{
		Cfg:     cfg,
		Metrics: m,
	}
}

// openStore opens the configured store for reading.
func openStore(path string) (*repository.Repository, error) {
	repo, err := repository.OpenExisting(path)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) || errors.Is(err, repository.ErrStoreNotInitialized) {
			return nil, fmt.Errorf("%w: %w", ErrStoreNotLoaded, err)
		}
		return nil, err
	}
	return repo, nil
}

func (s *analysisService) filter() models.CohortFilter {
	return models.CohortFilter{
		Condition:  s.Cfg.Analysis.Condition,
		Treatment:  s.Cfg.Analysis.Treatment,
		SampleType: s.Cfg.Analysis.SampleType,
	}
}

// Overview returns the relative frequency of every population in every sample.
func (s *analysisService) Overview(ctx context.Context) ([]models.OverviewRow, error) {
	defer s.Metrics.ObserveQuery("overview", time.Now())

	repo, err := openStore(s.Cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	counts, err := repo.GetCellCounts(ctx)
	if err != nil {
		logging.Log.Errorf("AnalysisService: Overview query failed: %v", err)
		return nil, err
	}

	rows := make([]models.OverviewRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, models.OverviewRow{
			Sample:     c.Sample,
			TotalCount: c.TotalCount,
			Population: c.Population,
			Count:      c.Count,
			Percentage: models.Percentage(c.Count, c.TotalCount),
		})
	}
	return rows, nil
}

// Comparison returns the cohort rows and a responder vs non-responder
// Mann-Whitney U test per population.
func (s *analysisService) Comparison(ctx context.Context) (*models.ComparisonResult, error) {
	defer s.Metrics.ObserveQuery("comparison", time.Now())

	repo, err := openStore(s.Cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	f := s.filter()
	counts, err := repo.GetCohortCellCounts(ctx, f)
	if err != nil {
		logging.Log.Errorf("AnalysisService: Comparison query failed: %v", err)
		return nil, err
	}

	result := &models.ComparisonResult{
		Filter: f,
		Alpha:  s.Cfg.Analysis.Alpha,
		Rows:   make([]models.ComparisonRow, 0, len(counts)),
	}
	for _, c := range counts {
		result.Rows = append(result.Rows, models.ComparisonRow{
			Sample:                 c.Sample,
			Subject:                c.Subject,
			Response:               c.Response,
			TimeFromTreatmentStart: c.TimeFromTreatmentStart,
			Population:             c.Population,
			Count:                  c.Count,
			Percentage:             models.Percentage(c.Count, c.TotalCount),
		})
	}
	result.Stats = compareResponders(result.Rows, result.Alpha)
	return result, nil
}

// compareResponders runs one test per population in AllPopulations order.
// Rows whose response is neither yes nor no take no part in the test.
func compareResponders(rows []models.ComparisonRow, alpha float64) []models.PopulationStat {
	yes := make(map[models.Population][]float64)
	no := make(map[models.Population][]float64)
	for _, r := range rows {
		if r.Response == nil {
			continue
		}
		switch *r.Response {
		case models.ResponseYes:
			yes[r.Population] = append(yes[r.Population], r.Percentage)
		case models.ResponseNo:
			no[r.Population] = append(no[r.Population], r.Percentage)
		}
	}

	out := make([]models.PopulationStat, 0, len(models.AllPopulations))
	for _, p := range models.AllPopulations {
		stat := models.PopulationStat{
			Population:    p,
			Responders:    len(yes[p]),
			NonResponders: len(no[p]),
		}
		res, err := stats.MannWhitneyU(yes[p], no[p])
		if err != nil {
			stat.Error = err.Error()
			out = append(out, stat)
			continue
		}
		u := res.U
		pv := stats.Round(res.PValue, 6)
		stat.Statistic = &u
		stat.PValue = &pv
		stat.Significant = res.PValue < alpha
		out = append(out, stat)
	}
	return out
}

// SubsetBreakdown tabulates the baseline samples of the cohort by project,
// and their subjects by response and by sex.
func (s *analysisService) SubsetBreakdown(ctx context.Context) (*models.SubsetBreakdown, error) {
	defer s.Metrics.ObserveQuery("subset", time.Now())

	repo, err := openStore(s.Cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	f := s.filter()
	out := &models.SubsetBreakdown{Filter: f}
	if out.ProjectCounts, err = repo.CountBaselineBy(ctx, f, repository.GroupProject, false); err != nil {
		return nil, err
	}
	if out.ResponseCounts, err = repo.CountBaselineBy(ctx, f, repository.GroupResponse, true); err != nil {
		return nil, err
	}
	if out.SexCounts, err = repo.CountBaselineBy(ctx, f, repository.GroupSex, true); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadInfo returns the most recent load run, or nil if the store records none.
func (s *analysisService) LoadInfo(ctx context.Context) (*models.LoadRun, error) {
	repo, err := openStore(s.Cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	return repo.GetLatestLoadRun(ctx)
}
