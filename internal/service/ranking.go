// internal/service/ranking.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/metrics"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	hoursPerVolunteer  = 4
	treesPerCommunity  = 1000
	summaryProjectsMax = 5
)

type RankedCompany struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	IndustryType      model.IndustryType `json:"industry_type"`
	Region            model.Region       `json:"region"`
	City              string             `json:"city"`
	Country           string             `json:"country"`
	ImpactDescription string             `json:"impact_description,omitempty"`
}

type EnvironmentalImpact struct {
	TreesPlanted decimal.Decimal `json:"trees_planted"`
	CO2Kg        decimal.Decimal `json:"co2_kg"`
	WaterLiters  decimal.Decimal `json:"water_liters"`
}

// SocialImpact carries estimates: four hours per volunteer and one community
// per thousand trees, rounded up.
type SocialImpact struct {
	Volunteers           decimal.Decimal `json:"volunteers"`
	VolunteerHours       decimal.Decimal `json:"volunteer_hours"`
	CommunitiesBenefited int64           `json:"communities_benefited"`
}

type RankingEntry struct {
	Position      int                 `json:"position"`
	Company       RankedCompany       `json:"company"`
	TotalPoints   int64               `json:"total_points"`
	Totals        impact.Bundle       `json:"totals"`
	Environmental EnvironmentalImpact `json:"environmental_impact"`
	Social        SocialImpact        `json:"social_impact"`
}

type RankingStatistics struct {
	TotalCompanies int             `json:"total_companies"`
	TotalPoints    int64           `json:"total_points"`
	AverageTrees   decimal.Decimal `json:"average_trees"`
	AverageWater   decimal.Decimal `json:"average_water"`
}

type Ranking struct {
	Region       model.Region       `json:"region,omitempty"`
	IndustryType model.IndustryType `json:"industry_type,omitempty"`
	Entries      []RankingEntry     `json:"ranking"`
	Statistics   RankingStatistics  `json:"statistics"`
}

type StatsTotals struct {
	Companies int   `json:"companies"`
	Points    int64 `json:"points"`
	impact.Bundle
}

type RegionCount struct {
	Region    model.Region `json:"region"`
	Companies int          `json:"companies"`
}

type IndustryTypeCount struct {
	IndustryType model.IndustryType `json:"industry_type"`
	Companies    int                `json:"companies"`
}

type Stats struct {
	Totals         StatsTotals         `json:"totals"`
	AveragePoints  decimal.Decimal     `json:"average_points"`
	ByRegion       []RegionCount       `json:"by_region"`
	ByIndustryType []IndustryTypeCount `json:"by_industry_type"`
}

type ProjectBrief struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type ProjectMetrics struct {
	TotalVolunteers decimal.Decimal `json:"total_volunteers"`
	TotalTrees      decimal.Decimal `json:"total_trees"`
}

type ProjectsSummary struct {
	Total   int64          `json:"total"`
	Latest  []ProjectBrief `json:"latest"`
	Metrics ProjectMetrics `json:"metrics"`
}

type VisualizationMetric struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit,omitempty"`
	Icon  string          `json:"icon"`
}

// CompanySummary is the executive summary of one company.
type CompanySummary struct {
	Company       RankedCompany         `json:"company"`
	Impact        *model.CompanyImpact  `json:"impact"`
	Projects      ProjectsSummary       `json:"projects"`
	Visualization []VisualizationMetric `json:"visualization"`
}

type RankingService struct {
	impactRepo  repository.ImpactRepositoryIface
	companyRepo repository.CompanyRepositoryIface
	projectRepo repository.ProjectRepositoryIface
	aggregator  *ImpactAggregator
	cache       *CacheService
	metrics     *metrics.Metrics
}

// NewRankingService wires the ranking service. cache and m may be nil.
func NewRankingService(
	impactRepo repository.ImpactRepositoryIface,
	companyRepo repository.CompanyRepositoryIface,
	projectRepo repository.ProjectRepositoryIface,
	aggregator *ImpactAggregator,
	cache *CacheService,
	m *metrics.Metrics,
) *RankingService {
	return &RankingService{
		impactRepo:  impactRepo,
		companyRepo: companyRepo,
		projectRepo: projectRepo,
		aggregator:  aggregator,
		cache:       cache,
		metrics:     m,
	}
}

// General ranks every company with accumulated impact.
func (s *RankingService) General(ctx context.Context) (*Ranking, error) {
	return s.ranking(ctx, RankingKeyPrefix+"general", repository.RankingFilter{})
}

func (s *RankingService) ByRegion(ctx context.Context, region model.Region) (*Ranking, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("%w: %w %q", domain.ErrInvalidInput, domain.ErrInvalidRegion, region)
	}
	return s.ranking(ctx, RankingKeyPrefix+"region:"+string(region), repository.RankingFilter{Region: region})
}

func (s *RankingService) ByIndustryType(ctx context.Context, industryType model.IndustryType) (*Ranking, error) {
	if !industryType.Valid() {
		return nil, fmt.Errorf("%w: %w %q", domain.ErrInvalidInput, domain.ErrInvalidIndustryType, industryType)
	}
	return s.ranking(ctx, RankingKeyPrefix+"type:"+string(industryType), repository.RankingFilter{IndustryType: industryType})
}

func (s *RankingService) ranking(ctx context.Context, key string, filter repository.RankingFilter) (*Ranking, error) {
	var ranking Ranking
	err := s.cached(ctx, key, &ranking, func() (interface{}, error) {
		records, err := s.impactRepo.FindForRanking(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("loading ranking: %w", err)
		}
		return BuildRanking(records, filter), nil
	})
	if err != nil {
		return nil, err
	}
	return &ranking, nil
}

// BuildRanking orders records by points, highest first, breaking ties by
// company ID, and numbers them from 1.
func BuildRanking(records []*model.CompanyImpact, filter repository.RankingFilter) *Ranking {
	sorted := make([]*model.CompanyImpact, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		return sorted[i].CompanyID.String() < sorted[j].CompanyID.String()
	})

	ranking := &Ranking{
		Region:       filter.Region,
		IndustryType: filter.IndustryType,
		Entries:      make([]RankingEntry, 0, len(sorted)),
	}

	var trees, water decimal.Decimal
	for i, rec := range sorted {
		b := rec.Bundle()
		ranking.Entries = append(ranking.Entries, RankingEntry{
			Position:    i + 1,
			Company:     rankedCompany(rec.CompanyID, rec.Company),
			TotalPoints: rec.TotalPoints,
			Totals:      b,
			Environmental: EnvironmentalImpact{
				TreesPlanted: b.TreesPlanted,
				CO2Kg:        b.CO2Kg,
				WaterLiters:  b.WaterLiters,
			},
			Social: SocialImpact{
				Volunteers:           b.Volunteers,
				VolunteerHours:       b.Volunteers.Mul(decimal.NewFromInt(hoursPerVolunteer)),
				CommunitiesBenefited: b.TreesPlanted.Div(decimal.NewFromInt(treesPerCommunity)).Ceil().IntPart(),
			},
		})
		ranking.Statistics.TotalPoints += rec.TotalPoints
		trees = trees.Add(b.TreesPlanted)
		water = water.Add(b.WaterLiters)
	}

	ranking.Statistics.TotalCompanies = len(sorted)
	ranking.Statistics.AverageTrees = average(trees, len(sorted)).Floor()
	ranking.Statistics.AverageWater = average(water, len(sorted)).Floor()
	return ranking
}

// Stats aggregates every company with accumulated impact.
func (s *RankingService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := s.cached(ctx, RankingKeyPrefix+"stats", &stats, func() (interface{}, error) {
		records, err := s.impactRepo.FindForRanking(ctx, repository.RankingFilter{})
		if err != nil {
			return nil, fmt.Errorf("loading statistics: %w", err)
		}
		return BuildStats(records), nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func BuildStats(records []*model.CompanyImpact) *Stats {
	stats := &Stats{}
	regions := map[model.Region]int{}
	types := map[model.IndustryType]int{}

	for _, rec := range records {
		stats.Totals.Companies++
		stats.Totals.Points += rec.TotalPoints
		stats.Totals.Bundle = stats.Totals.Bundle.Add(rec.Bundle())
		if rec.Company != nil {
			regions[rec.Company.Region]++
			types[rec.Company.IndustryType]++
		}
	}

	stats.AveragePoints = average(decimal.NewFromInt(stats.Totals.Points), stats.Totals.Companies).Round(2)

	stats.ByRegion = make([]RegionCount, 0, len(regions))
	for region, n := range regions {
		stats.ByRegion = append(stats.ByRegion, RegionCount{Region: region, Companies: n})
	}
	sort.Slice(stats.ByRegion, func(i, j int) bool { return stats.ByRegion[i].Region < stats.ByRegion[j].Region })

	stats.ByIndustryType = make([]IndustryTypeCount, 0, len(types))
	for t, n := range types {
		stats.ByIndustryType = append(stats.ByIndustryType, IndustryTypeCount{IndustryType: t, Companies: n})
	}
	sort.Slice(stats.ByIndustryType, func(i, j int) bool {
		return stats.ByIndustryType[i].IndustryType < stats.ByIndustryType[j].IndustryType
	})

	return stats
}

// Summary builds the company's executive summary: accumulated impact, latest
// projects and the figures shown on its public card.
func (s *RankingService) Summary(ctx context.Context, companyID uuid.UUID) (*CompanySummary, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	rec, err := s.aggregator.GetAccumulated(ctx, companyID)
	if err != nil {
		return nil, err
	}

	projects, total, err := s.projectRepo.FindLatestByCompany(ctx, companyID, summaryProjectsMax)
	if err != nil {
		return nil, err
	}

	summary := &CompanySummary{
		Company: rankedCompany(company.ID, company),
		Impact:  rec,
		Projects: ProjectsSummary{
			Total:  total,
			Latest: make([]ProjectBrief, 0, len(projects)),
			Metrics: ProjectMetrics{
				TotalVolunteers: decimal.Zero,
				TotalTrees:      decimal.Zero,
			},
		},
		Visualization: []VisualizationMetric{},
	}

	for _, p := range projects {
		summary.Projects.Latest = append(summary.Projects.Latest, ProjectBrief{
			ID:          p.ID,
			Name:        p.Name,
			Date:        p.Date,
			Description: p.Description,
		})
		for _, e := range p.Entries {
			metric := impact.NormalizeMetric(e.Metric)
			value := impact.ParseValue(e.Value)
			if strings.Contains(metric, "voluntario") {
				summary.Projects.Metrics.TotalVolunteers = summary.Projects.Metrics.TotalVolunteers.Add(value)
			}
			if strings.Contains(metric, "arbol") {
				summary.Projects.Metrics.TotalTrees = summary.Projects.Metrics.TotalTrees.Add(value)
			}
		}
	}

	// A record that was never stored has no creation time.
	if rec.CreatedAt.IsZero() {
		return summary, nil
	}

	summary.Visualization = []VisualizationMetric{
		{Name: "Árboles plantados", Value: rec.TreesPlanted, Icon: "🌳"},
		{Name: "Litros de agua", Value: rec.WaterLiters, Unit: "L", Icon: "💧"},
		{Name: "CO₂ capturado", Value: rec.CO2Kg, Unit: "kg", Icon: "🌱"},
		{Name: "Botellas PET", Value: rec.BottlesRecycled, Icon: "♻️"},
		{Name: "Voluntarios", Value: rec.Volunteers, Icon: "👥"},
		{Name: "Uniformes reciclados", Value: rec.UniformsRecycled, Icon: "👕"},
	}
	return summary, nil
}

// cached serves key from the ranking cache, filling it with fetch on a miss.
func (s *RankingService) cached(ctx context.Context, key string, result interface{}, fetch func() (interface{}, error)) error {
	if s.cache == nil {
		value, err := fetch()
		if err != nil {
			return err
		}
		return assignValue(value, result)
	}

	hit, err := s.cache.GetOrSet(ctx, key, result, fetch)
	if err != nil {
		return err
	}
	s.metrics.RankingCacheLookup(hit)
	return nil
}

func rankedCompany(id uuid.UUID, c *model.Company) RankedCompany {
	if c == nil {
		return RankedCompany{ID: id}
	}
	return RankedCompany{
		ID:                id,
		Name:              c.Name,
		IndustryType:      c.IndustryType,
		Region:            c.Region,
		City:              c.City,
		Country:           c.Country,
		ImpactDescription: c.ImpactDescription,
	}
}

func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}
