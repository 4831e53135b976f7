package models

// BenchmarkScope selects which benchmark sets an analysis compares against
type BenchmarkScope string

const (
	BenchmarkIndustry    BenchmarkScope = "industry"
	BenchmarkCompanySize BenchmarkScope = "company_size"
	BenchmarkHistorical  BenchmarkScope = "historical"
	BenchmarkAll         BenchmarkScope = "all"
)

// BenchmarkData carries caller-supplied comparison values, keyed by metric
// name. Sets the caller does not supply stay nil and produce no comparisons;
// the engine never fabricates benchmark values.
type BenchmarkData struct {
	Industry    map[string]float64 `json:"industry,omitempty"`
	CompanySize map[string]float64 `json:"company_size,omitempty"`
	Historical  map[string]float64 `json:"historical,omitempty"`
}

// IsEmpty reports whether no benchmark set was supplied
func (b *BenchmarkData) IsEmpty() bool {
	return b == nil || (len(b.Industry) == 0 && len(b.CompanySize) == 0 && len(b.Historical) == 0)
}

// AnalysisPreferences gates which optional sections of an analysis are
// populated. Preferences never change core scoring.
type AnalysisPreferences struct {
	IncludeTrendAnalysis       bool           `json:"include_trend_analysis"`
	IncludeCompetitiveAnalysis bool           `json:"include_competitive_analysis"`
	IncludeStakeholderAnalysis bool           `json:"include_stakeholder_analysis"`
	BenchmarkAgainst           BenchmarkScope `json:"benchmark_against,omitempty"`
}

// DefaultAnalysisPreferences returns preferences with every section enabled
func DefaultAnalysisPreferences() AnalysisPreferences {
	return AnalysisPreferences{
		IncludeTrendAnalysis:       true,
		IncludeCompetitiveAnalysis: true,
		IncludeStakeholderAnalysis: true,
		BenchmarkAgainst:           BenchmarkAll,
	}
}
