package models

import "time"

// Dimension identifies one of the six deal-health facets
type Dimension string

const (
	DimensionEngagement    Dimension = "engagement"
	DimensionMomentum      Dimension = "momentum"
	DimensionCompetition   Dimension = "competition"
	DimensionStakeholder   Dimension = "stakeholder"
	DimensionQualification Dimension = "qualification"
	DimensionRisk          Dimension = "risk"
)

// AllDimensions returns the six dimensions in canonical order
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionEngagement,
		DimensionMomentum,
		DimensionCompetition,
		DimensionStakeholder,
		DimensionQualification,
		DimensionRisk,
	}
}

// DimensionScore represents the 0-100 score for one health facet
type DimensionScore struct {
	Score           float64            `json:"score"` // 0-100
	Metrics         map[string]float64 `json:"metrics"`
	Trend           string             `json:"trend"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

// Grade represents a letter classification of the composite score
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// RiskLevel represents the coarse risk classification of a deal
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Trend represents a directional label for recent movement
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendCritical  Trend = "critical"
)

// GradeBand maps a minimum composite score to a letter grade.
// Bands must be ordered by descending MinScore.
type GradeBand struct {
	MinScore float64 `json:"min_score" yaml:"min_score"`
	Grade    Grade   `json:"grade" yaml:"grade"`
}

// RiskBand maps a minimum composite score to a risk level.
// Bands must be ordered by descending MinScore.
type RiskBand struct {
	MinScore float64   `json:"min_score" yaml:"min_score"`
	Level    RiskLevel `json:"level" yaml:"level"`
}

// GradeForScore returns the grade for a composite score given ordered bands
func GradeForScore(score float64, bands []GradeBand) Grade {
	for _, band := range bands {
		if score >= band.MinScore {
			return band.Grade
		}
	}
	return GradeF
}

// RiskLevelForScore returns the risk level for a composite score given ordered bands
func RiskLevelForScore(score float64, bands []RiskBand) RiskLevel {
	for _, band := range bands {
		if score >= band.MinScore {
			return band.Level
		}
	}
	return RiskLevelCritical
}

// OverallHealth represents the aggregate health of a deal
type OverallHealth struct {
	CurrentScore  float64  `json:"current_score"` // 0-100
	PreviousScore *float64 `json:"previous_score,omitempty"`
	Trend         Trend    `json:"trend"`
	Grade         Grade    `json:"grade"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Confidence    float64  `json:"confidence"` // 0-1
}

// TrajectoryPoint represents one projected future score
type TrajectoryPoint struct {
	Week           int       `json:"week"`
	Date           time.Time `json:"date"`
	ProjectedScore float64   `json:"projected_score"` // 0-100
	Confidence     float64   `json:"confidence"`      // 0-1, decays with horizon
	KeyFactors     []string  `json:"key_factors,omitempty"`
}

// WarningSignal represents an early warning derived from the current analysis
type WarningSignal struct {
	Signal   string `json:"signal"`
	Severity string `json:"severity"` // medium, high, critical
	Detail   string `json:"detail,omitempty"`
}

// Warning severities
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Milestone represents a dated checkpoint derived from the deal's next steps
type Milestone struct {
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Importance  string    `json:"importance"` // high, medium
}

// PredictiveInsights represents the forward-looking section of an analysis
type PredictiveInsights struct {
	Trajectory     []TrajectoryPoint `json:"trajectory"`
	WarningSignals []WarningSignal   `json:"warning_signals,omitempty"`
	Milestones     []Milestone       `json:"milestones,omitempty"`
}

// BenchmarkStatus classifies a metric relative to its benchmark
type BenchmarkStatus string

const (
	StatusAboveAverage BenchmarkStatus = "above_average"
	StatusAverage      BenchmarkStatus = "average"
	StatusBelowAverage BenchmarkStatus = "below_average"
)

// BenchmarkComparison represents one metric compared against benchmark data.
// Unmapped marks metric names the engine could not extract from the deal;
// their percentile is reported as zero but must not be read as a real value.
type BenchmarkComparison struct {
	Metric         string          `json:"metric"`
	CurrentValue   float64         `json:"current_value"`
	BenchmarkValue float64         `json:"benchmark_value"`
	Percentile     float64         `json:"percentile"`
	Status         BenchmarkStatus `json:"status"`
	Unmapped       bool            `json:"unmapped,omitempty"`
}

// ComparativeAnalysis represents the benchmark section of an analysis
type ComparativeAnalysis struct {
	Industry    []BenchmarkComparison `json:"industry,omitempty"`
	CompanySize []BenchmarkComparison `json:"company_size,omitempty"`
	Historical  []BenchmarkComparison `json:"historical,omitempty"`
}

// ActionPriority represents the urgency of a recommended action
type ActionPriority string

const (
	PriorityHigh   ActionPriority = "high"
	PriorityMedium ActionPriority = "medium"
	PriorityLow    ActionPriority = "low"
)

// ImmediateAction represents one prioritized remediation step
type ImmediateAction struct {
	Action    string         `json:"action"`
	Priority  ActionPriority `json:"priority"`
	Timeframe string         `json:"timeframe"`
	Dimension Dimension      `json:"dimension,omitempty"`
}

// PlanPhase represents one phase of the remediation plan
type PlanPhase struct {
	Phase    string   `json:"phase"`
	Duration string   `json:"duration"`
	Focus    string   `json:"focus"`
	Actions  []string `json:"actions,omitempty"`
}

// ActionPlan represents the remediation section of an analysis
type ActionPlan struct {
	ImmediateActions []ImmediateAction `json:"immediate_actions"`
	Phases           []PlanPhase       `json:"phases,omitempty"`
	ResourceNotes    []string          `json:"resource_notes,omitempty"`
}

// MonitoredMetric represents one metric tracked by the monitoring config
type MonitoredMetric struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// Checkpoint represents a recurring review point
type Checkpoint struct {
	Frequency string `json:"frequency"`
	Focus     string `json:"focus"`
}

// EscalationTrigger represents a condition that escalates the deal
type EscalationTrigger struct {
	Condition string  `json:"condition"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"`
}

// MonitoringConfig represents the lightweight monitoring setup for a deal
type MonitoringConfig struct {
	KeyMetrics         []MonitoredMetric   `json:"key_metrics"`
	Checkpoints        []Checkpoint        `json:"checkpoints"`
	EscalationTriggers []EscalationTrigger `json:"escalation_triggers"`
}

// StakeholderInsight represents the optional per-stakeholder detail section
type StakeholderInsight struct {
	Name                 string               `json:"name"`
	Role                 string               `json:"role"`
	Influence            InfluenceLevel       `json:"influence"`
	Sentiment            StakeholderSentiment `json:"sentiment"`
	DaysSinceInteraction int                  `json:"days_since_interaction"`
}

// DealHealthAnalysis is the immutable result of one engine invocation
type DealHealthAnalysis struct {
	AnalysisID  string                        `json:"analysis_id"`
	DealID      string                        `json:"deal_id"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Overall     OverallHealth                 `json:"overall_health"`
	Dimensions  map[Dimension]DimensionScore  `json:"dimensions"`
	Predictive  *PredictiveInsights           `json:"predictive,omitempty"`
	Comparative *ComparativeAnalysis          `json:"comparative,omitempty"`
	Stakeholders []StakeholderInsight         `json:"stakeholder_insights,omitempty"`
	ActionPlan  ActionPlan                    `json:"action_plan"`
	Monitoring  MonitoringConfig              `json:"monitoring"`
}

// HealthSnapshot is the persisted summary of a past analysis, used to
// supply previous scores and historical series across invocations
type HealthSnapshot struct {
	AnalysisID string    `json:"analysis_id"`
	DealID     string    `json:"deal_id"`
	Score      float64   `json:"score"`
	Grade      Grade     `json:"grade"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Trend      Trend     `json:"trend"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// PortfolioSummary represents aggregate health across stored snapshots
type PortfolioSummary struct {
	TotalDeals        int               `json:"total_deals"`
	AverageScore      float64           `json:"average_score"`
	GradeDistribution map[Grade]int     `json:"grade_distribution"`
	RiskDistribution  map[RiskLevel]int `json:"risk_distribution"`
	AtRiskDeals       []string          `json:"at_risk_deals"` // deal IDs at high or critical risk
	LastUpdated       time.Time         `json:"last_updated"`
}
