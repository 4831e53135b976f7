package health

import (
	"fmt"
	"math"

	"github.com/dealpulse/pkg/models"
)

// ScoreBucket maps values at or below Max to Score. Bucket lists are ordered
// ascending by Max; values above every Max fall through to the list's floor.
type ScoreBucket struct {
	Max   float64 `yaml:"max" json:"max"`
	Score float64 `yaml:"score" json:"score"`
}

// ThresholdBucket maps values at or above Min to Score. Bucket lists are
// ordered descending by Min.
type ThresholdBucket struct {
	Min   float64 `yaml:"min" json:"min"`
	Score float64 `yaml:"score" json:"score"`
}

// DimensionWeights holds the aggregation weight of each dimension.
// The six weights must sum to 1.0.
type DimensionWeights struct {
	Engagement    float64 `yaml:"engagement" json:"engagement"`
	Momentum      float64 `yaml:"momentum" json:"momentum"`
	Competition   float64 `yaml:"competition" json:"competition"`
	Stakeholder   float64 `yaml:"stakeholder" json:"stakeholder"`
	Qualification float64 `yaml:"qualification" json:"qualification"`
	Risk          float64 `yaml:"risk" json:"risk"`
}

// For returns the weight for a dimension
func (w DimensionWeights) For(d models.Dimension) float64 {
	switch d {
	case models.DimensionEngagement:
		return w.Engagement
	case models.DimensionMomentum:
		return w.Momentum
	case models.DimensionCompetition:
		return w.Competition
	case models.DimensionStakeholder:
		return w.Stakeholder
	case models.DimensionQualification:
		return w.Qualification
	case models.DimensionRisk:
		return w.Risk
	default:
		return 0
	}
}

// Total returns the sum of all six weights
func (w DimensionWeights) Total() float64 {
	return w.Engagement + w.Momentum + w.Competition + w.Stakeholder + w.Qualification + w.Risk
}

// EngagementConfig tunes the engagement scorer
type EngagementConfig struct {
	RecencyWeight   float64 `yaml:"recency_weight" json:"recency_weight"`
	FrequencyWeight float64 `yaml:"frequency_weight" json:"frequency_weight"`
	QualityWeight   float64 `yaml:"quality_weight" json:"quality_weight"`
	DurationWeight  float64 `yaml:"duration_weight" json:"duration_weight"`

	RecencyBuckets []ScoreBucket `yaml:"recency_buckets" json:"recency_buckets"` // days since last activity
	RecencyFloor   float64       `yaml:"recency_floor" json:"recency_floor"`

	FrequencyBuckets []ThresholdBucket `yaml:"frequency_buckets" json:"frequency_buckets"` // engagements in trailing window
	FrequencyFloor   float64           `yaml:"frequency_floor" json:"frequency_floor"`

	DurationBuckets []ThresholdBucket `yaml:"duration_buckets" json:"duration_buckets"` // average minutes
	DurationFloor   float64           `yaml:"duration_floor" json:"duration_floor"`

	HighValueTypes       []string `yaml:"high_value_types" json:"high_value_types"`
	HighValueDurationMin float64  `yaml:"high_value_duration_min" json:"high_value_duration_min"`
	NeutralQuality       float64  `yaml:"neutral_quality" json:"neutral_quality"` // used when no recent engagements exist

	RecentWindowDays int     `yaml:"recent_window_days" json:"recent_window_days"`
	TrendWindowDays  int     `yaml:"trend_window_days" json:"trend_window_days"`
	ImprovingRatio   float64 `yaml:"improving_ratio" json:"improving_ratio"`
	DecliningRatio   float64 `yaml:"declining_ratio" json:"declining_ratio"`
}

// MomentumConfig tunes the momentum scorer
type MomentumConfig struct {
	StageWeight       float64 `yaml:"stage_weight" json:"stage_weight"`
	ProbabilityWeight float64 `yaml:"probability_weight" json:"probability_weight"`
	VelocityWeight    float64 `yaml:"velocity_weight" json:"velocity_weight"`
	NextStepsWeight   float64 `yaml:"next_steps_weight" json:"next_steps_weight"`

	StageProgress    map[models.DealStage]float64 `yaml:"stage_progress" json:"stage_progress"`
	StageFallback    float64                      `yaml:"stage_fallback" json:"stage_fallback"` // unknown stage
	ExpectedStageAge map[models.DealStage]float64 `yaml:"expected_stage_age" json:"expected_stage_age"`
	ExpectedAgeFallback float64                   `yaml:"expected_age_fallback" json:"expected_age_fallback"`

	VelocityBands []ScoreBucket `yaml:"velocity_bands" json:"velocity_bands"` // actual/expected age ratio
	VelocityFloor float64       `yaml:"velocity_floor" json:"velocity_floor"`

	NextStepPoints   float64 `yaml:"next_step_points" json:"next_step_points"`
	NextStepMax      float64 `yaml:"next_step_max" json:"next_step_max"`
	NoNextStepsScore float64 `yaml:"no_next_steps_score" json:"no_next_steps_score"`
}

// CompetitionConfig tunes the competition scorer. Differentiation and
// MarketPosition are static policy baselines pending richer input data.
type CompetitionConfig struct {
	CountWeight           float64 `yaml:"count_weight" json:"count_weight"`
	PositionWeight        float64 `yaml:"position_weight" json:"position_weight"`
	DifferentiationWeight float64 `yaml:"differentiation_weight" json:"differentiation_weight"`
	MarketWeight          float64 `yaml:"market_weight" json:"market_weight"`

	CompetitorBuckets []ScoreBucket `yaml:"competitor_buckets" json:"competitor_buckets"`
	CompetitorFloor   float64       `yaml:"competitor_floor" json:"competitor_floor"`

	LargeDealValue    float64 `yaml:"large_deal_value" json:"large_deal_value"`
	LargeDealPosition float64 `yaml:"large_deal_position" json:"large_deal_position"`
	MidDealValue      float64 `yaml:"mid_deal_value" json:"mid_deal_value"`
	MidDealPosition   float64 `yaml:"mid_deal_position" json:"mid_deal_position"`
	BasePosition      float64 `yaml:"base_position" json:"base_position"`

	Differentiation float64 `yaml:"differentiation" json:"differentiation"`
	MarketPosition  float64 `yaml:"market_position" json:"market_position"`
}

// StakeholderConfig tunes the stakeholder scorer
type StakeholderConfig struct {
	ChampionWeight  float64 `yaml:"champion_weight" json:"champion_weight"`
	CoverageWeight  float64 `yaml:"coverage_weight" json:"coverage_weight"`
	BalanceWeight   float64 `yaml:"balance_weight" json:"balance_weight"`
	SentimentWeight float64 `yaml:"sentiment_weight" json:"sentiment_weight"`

	NoStakeholderScore float64 `yaml:"no_stakeholder_score" json:"no_stakeholder_score"`

	ChampionInfluence map[models.InfluenceLevel]float64 `yaml:"champion_influence" json:"champion_influence"`
	NoChampionScore   float64                           `yaml:"no_champion_score" json:"no_champion_score"`

	CoverageDecisionMaker float64 `yaml:"coverage_decision_maker" json:"coverage_decision_maker"`
	CoverageInfluencer    float64 `yaml:"coverage_influencer" json:"coverage_influencer"`
	CoverageEndUser       float64 `yaml:"coverage_end_user" json:"coverage_end_user"`
}

// QualificationConfig tunes the qualification scorer. NeedFit is a static
// policy baseline pending richer input data.
type QualificationConfig struct {
	BudgetWeight  float64 `yaml:"budget_weight" json:"budget_weight"`
	CompanyWeight float64 `yaml:"company_weight" json:"company_weight"`
	NeedWeight    float64 `yaml:"need_weight" json:"need_weight"`
	RiskWeight    float64 `yaml:"risk_weight" json:"risk_weight"`

	BudgetRatioBands []ScoreBucket `yaml:"budget_ratio_bands" json:"budget_ratio_bands"` // deal value per employee
	BudgetFloor      float64       `yaml:"budget_floor" json:"budget_floor"`
	UnknownCompanySizeScore float64 `yaml:"unknown_company_size_score" json:"unknown_company_size_score"`

	CompanySizeBands []ThresholdBucket `yaml:"company_size_bands" json:"company_size_bands"`
	CompanyFloor     float64           `yaml:"company_floor" json:"company_floor"`

	NeedFit           float64 `yaml:"need_fit" json:"need_fit"`
	RiskFactorPenalty float64 `yaml:"risk_factor_penalty" json:"risk_factor_penalty"`
}

// RiskDimensionConfig tunes the risk scorer
type RiskDimensionConfig struct {
	AgeWeight       float64 `yaml:"age_weight" json:"age_weight"`
	StageWeight     float64 `yaml:"stage_weight" json:"stage_weight"`
	ObjectionWeight float64 `yaml:"objection_weight" json:"objection_weight"`
	ExternalWeight  float64 `yaml:"external_weight" json:"external_weight"`

	AgeBuckets []ScoreBucket `yaml:"age_buckets" json:"age_buckets"` // pipeline age in days
	AgeFloor   float64       `yaml:"age_floor" json:"age_floor"`

	ObjectionPenalty float64 `yaml:"objection_penalty" json:"objection_penalty"`
	ExternalPenalty  float64 `yaml:"external_penalty" json:"external_penalty"`
}

// TrendConfig holds the composite-score trend thresholds
type TrendConfig struct {
	ImprovingMin float64 `yaml:"improving_min" json:"improving_min"`
	StableMin    float64 `yaml:"stable_min" json:"stable_min"`
}

// PredictorConfig tunes the forward trajectory and early warnings
type PredictorConfig struct {
	HorizonWeeks    int     `yaml:"horizon_weeks" json:"horizon_weeks"`
	BaseConfidence  float64 `yaml:"base_confidence" json:"base_confidence"`
	ConfidenceDecay float64 `yaml:"confidence_decay" json:"confidence_decay"` // per week
	ImprovingDrift  float64 `yaml:"improving_drift" json:"improving_drift"`   // points per week
	DecliningDrift  float64 `yaml:"declining_drift" json:"declining_drift"`
	VarianceRange   float64 `yaml:"variance_range" json:"variance_range"` // +/- points, seeded PRNG

	WarningScore      float64 `yaml:"warning_score" json:"warning_score"`
	CriticalScore     float64 `yaml:"critical_score" json:"critical_score"`
	StaleActivityDays float64 `yaml:"stale_activity_days" json:"stale_activity_days"`
}

// BenchmarkScoringConfig tunes benchmark percentile and status bands.
// MetricSources maps caller-facing metric names to extractable deal fields;
// names outside the map are reported as unmapped.
type BenchmarkScoringConfig struct {
	StrongMultiplier float64 `yaml:"strong_multiplier" json:"strong_multiplier"`
	StrongPercentile float64 `yaml:"strong_percentile" json:"strong_percentile"`
	ParPercentile    float64 `yaml:"par_percentile" json:"par_percentile"`
	LagMultiplier    float64 `yaml:"lag_multiplier" json:"lag_multiplier"`
	LagPercentile    float64 `yaml:"lag_percentile" json:"lag_percentile"`
	FloorPercentile  float64 `yaml:"floor_percentile" json:"floor_percentile"`

	AboveAverageMin float64 `yaml:"above_average_min" json:"above_average_min"`
	AverageMin      float64 `yaml:"average_min" json:"average_min"`

	MetricSources map[string]string `yaml:"metric_sources" json:"metric_sources"`
}

// ActionConfig tunes the action planner and monitoring config
type ActionConfig struct {
	CriticalScore         float64 `yaml:"critical_score" json:"critical_score"`
	WeakDimensionScore    float64 `yaml:"weak_dimension_score" json:"weak_dimension_score"`
	HighPriorityScore     float64 `yaml:"high_priority_score" json:"high_priority_score"`
	MaxPromotedActions    int     `yaml:"max_promoted_actions" json:"max_promoted_actions"` // per dimension
	ImmediateReviewWindow string  `yaml:"immediate_review_window" json:"immediate_review_window"`

	ScoreTarget       float64 `yaml:"score_target" json:"score_target"`
	RecencyTargetDays float64 `yaml:"recency_target_days" json:"recency_target_days"`
	EscalationScore   float64 `yaml:"escalation_score" json:"escalation_score"`
}

// ScoringConfig is the complete, injectable numeric policy of the engine.
// Every weight, bucket boundary, and baseline constant the scorers use lives
// here so tuning never requires a code change.
type ScoringConfig struct {
	Weights       DimensionWeights       `yaml:"weights" json:"weights"`
	Engagement    EngagementConfig       `yaml:"engagement" json:"engagement"`
	Momentum      MomentumConfig         `yaml:"momentum" json:"momentum"`
	Competition   CompetitionConfig      `yaml:"competition" json:"competition"`
	Stakeholder   StakeholderConfig      `yaml:"stakeholder" json:"stakeholder"`
	Qualification QualificationConfig    `yaml:"qualification" json:"qualification"`
	Risk          RiskDimensionConfig    `yaml:"risk" json:"risk"`
	GradeBands    []models.GradeBand     `yaml:"grade_bands" json:"grade_bands"`
	RiskBands     []models.RiskBand      `yaml:"risk_bands" json:"risk_bands"`
	Trend         TrendConfig            `yaml:"trend" json:"trend"`
	Confidence    float64                `yaml:"confidence" json:"confidence"` // static placeholder pending a data-completeness measure
	Predictor     PredictorConfig        `yaml:"predictor" json:"predictor"`
	Benchmark     BenchmarkScoringConfig `yaml:"benchmark" json:"benchmark"`
	Actions       ActionConfig           `yaml:"actions" json:"actions"`
}

// DefaultScoringConfig returns the production scoring policy
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: DimensionWeights{
			Engagement:    0.20,
			Momentum:      0.25,
			Competition:   0.15,
			Stakeholder:   0.20,
			Qualification: 0.10,
			Risk:          0.10,
		},
		Engagement: EngagementConfig{
			RecencyWeight:   0.30,
			FrequencyWeight: 0.25,
			QualityWeight:   0.25,
			DurationWeight:  0.20,
			RecencyBuckets: []ScoreBucket{
				{Max: 1, Score: 100},
				{Max: 3, Score: 80},
				{Max: 7, Score: 60},
				{Max: 14, Score: 40},
				{Max: 30, Score: 20},
			},
			RecencyFloor: 10,
			FrequencyBuckets: []ThresholdBucket{
				{Min: 10, Score: 100},
				{Min: 7, Score: 80},
				{Min: 5, Score: 60},
				{Min: 3, Score: 40},
				{Min: 1, Score: 20},
			},
			FrequencyFloor: 10,
			DurationBuckets: []ThresholdBucket{
				{Min: 60, Score: 100},
				{Min: 45, Score: 80},
				{Min: 30, Score: 60},
				{Min: 15, Score: 40},
			},
			DurationFloor:        20,
			HighValueTypes:       []string{"meeting", "demo", "presentation", "negotiation"},
			HighValueDurationMin: 30,
			NeutralQuality:       50,
			RecentWindowDays:     30,
			TrendWindowDays:      14,
			ImprovingRatio:       1.2,
			DecliningRatio:       0.8,
		},
		Momentum: MomentumConfig{
			StageWeight:       0.30,
			ProbabilityWeight: 0.30,
			VelocityWeight:    0.25,
			NextStepsWeight:   0.15,
			StageProgress: map[models.DealStage]float64{
				models.StageProspecting:   20,
				models.StageQualification: 35,
				models.StageConsideration: 50,
				models.StageProposal:      65,
				models.StageNegotiation:   80,
				models.StageClosing:       95,
			},
			StageFallback: 50,
			ExpectedStageAge: map[models.DealStage]float64{
				models.StageProspecting:   15,
				models.StageQualification: 30,
				models.StageConsideration: 45,
				models.StageProposal:      60,
				models.StageNegotiation:   75,
				models.StageClosing:       90,
			},
			ExpectedAgeFallback: 30,
			VelocityBands: []ScoreBucket{
				{Max: 0.8, Score: 100},
				{Max: 1.0, Score: 80},
				{Max: 1.2, Score: 60},
				{Max: 1.5, Score: 40},
			},
			VelocityFloor:    20,
			NextStepPoints:   20,
			NextStepMax:      100,
			NoNextStepsScore: 10,
		},
		Competition: CompetitionConfig{
			CountWeight:           0.40,
			PositionWeight:        0.30,
			DifferentiationWeight: 0.20,
			MarketWeight:          0.10,
			CompetitorBuckets: []ScoreBucket{
				{Max: 0, Score: 100},
				{Max: 1, Score: 80},
				{Max: 2, Score: 60},
				{Max: 3, Score: 40},
			},
			CompetitorFloor:   20,
			LargeDealValue:    500000,
			LargeDealPosition: 70,
			MidDealValue:      100000,
			MidDealPosition:   80,
			BasePosition:      90,
			Differentiation:   75,
			MarketPosition:    70,
		},
		Stakeholder: StakeholderConfig{
			ChampionWeight:     0.30,
			CoverageWeight:     0.25,
			BalanceWeight:      0.25,
			SentimentWeight:    0.20,
			NoStakeholderScore: 20,
			ChampionInfluence: map[models.InfluenceLevel]float64{
				models.InfluenceHigh:   100,
				models.InfluenceMedium: 80,
				models.InfluenceLow:    60,
			},
			NoChampionScore:       20,
			CoverageDecisionMaker: 40,
			CoverageInfluencer:    30,
			CoverageEndUser:       30,
		},
		Qualification: QualificationConfig{
			BudgetWeight:  0.30,
			CompanyWeight: 0.25,
			NeedWeight:    0.25,
			RiskWeight:    0.20,
			BudgetRatioBands: []ScoreBucket{
				{Max: 100, Score: 90},
				{Max: 1000, Score: 100},
				{Max: 5000, Score: 80},
				{Max: 20000, Score: 60},
			},
			BudgetFloor:             40,
			UnknownCompanySizeScore: 50,
			CompanySizeBands: []ThresholdBucket{
				{Min: 1000, Score: 90},
				{Min: 250, Score: 100},
				{Min: 50, Score: 80},
				{Min: 10, Score: 60},
			},
			CompanyFloor:      40,
			NeedFit:           75,
			RiskFactorPenalty: 20,
		},
		Risk: RiskDimensionConfig{
			AgeWeight:       0.30,
			StageWeight:     0.25,
			ObjectionWeight: 0.25,
			ExternalWeight:  0.20,
			AgeBuckets: []ScoreBucket{
				{Max: 29, Score: 100},
				{Max: 59, Score: 80},
				{Max: 89, Score: 60},
				{Max: 119, Score: 40},
			},
			AgeFloor:         20,
			ObjectionPenalty: 25,
			ExternalPenalty:  15,
		},
		GradeBands: []models.GradeBand{
			{MinScore: 95, Grade: models.GradeAPlus},
			{MinScore: 90, Grade: models.GradeA},
			{MinScore: 85, Grade: models.GradeBPlus},
			{MinScore: 80, Grade: models.GradeB},
			{MinScore: 75, Grade: models.GradeCPlus},
			{MinScore: 70, Grade: models.GradeC},
			{MinScore: 60, Grade: models.GradeD},
		},
		RiskBands: []models.RiskBand{
			{MinScore: 80, Level: models.RiskLevelLow},
			{MinScore: 70, Level: models.RiskLevelMedium},
			{MinScore: 60, Level: models.RiskLevelHigh},
		},
		Trend: TrendConfig{
			ImprovingMin: 80,
			StableMin:    60,
		},
		Confidence: 0.85,
		Predictor: PredictorConfig{
			HorizonWeeks:      4,
			BaseConfidence:    0.9,
			ConfidenceDecay:   0.1,
			ImprovingDrift:    1.5,
			DecliningDrift:    -2.5,
			VarianceRange:     2.0,
			WarningScore:      70,
			CriticalScore:     50,
			StaleActivityDays: 14,
		},
		Benchmark: BenchmarkScoringConfig{
			StrongMultiplier: 1.2,
			StrongPercentile: 90,
			ParPercentile:    60,
			LagMultiplier:    0.8,
			LagPercentile:    40,
			FloorPercentile:  10,
			AboveAverageMin:  75,
			AverageMin:       25,
			MetricSources: map[string]string{
				"deal_value":        MetricSourceValue,
				"average_deal_size": MetricSourceValue,
				"win_probability":   MetricSourceProbability,
				"deal_age_days":     MetricSourceAge,
				"sales_cycle_days":  MetricSourceAge,
				"engagement_count":  MetricSourceEngagements,
				"stakeholder_count": MetricSourceStakeholders,
				"competitor_count":  MetricSourceCompetitors,
				"next_step_count":   MetricSourceNextSteps,
				"health_score":      MetricSourceHealthScore,
			},
		},
		Actions: ActionConfig{
			CriticalScore:         60,
			WeakDimensionScore:    70,
			HighPriorityScore:     50,
			MaxPromotedActions:    2,
			ImmediateReviewWindow: "24 hours",
			ScoreTarget:           80,
			RecencyTargetDays:     3,
			EscalationScore:       60,
		},
	}
}

// Validate checks that the scoring policy is internally consistent
func (c *ScoringConfig) Validate() error {
	if diff := math.Abs(c.Weights.Total() - 1.0); diff > 0.001 {
		return fmt.Errorf("dimension weights must sum to 1.0, got %.4f", c.Weights.Total())
	}
	groups := map[string]float64{
		"engagement":    c.Engagement.RecencyWeight + c.Engagement.FrequencyWeight + c.Engagement.QualityWeight + c.Engagement.DurationWeight,
		"momentum":      c.Momentum.StageWeight + c.Momentum.ProbabilityWeight + c.Momentum.VelocityWeight + c.Momentum.NextStepsWeight,
		"competition":   c.Competition.CountWeight + c.Competition.PositionWeight + c.Competition.DifferentiationWeight + c.Competition.MarketWeight,
		"stakeholder":   c.Stakeholder.ChampionWeight + c.Stakeholder.CoverageWeight + c.Stakeholder.BalanceWeight + c.Stakeholder.SentimentWeight,
		"qualification": c.Qualification.BudgetWeight + c.Qualification.CompanyWeight + c.Qualification.NeedWeight + c.Qualification.RiskWeight,
		"risk":          c.Risk.AgeWeight + c.Risk.StageWeight + c.Risk.ObjectionWeight + c.Risk.ExternalWeight,
	}
	for name, total := range groups {
		if math.Abs(total-1.0) > 0.001 {
			return fmt.Errorf("%s sub-metric weights must sum to 1.0, got %.4f", name, total)
		}
	}
	for i := 1; i < len(c.GradeBands); i++ {
		if c.GradeBands[i].MinScore >= c.GradeBands[i-1].MinScore {
			return fmt.Errorf("grade bands must be ordered by descending min score")
		}
	}
	for i := 1; i < len(c.RiskBands); i++ {
		if c.RiskBands[i].MinScore >= c.RiskBands[i-1].MinScore {
			return fmt.Errorf("risk bands must be ordered by descending min score")
		}
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1], got %.2f", c.Confidence)
	}
	if c.Predictor.HorizonWeeks <= 0 {
		return fmt.Errorf("predictor horizon must be positive")
	}
	return nil
}

// bucketScore returns the score of the first bucket whose Max the value does
// not exceed, or the floor when the value is above every bucket
func bucketScore(value float64, buckets []ScoreBucket, floor float64) float64 {
	for _, b := range buckets {
		if value <= b.Max {
			return b.Score
		}
	}
	return floor
}

// thresholdScore returns the score of the first bucket whose Min the value
// meets, or the floor when the value is below every bucket
func thresholdScore(value float64, buckets []ThresholdBucket, floor float64) float64 {
	for _, b := range buckets {
		if value >= b.Min {
			return b.Score
		}
	}
	return floor
}

// clampScore bounds a score to [0,100]
func clampScore(score float64) float64 {
	return math.Min(100, math.Max(0, score))
}
