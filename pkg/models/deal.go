package models

import "time"

// DealStage represents the pipeline stage of a deal
type DealStage string

const (
	StageProspecting   DealStage = "prospecting"
	StageQualification DealStage = "qualification"
	StageConsideration DealStage = "consideration"
	StageProposal      DealStage = "proposal"
	StageNegotiation   DealStage = "negotiation"
	StageClosing       DealStage = "closing"
)

// InfluenceLevel represents a stakeholder's influence on the buying decision
type InfluenceLevel string

const (
	InfluenceHigh   InfluenceLevel = "high"
	InfluenceMedium InfluenceLevel = "medium"
	InfluenceLow    InfluenceLevel = "low"
)

// StakeholderSentiment represents a stakeholder's disposition toward the deal
type StakeholderSentiment string

const (
	SentimentChampion  StakeholderSentiment = "champion"
	SentimentSupporter StakeholderSentiment = "supporter"
	SentimentNeutral   StakeholderSentiment = "neutral"
	SentimentSkeptic   StakeholderSentiment = "skeptic"
	SentimentBlocker   StakeholderSentiment = "blocker"
)

// ObjectionStatus represents the resolution state of a buyer objection
type ObjectionStatus string

const (
	ObjectionResolved    ObjectionStatus = "resolved"
	ObjectionAddressed   ObjectionStatus = "addressed"
	ObjectionOutstanding ObjectionStatus = "outstanding"
)

// Engagement represents a single recorded interaction with the buyer
type Engagement struct {
	Type            string    `json:"type"` // call, email, meeting, demo, presentation, negotiation
	Timestamp       time.Time `json:"timestamp"`
	DurationMinutes float64   `json:"duration_minutes,omitempty"`
	Sentiment       string    `json:"sentiment,omitempty"` // positive, neutral, negative
}

// Stakeholder represents one member of the buying committee
type Stakeholder struct {
	Name            string               `json:"name"`
	Role            string               `json:"role"`
	Influence       InfluenceLevel       `json:"influence"`
	Sentiment       StakeholderSentiment `json:"sentiment"`
	LastInteraction time.Time            `json:"last_interaction,omitempty"`
}

// Objection represents a recorded buyer objection
type Objection struct {
	Objection  string          `json:"objection"`
	Status     ObjectionStatus `json:"status"`
	DateRaised time.Time       `json:"date_raised,omitempty"`
}

// Deal represents the raw opportunity record the scoring engine consumes.
// The record is externally owned and read-only to the engine; optional
// collections may be nil and optional numerics may be zero.
type Deal struct {
	Value        float64       `json:"value"`
	Stage        DealStage     `json:"stage"`
	Probability  float64       `json:"probability"` // 0-1
	AgeDays      int           `json:"age_days"`
	LastActivity time.Time     `json:"last_activity,omitempty"`
	Industry     string        `json:"industry,omitempty"`
	CompanySize  int           `json:"company_size,omitempty"` // employees, 0 = unknown
	Competitors  []string      `json:"competitors,omitempty"`
	RiskFactors  []string      `json:"risk_factors,omitempty"`
	NextSteps    []string      `json:"next_steps,omitempty"`
	Engagements  []Engagement  `json:"engagement_history,omitempty"`
	Stakeholders []Stakeholder `json:"stakeholder_map,omitempty"`
	Objections   []Objection   `json:"objections,omitempty"`
}

// OutstandingObjections returns the number of objections still outstanding
func (d *Deal) OutstandingObjections() int {
	count := 0
	for _, o := range d.Objections {
		if o.Status == ObjectionOutstanding {
			count++
		}
	}
	return count
}
