package history

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dealpulse/pkg/models"
)

// Config represents Neo4j history store configuration
type Config struct {
	URI          string        `yaml:"uri" json:"uri"`
	Database     string        `yaml:"database" json:"database"`
	Username     string        `yaml:"username" json:"username"`
	Password     string        `yaml:"password" json:"password"`
	MaxPoolSize  int           `yaml:"max_pool_size" json:"max_pool_size"`
	ConnTimeout  time.Duration `yaml:"conn_timeout" json:"conn_timeout"`
	SnapshotKeep int           `yaml:"snapshot_keep" json:"snapshot_keep"` // 0 = keep all
}

// Neo4jStore implements Store on a deal graph:
// (:Deal {id})-[:HAS_SNAPSHOT]->(:HealthSnapshot {...})
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	config Config
	logger *zap.Logger
}

// NewNeo4jStore creates a Neo4j-backed history store
func NewNeo4jStore(config Config, logger *zap.Logger) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(
		config.URI,
		neo4j.BasicAuth(config.Username, config.Password, ""),
		func(c *neo4j.Config) {
			if config.MaxPoolSize > 0 {
				c.MaxConnectionPoolSize = config.MaxPoolSize
			}
			c.MaxConnectionLifetime = time.Hour
			if config.ConnTimeout > 0 {
				c.ConnectionAcquisitionTimeout = config.ConnTimeout
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	store := &Neo4jStore{
		driver: driver,
		config: config,
		logger: logger,
	}

	if err := store.initializeSchema(ctx); err != nil {
		logger.Warn("failed to initialize history schema", zap.Error(err))
	}

	return store, nil
}

// initializeSchema creates the constraints and indexes the store relies on
func (s *Neo4jStore) initializeSchema(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT deal_id IF NOT EXISTS FOR (d:Deal) REQUIRE d.id IS UNIQUE",
		"CREATE INDEX snapshot_analyzed_at IF NOT EXISTS FOR (s:HealthSnapshot) ON (s.analyzed_at)",
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to run schema statement: %w", err)
		}
	}
	return nil
}

// SaveSnapshot appends one snapshot to a deal's history
func (s *Neo4jStore) SaveSnapshot(ctx context.Context, snapshot models.HealthSnapshot) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	query := `
		MERGE (d:Deal {id: $deal_id})
		CREATE (snap:HealthSnapshot {
			analysis_id: $analysis_id,
			score: $score,
			grade: $grade,
			risk_level: $risk_level,
			trend: $trend,
			analyzed_at: $analyzed_at
		})
		CREATE (d)-[:HAS_SNAPSHOT]->(snap)`

	params := map[string]any{
		"deal_id":     snapshot.DealID,
		"analysis_id": snapshot.AnalysisID,
		"score":       snapshot.Score,
		"grade":       string(snapshot.Grade),
		"risk_level":  string(snapshot.RiskLevel),
		"trend":       string(snapshot.Trend),
		"analyzed_at": snapshot.AnalyzedAt,
	}

	if _, err := session.Run(ctx, query, params); err != nil {
		return fmt.Errorf("failed to save snapshot for deal %s: %w", snapshot.DealID, err)
	}

	if s.config.SnapshotKeep > 0 {
		if err := s.pruneSnapshots(ctx, session, snapshot.DealID); err != nil {
			s.logger.Warn("failed to prune snapshots", zap.String("deal_id", snapshot.DealID), zap.Error(err))
		}
	}

	return nil
}

// pruneSnapshots drops snapshots beyond the configured retention count
func (s *Neo4jStore) pruneSnapshots(ctx context.Context, session neo4j.SessionWithContext, dealID string) error {
	query := `
		MATCH (d:Deal {id: $deal_id})-[:HAS_SNAPSHOT]->(snap:HealthSnapshot)
		WITH snap ORDER BY snap.analyzed_at DESC
		SKIP $keep
		DETACH DELETE snap`

	_, err := session.Run(ctx, query, map[string]any{
		"deal_id": dealID,
		"keep":    s.config.SnapshotKeep,
	})
	return err
}

// LatestSnapshot returns the most recent snapshot for a deal, or nil when
// none exists yet
func (s *Neo4jStore) LatestSnapshot(ctx context.Context, dealID string) (*models.HealthSnapshot, error) {
	snapshots, err := s.ListSnapshots(ctx, dealID, 1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return &snapshots[0], nil
}

// ListSnapshots returns a deal's snapshots newest first
func (s *Neo4jStore) ListSnapshots(ctx context.Context, dealID string, limit int) ([]models.HealthSnapshot, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	if limit <= 0 {
		limit = 100
	}

	query := `
		MATCH (d:Deal {id: $deal_id})-[:HAS_SNAPSHOT]->(snap:HealthSnapshot)
		RETURN snap ORDER BY snap.analyzed_at DESC LIMIT $limit`

	result, err := session.Run(ctx, query, map[string]any{
		"deal_id": dealID,
		"limit":   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for deal %s: %w", dealID, err)
	}

	var snapshots []models.HealthSnapshot
	for result.Next(ctx) {
		value, ok := result.Record().Get("snap")
		if !ok {
			continue
		}
		node, ok := value.(neo4j.Node)
		if !ok {
			continue
		}
		snapshots = append(snapshots, snapshotFromNode(dealID, node))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots for deal %s: %w", dealID, err)
	}

	return snapshots, nil
}

// PortfolioSummary aggregates the latest snapshot of every deal
func (s *Neo4jStore) PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	query := `
		MATCH (d:Deal)-[:HAS_SNAPSHOT]->(snap:HealthSnapshot)
		WITH d, snap ORDER BY snap.analyzed_at DESC
		WITH d, collect(snap)[0] AS latest
		RETURN d.id AS deal_id, latest`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio summary: %w", err)
	}

	summary := &models.PortfolioSummary{
		GradeDistribution: make(map[models.Grade]int),
		RiskDistribution:  make(map[models.RiskLevel]int),
		AtRiskDeals:       make([]string, 0),
		LastUpdated:       time.Now(),
	}

	var totalScore float64
	for result.Next(ctx) {
		record := result.Record()
		idValue, _ := record.Get("deal_id")
		dealID, _ := idValue.(string)
		nodeValue, ok := record.Get("latest")
		if !ok {
			continue
		}
		node, ok := nodeValue.(neo4j.Node)
		if !ok {
			continue
		}

		snapshot := snapshotFromNode(dealID, node)
		summary.TotalDeals++
		totalScore += snapshot.Score
		summary.GradeDistribution[snapshot.Grade]++
		summary.RiskDistribution[snapshot.RiskLevel]++

		if snapshot.RiskLevel == models.RiskLevelHigh || snapshot.RiskLevel == models.RiskLevelCritical {
			summary.AtRiskDeals = append(summary.AtRiskDeals, dealID)
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read portfolio summary: %w", err)
	}

	if summary.TotalDeals > 0 {
		summary.AverageScore = totalScore / float64(summary.TotalDeals)
	}

	return summary, nil
}

// Close releases the underlying driver
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.config.Database,
	})
}

func snapshotFromNode(dealID string, node neo4j.Node) models.HealthSnapshot {
	snapshot := models.HealthSnapshot{DealID: dealID}
	if v, ok := node.Props["analysis_id"].(string); ok {
		snapshot.AnalysisID = v
	}
	if v, ok := node.Props["score"].(float64); ok {
		snapshot.Score = v
	}
	if v, ok := node.Props["grade"].(string); ok {
		snapshot.Grade = models.Grade(v)
	}
	if v, ok := node.Props["risk_level"].(string); ok {
		snapshot.RiskLevel = models.RiskLevel(v)
	}
	if v, ok := node.Props["trend"].(string); ok {
		snapshot.Trend = models.Trend(v)
	}
	if v, ok := node.Props["analyzed_at"].(time.Time); ok {
		snapshot.AnalyzedAt = v
	}
	return snapshot
}
