// Package constants provides shared constants used throughout the satmap codebase.
// This includes scoring weights, acceptance thresholds, batch sizes, timeouts
// and file permissions that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second

	// StoreConnectTimeout is the timeout for the first round trip to the relational store
	StoreConnectTimeout = 15 * time.Second

	// SlowQueryThreshold is the duration above which store queries are logged as slow
	SlowQueryThreshold = 1 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// RunTimeout is the timeout for a full repair, naming and matching run
	RunTimeout = 2 * time.Hour
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Materiality scoring constants. The composite score is
// HierarchyWeight*hierarchy + SemanticWeight*semantic + UnitWeight*unit.
const (
	// AcceptanceThreshold is the minimum composite score persisted as a relation
	AcceptanceThreshold = 0.70

	// HierarchyWeight weights the sector-rule / division agreement component
	HierarchyWeight = 0.50

	// SemanticWeight weights the Jaro-Winkler name similarity component
	SemanticWeight = 0.35

	// UnitWeight weights the goods/services category component
	UnitWeight = 0.15

	// PruneFloor is the hierarchy score below which a candidate can never reach
	// the threshold: 0.3*0.50 + 1*0.35 + 1*0.15 = 0.65 < 0.70
	PruneFloor = 0.4

	// RuleHierarchyScore is awarded when the product division is allowed by the sector rule
	RuleHierarchyScore = 1.0

	// PrefixHierarchyScore is awarded when product division equals the activity's 2-digit prefix
	PrefixHierarchyScore = 0.7

	// ServiceUnitScore is awarded to service divisions (70 and above)
	ServiceUnitScore = 1.0

	// GoodsUnitScore is awarded to goods divisions (below 70)
	GoodsUnitScore = 0.5

	// ServiceDivisionFloor is the first division number considered a service
	ServiceDivisionFloor = 70

	// SemanticSampleLength is the number of characters compared by the semantic score
	SemanticSampleLength = 100
)

// Batch and concurrency limits
const (
	// SyntheticBatchSize is the number of synthetic nodes written per statement
	SyntheticBatchSize = 100

	// UpdateBatchSize is the number of hierarchy updates written per transaction
	UpdateBatchSize = 500

	// RenameBatchSize is the number of node renames written per transaction
	RenameBatchSize = 500

	// DefaultWorkers is the default number of activities matched concurrently
	DefaultWorkers = 1

	// MaxWorkers is the maximum number of matcher workers
	MaxWorkers = 64

	// DefaultRelationLimit is the default number of relations listed by queries
	DefaultRelationLimit = 100
)

// Database table names used by the relational store
const (
	// ActivitiesTable holds the economic activity catalog
	ActivitiesTable = "cat_economic_activities"

	// ProductsTable holds the products and services catalog
	ProductsTable = "cat_cfdi_productos_servicios"

	// RelationsTable holds accepted activity/product congruence relations
	RelationsTable = "rel_activity_product"
)

// Default values
const (
	// DefaultDatabaseDriver is the store dialect used when none is configured
	DefaultDatabaseDriver = "postgres"

	// DefaultConfigName is the base name of the optional config file
	DefaultConfigName = ".satmap"

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
