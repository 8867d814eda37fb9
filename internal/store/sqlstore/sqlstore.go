// Package sqlstore implements store.Store on top of gorm, against the
// production Postgres catalog or a local SQLite file.
package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/logging"
	"github.com/agentstation/satmap/pkg/store"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var _ store.Store = (*Store)(nil)

// Config describes how to reach the catalog database.
type Config struct {
	Driver      string
	DSN         string
	AutoMigrate bool
	// LogQueries logs every statement at trace level.
	LogQueries bool
}

// Store is a gorm-backed catalog store.
type Store struct {
	db     *gorm.DB
	driver string
}

// Open connects to the database described by cfg and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = constants.DefaultDatabaseDriver
	}
	if cfg.DSN == "" {
		return nil, errors.NewConfigError("database", "no connection string configured", nil)
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "postgresql":
		driver = DriverPostgres
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite, "sqlite3":
		driver = DriverSQLite
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, errors.NewConfigError("database", fmt.Sprintf("unsupported driver %q", cfg.Driver), nil)
	}

	level := gormlogger.Warn
	if cfg.LogQueries {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   newQueryLogger(level, constants.SlowQueryThreshold),
	})
	if err != nil {
		return nil, classify("connect", "", err)
	}

	s := New(db, driver)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, classify("connect", "", err)
	}
	if driver == DriverSQLite {
		// One writer; also keeps ":memory:" databases on a single connection.
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, constants.StoreConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, classify("connect", "", err)
	}

	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	logging.FromContext(ctx).Debug().Str("driver", driver).Bool("auto_migrate", cfg.AutoMigrate).Msg("store opened")
	return s, nil
}

// New wraps an existing gorm connection.
func New(db *gorm.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates or updates the three catalog tables. Production schemas
// are managed elsewhere; this is for local databases and tests.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(&activityRow{}, &productRow{}, &relationRow{})
	return classify("migrate", "", err)
}

// Close implements store.Store.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Activities implements store.ActivityStore.
func (s *Store) Activities(ctx context.Context) ([]taxonomy.Activity, error) {
	var rows []activityRow
	if err := s.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, classify("read", constants.ActivitiesTable, err)
	}
	out := make([]taxonomy.Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, activityFromRow(r))
	}
	return out, nil
}

// LeafActivities implements store.ActivityStore.
func (s *Store) LeafActivities(ctx context.Context) ([]taxonomy.Activity, error) {
	var rows []activityRow
	err := s.db.WithContext(ctx).
		Where("level = ?", taxonomy.LevelSubrama.String()).
		Order("code").
		Find(&rows).Error
	if err != nil {
		return nil, classify("read", constants.ActivitiesTable, err)
	}
	out := make([]taxonomy.Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, activityFromRow(r))
	}
	return out, nil
}

// InsertActivities implements store.ActivityStore.
func (s *Store) InsertActivities(ctx context.Context, activities []taxonomy.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	rows := make([]activityRow, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, activityToRow(a))
	}
	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.Code)
	}

	var stored []activityRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&rows).Error
		if err != nil {
			return err
		}
		// A concurrent writer may own some of these codes.
		return tx.Select("id", "code").Where("code IN ?", codes).Find(&stored).Error
	})
	if err != nil {
		return classify("insert", constants.ActivitiesTable, err)
	}

	ids := make(map[string]uuid.UUID, len(stored))
	for _, r := range stored {
		ids[r.Code] = r.ID
	}
	for i := range activities {
		if id, ok := ids[activities[i].Code]; ok {
			activities[i].ID = id
		}
	}
	return nil
}

// UpdateActivityHierarchy implements store.ActivityStore.
// The batch is applied in one transaction.
func (s *Store) UpdateActivityHierarchy(ctx context.Context, updates []taxonomy.ActivityUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			fields := map[string]any{"parent_id": u.ParentID}
			if u.Level != "" {
				fields["level"] = u.Level.String()
			}
			if err := tx.Model(&activityRow{}).Where("id = ?", u.ID).Updates(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return classify("update", constants.ActivitiesTable, err)
}

// Products implements store.ProductStore.
func (s *Store) Products(ctx context.Context) ([]taxonomy.Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, classify("read", constants.ProductsTable, err)
	}
	out := make([]taxonomy.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, productFromRow(r))
	}
	return out, nil
}

// InsertProducts implements store.ProductStore.
func (s *Store) InsertProducts(ctx context.Context, products []taxonomy.Product) error {
	if len(products) == 0 {
		return nil
	}
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productToRow(p))
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"level", "parent_code"}),
		}).
		Create(&rows).Error
	return classify("insert", constants.ProductsTable, err)
}

// UpdateProductHierarchy implements store.ProductStore.
func (s *Store) UpdateProductHierarchy(ctx context.Context, updates []taxonomy.ProductUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			fields := map[string]any{
				"level":       u.Level.String(),
				"parent_code": nullable(u.ParentCode),
			}
			if err := tx.Model(&productRow{}).Where("code = ?", u.Code).Updates(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return classify("update", constants.ProductsTable, err)
}

// RenameProducts implements store.ProductStore.
func (s *Store) RenameProducts(ctx context.Context, renames []taxonomy.Rename) error {
	if len(renames) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range renames {
			if err := tx.Model(&productRow{}).Where("code = ?", r.Code).Update("name", r.To).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return classify("update", constants.ProductsTable, err)
}

// UpsertRelations implements store.RelationStore. The conflict branch only
// fires when the incoming score is strictly greater than the stored one,
// so concurrent writers can never lower a score.
func (s *Store) UpsertRelations(ctx context.Context, relations []taxonomy.Relation) error {
	if len(relations) == 0 {
		return nil
	}
	rows := make([]relationRow, 0, len(relations))
	for _, r := range relations {
		rows = append(rows, relationToRow(r))
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_code"}, {Name: "product_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"matching_score", "reason"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "excluded.matching_score > " + constants.RelationsTable + ".matching_score"},
			}},
		}).
		Create(&rows).Error
	return classify("upsert", constants.RelationsTable, err)
}

// ClearRelations implements store.RelationStore.
func (s *Store) ClearRelations(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	var err error
	if s.driver == DriverPostgres {
		err = db.Exec("TRUNCATE " + constants.RelationsTable).Error
	} else {
		err = db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&relationRow{}).Error
	}
	return classify("clear", constants.RelationsTable, err)
}

// Relations implements store.RelationStore.
func (s *Store) Relations(ctx context.Context, filter taxonomy.RelationFilter) ([]taxonomy.Relation, error) {
	q := s.db.WithContext(ctx).Model(&relationRow{})
	if filter.ActivityCode != "" {
		q = q.Where("activity_code = ?", filter.ActivityCode)
	}
	if filter.ProductCode != "" {
		q = q.Where("product_code = ?", filter.ProductCode)
	}
	if filter.MinScore > 0 {
		q = q.Where("matching_score >= ?", filter.MinScore)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []relationRow
	if err := q.Order("matching_score DESC, activity_code, product_code").Find(&rows).Error; err != nil {
		return nil, classify("read", constants.RelationsTable, err)
	}
	out := make([]taxonomy.Relation, 0, len(rows))
	for _, r := range rows {
		out = append(out, relationFromRow(r))
	}
	return out, nil
}
