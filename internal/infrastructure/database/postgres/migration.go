// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/domain/cart"
	"github.com/your-org/cafe-backend/internal/domain/catalog"
	"github.com/your-org/cafe-backend/internal/domain/order"
	"github.com/your-org/cafe-backend/internal/domain/user"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed.yaml
var defaultSeed []byte

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		// Lookup tables
		&user.Role{},
		&order.Status{},
		&order.DeliveryMethod{},

		// Users
		&user.User{},

		// Catalog
		&catalog.MenuCategory{},
		&catalog.MenuItem{},
		&catalog.Product{},

		// Cart
		&cart.CartItem{},

		// Orders
		&order.Order{},
		&order.OrderLineItem{},
		&order.OrderStatusHistory{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for the hot read paths
func (m *Migration) CreateIndexes() error {
	m.log.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		// Menu indexes
		"CREATE INDEX IF NOT EXISTS idx_menu_items_category_available ON menu_items(category_id, is_available)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_created ON cart_items(user_id, created_at)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status_id, created_at DESC)",

		// Order line item indexes
		"CREATE INDEX IF NOT EXISTS idx_order_line_items_order_position ON order_line_items(order_id, position)",

		// Order status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at)",
	}

	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.log.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		}
	}

	m.log.WithFields(logrus.Fields{
		"created": len(indexes) - failCount,
		"failed":  failCount,
	}).Info("✅ Indexes created")

	if failCount > 0 {
		return fmt.Errorf("%d of %d indexes could not be created", failCount, len(indexes))
	}
	return nil
}

// SeedData is the reference data loaded by SeedInitialData
type SeedData struct {
	Roles           []SeedLookup   `yaml:"roles"`
	OrderStatuses   []SeedLookup   `yaml:"order_statuses"`
	DeliveryMethods []SeedLookup   `yaml:"delivery_methods"`
	MenuCategories  []SeedLookup   `yaml:"menu_categories"`
	MenuItems       []SeedMenuItem `yaml:"menu_items"`
	Products        []SeedProduct  `yaml:"products"`
	Users           []SeedUser     `yaml:"users"`
}

// SeedLookup is an (id, name) row
type SeedLookup struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
}

// SeedMenuItem is a menu item row; Price is a decimal string
type SeedMenuItem struct {
	ID         uint    `yaml:"id"`
	Name       string  `yaml:"name"`
	CategoryID uint    `yaml:"category_id"`
	Weight     float64 `yaml:"weight"`
	Price      string  `yaml:"price"`
	Available  bool    `yaml:"available"`
}

// SeedProduct is a retail product row; Price is a decimal string
type SeedProduct struct {
	ID      uint   `yaml:"id"`
	Name    string `yaml:"name"`
	Price   string `yaml:"price"`
	InStock bool   `yaml:"in_stock"`
}

// SeedUser is a user row; Role is a role name
type SeedUser struct {
	ID       int64  `yaml:"id"`
	Role     string `yaml:"role"`
	Username string `yaml:"username"`
}

// LoadSeed reads seed data from path, or the built-in seed when path is empty
func LoadSeed(path string) (*SeedData, error) {
	raw := defaultSeed
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = content
	}

	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &data, nil
}

// SeedInitialData inserts reference data. Lookup and catalog rows that already
// exist are left untouched and seeded users get their role reapplied, so
// seeding is safe to repeat.
func (m *Migration) SeedInitialData(ctx context.Context, data *SeedData) error {
	m.log.Info("🌱 Seeding initial data...")

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedRows(tx, lookups(data.Roles, func(l SeedLookup) user.Role {
			return user.Role{ID: l.ID, Name: l.Name}
		})); err != nil {
			return fmt.Errorf("failed to seed roles: %w", err)
		}

		if err := seedRows(tx, lookups(data.OrderStatuses, func(l SeedLookup) order.Status {
			return order.Status{ID: l.ID, Name: l.Name}
		})); err != nil {
			return fmt.Errorf("failed to seed order statuses: %w", err)
		}

		if err := seedRows(tx, lookups(data.DeliveryMethods, func(l SeedLookup) order.DeliveryMethod {
			return order.DeliveryMethod{ID: l.ID, Name: l.Name}
		})); err != nil {
			return fmt.Errorf("failed to seed delivery methods: %w", err)
		}

		if err := seedRows(tx, lookups(data.MenuCategories, func(l SeedLookup) catalog.MenuCategory {
			return catalog.MenuCategory{ID: l.ID, Name: l.Name}
		})); err != nil {
			return fmt.Errorf("failed to seed menu categories: %w", err)
		}

		items := make([]catalog.MenuItem, 0, len(data.MenuItems))
		for _, row := range data.MenuItems {
			price, err := decimal.NewFromString(row.Price)
			if err != nil {
				return fmt.Errorf("menu item %q: invalid price %q: %w", row.Name, row.Price, err)
			}
			items = append(items, catalog.MenuItem{
				ID:          row.ID,
				Name:        row.Name,
				CategoryID:  row.CategoryID,
				Weight:      row.Weight,
				Price:       price,
				IsAvailable: row.Available,
			})
		}
		if err := seedRows(tx, items); err != nil {
			return fmt.Errorf("failed to seed menu items: %w", err)
		}

		products := make([]catalog.Product, 0, len(data.Products))
		for _, row := range data.Products {
			price, err := decimal.NewFromString(row.Price)
			if err != nil {
				return fmt.Errorf("product %q: invalid price %q: %w", row.Name, row.Price, err)
			}
			products = append(products, catalog.Product{
				ID:      row.ID,
				Name:    row.Name,
				Price:   price,
				InStock: row.InStock,
			})
		}
		if err := seedRows(tx, products); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		for _, row := range data.Users {
			if err := seedUser(tx, row); err != nil {
				return fmt.Errorf("failed to seed user %d: %w", row.ID, err)
			}
		}

		return m.resetSequences(tx)
	})
	if err != nil {
		return err
	}

	m.log.Info("✅ Initial data seeded successfully")
	return nil
}

// SeedAdmin makes sure the given Telegram user exists with the ADMIN role
func (m *Migration) SeedAdmin(ctx context.Context, id int64, username string) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seedUser(tx, SeedUser{ID: id, Role: user.RoleAdmin, Username: username})
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin %d: %w", id, err)
	}

	m.log.WithField("user_id", id).Info("👤 Admin user ensured")
	return nil
}

func lookups[T any](rows []SeedLookup, build func(SeedLookup) T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = build(row)
	}
	return out
}

func seedRows[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func seedUser(tx *gorm.DB, row SeedUser) error {
	roleName := row.Role
	if roleName == "" {
		roleName = user.DefaultRole
	}

	var role user.Role
	if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
		return fmt.Errorf("role %q: %w", roleName, err)
	}

	u := user.User{ID: row.ID, RoleID: role.ID}
	if row.Username != "" {
		username := row.Username
		u.Username = &username
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role_id"}),
	}).Create(&u).Error
}

// resetSequences moves Postgres ID sequences past explicitly seeded IDs
func (m *Migration) resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}

	tables := []string{"roles", "order_statuses", "delivery_methods", "menu_categories", "menu_items", "products"}
	for _, table := range tables {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
			table, table,
		)
		if err := tx.Exec(query).Error; err != nil {
			return fmt.Errorf("failed to reset %s sequence: %w", table, err)
		}
	}
	return nil
}

// DropAllTables drops every table in reverse dependency order
func (m *Migration) DropAllTables() error {
	m.log.Warn("🗑️ Dropping all tables...")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}

	m.log.Info("✅ All tables dropped")
	return nil
}

// TableInfo is the row count of one table
type TableInfo struct {
	Table   string
	Records int64
}

// GetTableInfo returns the row count of every migrated table
func (m *Migration) GetTableInfo(ctx context.Context) ([]TableInfo, error) {
	db := m.db.WithContext(ctx)

	infos := make([]TableInfo, 0, len(Models()))
	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to resolve table for %T: %w", model, err)
		}

		var count int64
		if err := db.Table(stmt.Schema.Table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", stmt.Schema.Table, err)
		}
		infos = append(infos, TableInfo{Table: stmt.Schema.Table, Records: count})
	}

	return infos, nil
}
