package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/primekad/laundry-management-system-sub002/internal/config"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/pkg/logger"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.NewGormLogger(level, cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations")

	err := db.AutoMigrate(
		&entity.Permission{},
		&entity.Role{},
		&entity.User{},
		&entity.Branch{},
		&entity.BranchMembership{},

		&entity.ServiceType{},
		&entity.ServiceCategory{},
		&entity.Customer{},

		&entity.Order{},
		&entity.OrderItem{},
		&entity.Payment{},
		&entity.Expense{},

		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

// Permission names checked by route guards
const (
	PermViewDashboard   = "view-dashboard"
	PermManageOrders    = "manage-orders"
	PermManageCustomers = "manage-customers"
	PermManageServices  = "manage-services"
	PermManageExpenses  = "manage-expenses"
	PermManageBranches  = "manage-branches"
	PermManageUsers     = "manage-users"
	PermViewReports     = "view-reports"
)

// rolePermissions maps each seeded role to its permissions; nil means all
var rolePermissions = map[string][]string{
	entity.RoleSuperAdmin: nil,
	entity.RoleAdmin:      nil,
	entity.RoleManager: {
		PermViewDashboard, PermManageOrders, PermManageCustomers,
		PermManageServices, PermManageExpenses, PermViewReports,
	},
	entity.RoleStaff: {PermViewDashboard, PermManageOrders, PermManageCustomers},
}

var defaultServiceTypes = []entity.ServiceType{
	{Name: "Wash & Fold", DefaultPrice: decimal.NewFromInt(15), PricingUnit: entity.PricingPerKg},
	{Name: "Wash & Iron", DefaultPrice: decimal.NewFromInt(10), PricingUnit: entity.PricingPerItem},
	{Name: "Dry Cleaning", DefaultPrice: decimal.NewFromInt(25), PricingUnit: entity.PricingPerItem},
	{Name: "Ironing Only", DefaultPrice: decimal.NewFromInt(5), PricingUnit: entity.PricingPerItem},
}

var defaultCategories = []string{"Shirts", "Trousers", "Dresses", "Suits", "Bedding", "Curtains"}

// SeedDefaultData creates permissions, roles, the catalog, and the first
// super admin with a main branch. It is safe to run on every start.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig) error {
	log.Info().Msg("Seeding default data")

	return db.Transaction(func(tx *gorm.DB) error {
		perms, err := seedPermissions(tx)
		if err != nil {
			return err
		}
		if err := seedRoles(tx, perms); err != nil {
			return err
		}
		if err := seedCatalog(tx); err != nil {
			return err
		}
		if admin.Email == "" || admin.Password == "" {
			log.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping super admin seed")
			return nil
		}
		return seedAdmin(tx, admin)
	})
}

func seedPermissions(tx *gorm.DB) (map[string]entity.Permission, error) {
	names := []string{
		PermViewDashboard, PermManageOrders, PermManageCustomers, PermManageServices,
		PermManageExpenses, PermManageBranches, PermManageUsers, PermViewReports,
	}
	out := make(map[string]entity.Permission, len(names))
	for _, name := range names {
		p := entity.Permission{Name: name}
		if err := tx.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return nil, fmt.Errorf("seed permission %s: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

func seedRoles(tx *gorm.DB, perms map[string]entity.Permission) error {
	for name, allowed := range rolePermissions {
		role := entity.Role{Name: name}
		if err := tx.Where(entity.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}

		var grant []entity.Permission
		if allowed == nil {
			for _, p := range perms {
				grant = append(grant, p)
			}
		} else {
			for _, n := range allowed {
				grant = append(grant, perms[n])
			}
		}
		if err := tx.Model(&role).Association("Permissions").Replace(grant); err != nil {
			return fmt.Errorf("grant permissions to %s: %w", name, err)
		}
	}
	return nil
}

func seedCatalog(tx *gorm.DB) error {
	for _, st := range defaultServiceTypes {
		st := st
		if err := tx.Where(entity.ServiceType{Name: st.Name}).Attrs(st).FirstOrCreate(&st).Error; err != nil {
			return fmt.Errorf("seed service type %s: %w", st.Name, err)
		}
	}
	for _, name := range defaultCategories {
		c := entity.ServiceCategory{Name: name}
		if err := tx.Where(entity.ServiceCategory{Name: name}).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}
	return nil
}

func seedAdmin(tx *gorm.DB, admin config.AdminConfig) error {
	var existing entity.User
	err := tx.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		log.Info().Str("email", admin.Email).Msg("Super admin already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var role entity.Role
	if err := tx.Where("name = ?", entity.RoleSuperAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("load super-admin role: %w", err)
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Super Admin"
	}
	first, last, _ := strings.Cut(name, " ")

	user := entity.User{
		FirstName: first,
		LastName:  last,
		Email:     admin.Email,
		Password:  hashed,
		Provider:  "local",
		IsActive:  true,
		Roles:     []entity.Role{role},
	}
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	branch := entity.Branch{Name: "Main Branch", Code: "MAIN", IsActive: true}
	if err := tx.Where(entity.Branch{Code: branch.Code}).FirstOrCreate(&branch).Error; err != nil {
		return fmt.Errorf("create main branch: %w", err)
	}
	membership := entity.BranchMembership{BranchID: branch.ID, UserID: user.ID, Role: entity.RoleManager}
	if err := tx.Create(&membership).Error; err != nil {
		return fmt.Errorf("add admin to main branch: %w", err)
	}

	log.Info().Str("email", admin.Email).Msg("Super admin created")
	return nil
}
