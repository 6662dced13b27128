package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	config "github.com/anjiri1684/neighborhood_hub/configs"
	"github.com/anjiri1684/neighborhood_hub/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func gormConfig() *gorm.Config {
	return &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	if strings.HasPrefix(dsn, "sqlite://") {
		DB, err = OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"))
	} else {
		DB, err = gorm.Open(postgres.Open(dsn), gormConfig())
	}
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

// OpenSQLite opens a SQLite database with a single connection, which keeps
// ":memory:" databases alive and serializes writers.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Service{},
		&models.ServiceReview{},
		&models.Booking{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
		&models.MarketplaceItem{},
	}
}

func Migrate() {
	if err := DB.AutoMigrate(Models()...); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := strings.ToLower(config.Config("ADMIN_EMAIL"))
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed.")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	adminUser := models.User{
		Name:     config.ConfigDefault("ADMIN_FULL_NAME", "Administrator"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}

	log.Println("✅ Admin user seeded successfully")
}
