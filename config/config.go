package config

import (
	"log"
	"strings"
	"time"

	"dosakart-api/models"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Load wires viper to the DOSAKART_* environment with sane defaults.
// Call once from main before InitDB.
func Load() {
	viper.SetEnvPrefix("dosakart")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", "8080")
	viper.SetDefault("gin.mode", "debug")
	viper.SetDefault("db.path", "dosakart.db")
	viper.SetDefault("jwt.secret", "dosakart_super_secret_2024")
	viper.SetDefault("token.ttl_hours", 24)
}

func Port() string { return viper.GetString("port") }

func GinMode() string { return viper.GetString("gin.mode") }

// JWTSecret signs and verifies session tokens.
func JWTSecret() []byte { return []byte(viper.GetString("jwt.secret")) }

func TokenTTL() time.Duration {
	return time.Duration(viper.GetInt("token.ttl_hours")) * time.Hour
}

func InitDB() {
	OpenDB(viper.GetString("db.path"))
}

// OpenDB connects to the given sqlite path and migrates all models.
// Tests pass an in-memory path here.
func OpenDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.PromoCode{},
		&models.FeatureFlag{},
		&models.ConfigEntry{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated")
}
