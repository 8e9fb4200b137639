package config

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, file path for sqlite
	GormEngine string `validate:"omitempty,oneof=mysql postgres sqlite"`
	LogLevel   string // gorm log level: silent, error, warn, info
}
