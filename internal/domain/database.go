package domain

// DatabaseDriver represents the type of relational engine backing the store.
type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverMySQL    DatabaseDriver = "mysql"
)

// DatabaseConnection holds the metadata for opening the reference database.
// The password is never read from the config file, only from the environment.
type DatabaseConnection struct {
	Driver   DatabaseDriver `yaml:"driver" json:"driver"`
	Path     string         `yaml:"path" json:"path"` // sqlite file
	Host     string         `yaml:"host" json:"host"`
	Port     int            `yaml:"port" json:"port"` // 0 uses the driver default
	Database string         `yaml:"database" json:"database"`
	Username string         `yaml:"username" json:"username"`
	Password string         `yaml:"-" json:"-"`
	SSLMode  string         `yaml:"ssl_mode" json:"sslMode"`
}
