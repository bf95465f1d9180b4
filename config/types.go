package config

import "time"

// Config represents the overall sqlkit configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Type     string `koanf:"type" json:"type" yaml:"type" mapstructure:"type" validate:"omitempty,oneof=postgresql oracle mysql sqlite"`
	Host     string `koanf:"host" json:"host" yaml:"host" mapstructure:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port     int    `koanf:"port" json:"port" yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	Database string `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Username string `koanf:"username" json:"username" yaml:"username" mapstructure:"username"`
	Password string `koanf:"password" json:"password" yaml:"password" mapstructure:"password"`

	ConnectionString string `koanf:"connectionstring" json:"connectionstring" yaml:"connectionstring" mapstructure:"connectionstring"`

	Pool  PoolConfig  `koanf:"pool" json:"pool" yaml:"pool" mapstructure:"pool"`
	Query QueryConfig `koanf:"query" json:"query" yaml:"query" mapstructure:"query"`

	PostgreSQL PostgreSQLConfig `koanf:"postgresql" json:"postgresql" yaml:"postgresql" mapstructure:"postgresql"`
	Oracle     OracleConfig     `koanf:"oracle" json:"oracle" yaml:"oracle" mapstructure:"oracle"`
}

// PoolConfig holds database/sql pool settings applied by the vendor openers.
// Zero values leave the database/sql defaults in place.
type PoolConfig struct {
	MaxOpen     int           `koanf:"maxopen" json:"maxopen" yaml:"maxopen" mapstructure:"maxopen" validate:"gte=0"`
	MaxIdle     int           `koanf:"maxidle" json:"maxidle" yaml:"maxidle" mapstructure:"maxidle" validate:"gte=0"`
	MaxLifetime time.Duration `koanf:"maxlifetime" json:"maxlifetime" yaml:"maxlifetime" mapstructure:"maxlifetime" validate:"gte=0"`
	MaxIdleTime time.Duration `koanf:"maxidletime" json:"maxidletime" yaml:"maxidletime" mapstructure:"maxidletime" validate:"gte=0"`
}

// QueryConfig holds settings related to query logging and slow query detection.
type QueryConfig struct {
	Slow SlowQueryConfig `koanf:"slow" json:"slow" yaml:"slow" mapstructure:"slow"`
	Log  QueryLogConfig  `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
}

// SlowQueryConfig holds settings for slow query detection.
type SlowQueryConfig struct {
	Threshold time.Duration `koanf:"threshold" json:"threshold" yaml:"threshold" mapstructure:"threshold" validate:"gte=0"`
	Enabled   bool          `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// QueryLogConfig holds settings for query logging.
type QueryLogConfig struct {
	Parameters bool `koanf:"parameters" json:"parameters" yaml:"parameters" mapstructure:"parameters"`
	MaxLength  int  `koanf:"max" json:"max" yaml:"max" mapstructure:"max" validate:"gte=0"`
}

// PostgreSQLConfig holds PostgreSQL-specific settings.
type PostgreSQLConfig struct {
	SSLMode string `koanf:"sslmode" json:"sslmode" yaml:"sslmode" mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// OracleConfig holds Oracle-specific settings.
// Exactly one of ServiceName, SID or Database identifies the target.
type OracleConfig struct {
	ServiceName string `koanf:"servicename" json:"servicename" yaml:"servicename" mapstructure:"servicename"`
	SID         string `koanf:"sid" json:"sid" yaml:"sid" mapstructure:"sid"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}
