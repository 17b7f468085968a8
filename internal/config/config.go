package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	// PointsPerHour is credited for each whole hour of lifetime connected
	// time newly crossed when a session ends.
	PointsPerHour int64 `env:"POINTS_PER_HOUR" envDefault:"100"`

	// CampusBSSID is the campus access-point address; only its first four
	// octets are compared when a session starts.
	CampusBSSID string `env:"WIFI_BSSID,required"`

	TreeCatalogPath string `env:"TREE_CATALOG_PATH" envDefault:"config/tree_catalog.toml"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
