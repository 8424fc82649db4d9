package config

const (
	defaultCatalogPath = "~/.jamra-data/catalog.sqlite"
	defaultExtension   = "com.weebcentral.manga"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultOutputColor = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			Path:             defaultCatalogPath,
			DefaultExtension: defaultExtension,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Output: Output{
			Color: defaultOutputColor,
		},
	}
}
