package config

// Config represents the complete configuration structure
type Config struct {
	Influx  InfluxConfig  `mapstructure:"influx"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// InfluxConfig holds InfluxDB API connection details
type InfluxConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
	Org   string `mapstructure:"org"`
}

// FilterConfig contains the default filter expression and named presets
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default_expression"`
	Presets           map[string]Preset `mapstructure:"presets"`
}

// Preset is a named, reusable filter expression
type Preset struct {
	Description string `mapstructure:"description"`
	Expression  string `mapstructure:"expression"`
}

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun        bool `mapstructure:"dry_run"`
	ConfirmDelete bool `mapstructure:"confirm_delete"`
	ShowDetails   bool `mapstructure:"show_details"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
