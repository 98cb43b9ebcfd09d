package config

// Config holds app configuration
type Config struct {
	// Native is the monitor's resolution (WIDTHxHEIGHT), the state the
	// settings file must be in before stretching
	Native string `mapstructure:"native"`

	// Target is the stretched resolution written into the settings files
	Target string `mapstructure:"target"`

	// Force continues even when the native check fails
	Force bool `mapstructure:"force"`

	// Yes applies without asking for confirmation
	Yes bool `mapstructure:"yes"`

	// ConfigDir overrides %LOCALAPPDATA%\VALORANT\Saved\Config
	ConfigDir string `mapstructure:"config_dir"`

	HDRNits        string `mapstructure:"hdr_nits"`
	FullscreenMode string `mapstructure:"fullscreen_mode"`

	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
