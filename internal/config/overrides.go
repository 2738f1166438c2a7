package config

// Overrides holds command-line values. Nil fields were not given and
// leave the file or default value in place.
type Overrides struct {
	LogLevel         *string
	LogFilePath      *string
	SpaceBeforeParen *bool
	SystemClipboard  *bool
	DefaultFlags     *string
}

// Apply copies every set override into cfg. A nil receiver does nothing.
func (o *Overrides) Apply(cfg *Config) {
	if o == nil {
		return
	}
	if o.LogLevel != nil && *o.LogLevel != "" {
		cfg.Logger.LogLevel = *o.LogLevel
	}
	if o.LogFilePath != nil { // empty is valid and disables logging
		cfg.Logger.LogFilePath = *o.LogFilePath
	}
	if o.SpaceBeforeParen != nil {
		cfg.Format.SpaceBeforeParen = *o.SpaceBeforeParen
	}
	if o.SystemClipboard != nil {
		cfg.Format.SystemClipboard = *o.SystemClipboard
	}
	if o.DefaultFlags != nil && *o.DefaultFlags != "" {
		cfg.GObject.DefaultFlags = *o.DefaultFlags
	}
}
