package config

// Base application details
const AppName = "reflow"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "reflow.log"

// Formatting defaults
const DefaultSpaceBeforeParen = true
const SystemClipboard = false

// GObject defaults
const DefaultPropertyFlags = "G_PARAM_READWRITE"
