package config

import "time"

// Base application details
const AppName = "modstudio"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "modstudio.log"

// Storage locations, relative to the application config directory
const DefaultSnippetsDirName = "snippets"
const DefaultDatabaseFileName = "modstudio.db"

const DefaultStorageBackend = "file"
const DefaultHistoryLimit = 100
const DefaultDebounce = 65 * time.Millisecond
const DefaultCacheTTL = 10 * time.Minute
