package config

// Default configuration values.
const (
	DefaultCommentsOutput = "comments.csv"
	DefaultErrorsOutput   = "errors.csv"
	DefaultOutputFormat   = "csv"
	DefaultTimestamp      = "author"
	DefaultLogLevel       = "info"
)
