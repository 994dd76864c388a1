package config

// Logger colors, one per component writing to stdout.
const (
	ColorGreen  = "\033[32m" // APP
	ColorYellow = "\033[33m" // LEVEL
	ColorPurple = "\033[35m" // LEVEL-API
	ColorCyan   = "\033[36m" // LEVEL-MANAGER
)
