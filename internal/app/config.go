package app

import "time"

// Config holds runtime configuration for one digest run.
type Config struct {
	// Interests is the free-text profile the ranking model matches against.
	Interests string

	// Research window and limits.
	Categories         []string
	LookbackDays       int
	MaxRawPapers       int
	MaxSelectedPapers  int
	RequireProjectLink bool
	MaxFigures         int

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Social
	XBearerToken string

	// Output
	OutputRoot     string
	FilenamePrefix string
	PDF            bool

	// Behavior
	Force      bool
	ReportDate time.Time
	Verbose    bool
}
