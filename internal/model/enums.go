package model

// Document status
type DocumentStatus string

const (
	StatusQueued     DocumentStatus = "queued"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Parsing stages, ordered. The active stage is derived from progress.
const (
	StageExtractingText     = "Extracting text"
	StageAnalyzingStructure = "Analyzing structure"
	StageExtractingEntities = "Extracting entities"
	StageProcessingSkills   = "Processing skills"
	StageFinalizingResults  = "Finalizing results"
)

var ParseStages = []string{
	StageExtractingText,
	StageAnalyzingStructure,
	StageExtractingEntities,
	StageProcessingSkills,
	StageFinalizingResults,
}

// StageAt maps a progress value in [0,100] to the stage label shown for it.
// Progress 100 stays clamped to the final stage.
func StageAt(progress float64) string {
	idx := int(progress / 100 * float64(len(ParseStages)))
	if idx >= len(ParseStages) {
		idx = len(ParseStages) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return ParseStages[idx]
}

// Themes
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var ValidThemes = []Theme{ThemeAuto, ThemeLight, ThemeDark}

// Notification severities
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Export formats
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)
