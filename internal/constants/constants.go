package constants

// Modality represents how progress on a habit day is measured
type Modality string

// RuleType represents the shape of a recurrence rule
type RuleType string

const (
	AppName            = "habitkit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitkit/habitkit.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Modality constants
	ModalityRepetitions Modality = "repetitions"
	ModalityDuration    Modality = "duration"
	ModalityQuantity    Modality = "quantity"

	// Recurrence rule constants
	RuleDailyEveryDay     RuleType = "daily"
	RuleDailyInterval     RuleType = "daily-interval"
	RuleDailySpecificDays RuleType = "daily-specific-days"
	RuleWeekly            RuleType = "weekly"
	RuleWeeklyInterval    RuleType = "weekly-interval"
	RuleMonthly           RuleType = "monthly"
	RuleMonthlyInterval   RuleType = "monthly-interval"

	// DaysPerWeek is the length of one rotation week in a specific-days mask
	DaysPerWeek = 7

	// MaxMonthDays is the length of a monthly day-of-month mask
	MaxMonthDays = 31
)
