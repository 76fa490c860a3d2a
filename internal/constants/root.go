package constants

const (
	AppName            = "campusmate"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/campusmate"
	DefaultConfigFile  = "~/.config/campusmate/config.yaml"
	DefaultDBPath      = "~/.config/campusmate/campusmate.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthLabelFormat is the layout used for deadline month groups ("March 2025")
	MonthLabelFormat = "January 2006"

	// ReportTimestampFormat is the layout of the "Generated" line in checklist reports
	ReportTimestampFormat = "Monday, January 2, 2006 at 3:04 PM MST"

	// Report file naming
	ReportFilePrefix = "admission-checklist-"
	ReportFileSuffix = ".txt"

	// Persisted state keys
	StateKeyCompletion = "admission-checklist-progress"
	StateKeySelection  = "admission-checklist-selected"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "campusmate-"
	BackupFileSuffix = ".db"

	// Instance detection
	InstanceLockfileName = "campusmate.lock"

	// Server defaults
	DefaultServerAddress = "127.0.0.1:8080"

	// Environment
	EnvDBConnection = "CAMPUSMATE_DB_CONNECTION"
	EnvDebug        = "CAMPUSMATE_DEBUG"
	EnvViewer       = "CAMPUSMATE_VIEWER"
	EnvServerAddr   = "CAMPUSMATE_SERVER_ADDRESS"

	// State backends
	StateBackendFile     = "file"
	StateBackendDatabase = "database"
	DefaultStateDirName  = "state"
)
