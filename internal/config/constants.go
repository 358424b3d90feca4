package config

// Application constants
const (
	AppName = "dendro"

	// EnvPrefix namespaces every environment variable, e.g. DENDRO_PARSE_SCALE
	EnvPrefix = "DENDRO"

	// Export
	DefaultExportFormat = "csv"
	DefaultPrecision    = -1

	// Batch
	DefaultOutputDir = "aligned"
	MaxBatchWorkers  = 64

	// BatchManifestFile is appended to in the output directory by every batch run
	BatchManifestFile = "manifest.csv"

	// Logging
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLogOutput = "stderr"
	DefaultLogFile   = "logs/dendro.log"
)

// configFileLocations are searched in order when no config file is given
var configFileLocations = []string{
	"dendro.yaml",
	"configs/dendro.yaml",
}
