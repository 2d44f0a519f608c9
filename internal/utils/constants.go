package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// Application identity and configuration file locations.
const (
	// ApplicationName is the binary name used in help and version output.
	ApplicationName = "fdump"
	// ConfigFileName is the file name of the global configuration under GlobalConfigDirectoryName.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the file name looked up in the working directory. It is
	// specific to fdump so that a project's own config.yaml is never read.
	LocalConfigFileName = ".fdump.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".fdump"
)

// Messages used by the entry point.
const (
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	ApplicationExecutionFailedMessage       = "application execution failed"
)
