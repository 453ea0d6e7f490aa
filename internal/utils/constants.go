package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "arbor"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".arbor.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".arbor"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command failures.
	ApplicationExecutionFailedMessage = "arbor failed"
)
