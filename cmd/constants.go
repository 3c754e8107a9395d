package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "abisync.json"

// ConfigFlagDescription describes the --config flag shared by every command that reads a project configuration.
const ConfigFlagDescription = "path to config file (default is " + DefaultProjectConfigFilename + " in the working directory, if it exists)"
