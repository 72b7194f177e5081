package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
)

const exampleHeader = `# garden site configuration.
# ${VAR} references are expanded from the environment (and .env files).
`

// Init writes an example configuration file with every default spelled out.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Site.BaseURL = "https://example.com"
	example.Preview.RebuildInterval = "15m"

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example configuration").Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create configuration directory").Build()
		}
	}
	if err := os.WriteFile(configPath, append([]byte(exampleHeader), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
