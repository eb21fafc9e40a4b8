package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// EnvExpectations names the environment variable holding the default
// expectation file or glob.
const EnvExpectations = "REQMATCH_EXPECTATIONS"

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars expands ${VAR_NAME} and ${VAR_NAME:-default} references
// using the process environment.
func ExpandEnvVars(input string) string {
	return ExpandEnvVarsWith(input, os.Getenv)
}

// ExpandEnvVarsWith is ExpandEnvVars with a custom lookup. An unset or
// empty variable falls back to its default, or to the empty string.
func ExpandEnvVarsWith(input string, getenv func(string) string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		if val := getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}

// ResolvePath resolves a potentially relative path against a base directory.
func ResolvePath(basePath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	if strings.HasPrefix(targetPath, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, targetPath[2:])
		}
	}
	if basePath == "" {
		return targetPath
	}
	return filepath.Join(basePath, targetPath)
}
