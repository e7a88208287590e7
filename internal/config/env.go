package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// ClientEnvPrefix marks environment variables that are embedded into the
// bundle as process.env.* values.
const ClientEnvPrefix = "REACT_APP_"

// DotEnvFiles returns the candidate .env files for mode in precedence
// order. Earlier files win because godotenv never overrides a variable
// that is already set.
func DotEnvFiles(appDir, mode string) []string {
	names := []string{
		".env." + mode + ".local",
		".env.local",
		".env." + mode,
		".env",
	}

	// .env.local is skipped in test mode so results are reproducible.
	if mode == ModeTest {
		names = append(names[:1], names[2:]...)
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		files = append(files, filepath.Join(appDir, name))
	}

	return files
}

// LoadDotEnv loads the existing .env files of appDir into the process
// environment and returns the ones that were read. Variables already present
// in the environment are left untouched.
func LoadDotEnv(appDir, mode string) ([]string, error) {
	var loaded []string

	for _, file := range DotEnvFiles(appDir, mode) {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			return loaded, fmt.Errorf("loading env file %s: %w", file, err)
		}

		loaded = append(loaded, file)
	}

	return loaded, nil
}

// ClientEnv collects the variables exposed to application code: every
// REACT_APP_* variable plus NODE_ENV (set to mode) and PUBLIC_URL.
func ClientEnv(mode, publicURL string) map[string]string {
	env := map[string]string{
		"NODE_ENV":   mode,
		"PUBLIC_URL": publicURL,
	}

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, ClientEnvPrefix) {
			continue
		}

		env[key] = value
	}

	return env
}

// SortedKeys returns the keys of env in lexical order.
func SortedKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
