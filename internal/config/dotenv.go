package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DotEnvFiles returns the env files looked up in dir, highest priority first:
// .env.local, .env.<appEnv>, .env
func DotEnvFiles(dir, appEnv string) []string {
	names := []string{".env.local"}
	if appEnv = strings.TrimSpace(appEnv); appEnv != "" {
		names = append(names, ".env."+appEnv)
	}
	names = append(names, ".env")

	files := make([]string, 0, len(names))
	for _, n := range names {
		files = append(files, filepath.Join(dir, n))
	}
	return files
}

// LoadDotEnv loads the existing files of DotEnvFiles. godotenv never overwrites a
// variable that is already set, so the process environment wins and earlier files
// win over later ones. It returns the files loaded; a file that exists but cannot
// be parsed is reported in err and skipped.
func LoadDotEnv(dir string) ([]string, error) {
	var (
		loaded []string
		errs   []error
	)
	for _, f := range DotEnvFiles(dir, os.Getenv("APP_ENV")) {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", f, err))
			continue
		}
		loaded = append(loaded, f)
	}
	return loaded, errors.Join(errs...)
}
