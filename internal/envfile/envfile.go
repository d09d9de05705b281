// Package envfile applies variables from a dotenv-style file to the
// process environment. Real environment variables win over file values,
// so a .env file can hold defaults like CAIRN_INCLUDE_UNTRACKED without
// overriding anything set in the shell.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads the file at path and sets each variable that is not already
// present in the environment. A missing file is fine and returns nil;
// malformed lines are skipped rather than reported.
func Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	return nil
}

// parseEnvLine splits one line into a KEY=VALUE pair. Blank lines,
// comments, and lines without '=' report ok=false. An "export " prefix is
// tolerated so a sourceable shell file parses the same way, and a value
// wrapped in matching single or double quotes is unwrapped.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	if key == "" {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}
