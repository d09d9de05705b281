package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("Load of missing file = %v, want nil", err)
	}
}

func TestLoadSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# comment line
CAIRN_TEST_PLAIN=hello
CAIRN_TEST_QUOTED="quoted value"
CAIRN_TEST_SINGLE='single'
export CAIRN_TEST_EXPORTED=yes

not-a-valid-line
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	for _, key := range []string{"CAIRN_TEST_PLAIN", "CAIRN_TEST_QUOTED", "CAIRN_TEST_SINGLE", "CAIRN_TEST_EXPORTED"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	if err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cases := map[string]string{
		"CAIRN_TEST_PLAIN":    "hello",
		"CAIRN_TEST_QUOTED":   "quoted value",
		"CAIRN_TEST_SINGLE":   "single",
		"CAIRN_TEST_EXPORTED": "yes",
	}
	for key, want := range cases {
		if got := os.Getenv(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoadDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CAIRN_TEST_PRESET=from-file\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv("CAIRN_TEST_PRESET", "from-env")
	if err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := os.Getenv("CAIRN_TEST_PRESET"); got != "from-env" {
		t.Errorf("CAIRN_TEST_PRESET = %q, want from-env", got)
	}
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line      string
		key, want string
		ok        bool
	}{
		{"KEY=value", "KEY", "value", true},
		{"KEY=", "KEY", "", true},
		{`KEY="spaced out"`, "KEY", "spaced out", true},
		{"export KEY=v", "KEY", "v", true},
		{"KEY=a=b", "KEY", "a=b", true},
		{"novalue", "", "", false},
		{"=value", "", "", false},
	}
	for _, tc := range cases {
		key, value, ok := parseEnvLine(tc.line)
		if key != tc.key || value != tc.want || ok != tc.ok {
			t.Errorf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.line, key, value, ok, tc.key, tc.want, tc.ok)
		}
	}
}
