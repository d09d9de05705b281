package output

import (
	"io"
	"os"
)

// ResolveColorMode maps the --color flag value onto a final color
// decision. "always" and "never" force the answer regardless of where
// output goes; any other value (including "auto") defers to the isTTY
// detection result.
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	}
	return isTTY
}

// IsTTY reports whether the writer is an interactive terminal. Anything
// that is not an *os.File backed by a character device, such as a pipe or
// a test buffer, reports false.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
