// Package output writes generated proxies to disk.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toejough/go-reorder"
)

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Filename returns the file a proxy named proxyName is written to:
// generated_<proxyName>.go, or generated_<proxyName>_test.go when the
// generating package or source file is a test one.
func Filename(proxyName, pkgName, goFile string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(proxyName, ".go"), "_test")

	if strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go") ||
		strings.HasSuffix(strings.TrimSuffix(proxyName, ".go"), "_test") {
		return "generated_" + base + "_test.go"
	}

	return "generated_" + base + ".go"
}

// WriteGeneratedCode reorders code's declarations and writes it to Filename.
// A reorder failure is reported on out and the code is written as given.
func WriteGeneratedCode(
	code, proxyName, pkgName string, getEnv func(string) string, fileWriter Writer, out io.Writer,
) (string, error) {
	const generatedFilePermissions = 0o600

	filename := Filename(proxyName, pkgName, getEnv("GOFILE"))

	reordered, err := reorder.Source(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = code
	}

	err = fileWriter.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return "", fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return filename, nil
}
