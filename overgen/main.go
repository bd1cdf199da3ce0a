// overgen generates method-override proxies for Go types.
// Add `//go:generate overgen <Type> --methods A,B` next to the type (or in a test
// file of its package) to generate <Type>CacheProxy, a struct embedding the type
// whose listed methods call caller-supplied implementations. Each implementation
// receives the original method as a closure. Add `--name <ProxyName>` to choose
// the proxy's name. The proxy is written to generated_<ProxyName>.go, or
// generated_<ProxyName>_test.go in a test package.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/toejough/overrider/overgen/run"
	load "github.com/toejough/overrider/overgen/run/2_load"
)

// main is the entry point of the overgen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, load.Loader{}, os.Stdout)
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using os package.
type realFileSystem struct{}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// reportError prints err with a highlighted prefix.
func reportError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed, color.Bold).Fprint(w, "Error: ")
	_, _ = fmt.Fprintf(w, "%v\n", err)
}
