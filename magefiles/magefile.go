//go:build mage

// Package main provides build targets for slicecrop using Mage.
//
// Usage:
//
//	mage build    Compile slicecrop to bin/ with version information
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage clean    Remove build artifacts and run outputs
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "slicecrop"
	binaryDir  = "bin"
	cmdDir     = "./cmd/slicecrop"
)

// Build compiles the slicecrop binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "unknown"
	}
	vars := map[string]string{
		"Version":   version,
		"BuildTime": time.Now().UTC().Format(time.RFC3339),
		"GitCommit": commit,
	}
	var flags []string
	for _, name := range []string{"Version", "BuildTime", "GitCommit"} {
		flags = append(flags, fmt.Sprintf("-X main.%s=%s", name, vars[name]))
	}
	return strings.Join(flags, " ")
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Install builds and copies slicecrop to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.RunV("go", "install", "-ldflags", ldflags(), cmdDir)
}

// Clean removes build artifacts and the default output folders.
func Clean() error {
	for _, dir := range []string{binaryDir, "Slices", "Boundaries"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
