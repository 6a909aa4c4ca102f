//go:build mage

// Package main provides build targets for strivetrack using Mage.
//
// Usage:
//
//	mage build      Compile the strivetrack binary to bin/
//	mage test       Run all tests
//	mage testShort  Run tests in short mode (skips the binary workflow)
//	mage cover      Run tests with a coverage profile in bin/
//	mage lint       Run golangci-lint
//	mage serve      Build, then serve the JSON API
//	mage clean      Remove build artifacts
//	mage install    Install strivetrack to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "strivetrack"
	binaryDir  = "bin"
	cmdDir     = "./cmd/strivetrack"
)

// Build compiles the strivetrack binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestShort runs tests in short mode.
func TestShort() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Cover runs tests and writes a coverage profile to bin/cover.out.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "cover.out")
	if err := sh.RunV(binGo, "test", "-coverprofile="+profile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+profile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Serve builds the binary and starts the API with the default data dir.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "serve")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
