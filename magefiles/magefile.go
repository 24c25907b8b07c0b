//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	serverBin = "bin/ldpr-server"
	ctlBin    = "bin/reportctl"
)

// Build tidies deps, then compiles the server and the CLI into ./bin.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	if err := sh.Run("go", "build", "-o", serverBin, "./cmd/server"); err != nil {
		return err
	}
	fmt.Println(">> Building reportctl...")
	return sh.Run("go", "build", "-o", ctlBin, "./cmd/reportctl")
}

// Run builds then executes the server binary.
func Run() error {
	mg.Deps(Build)
	fmt.Printf(">> Starting server on :%s ...\n", port())
	return sh.Run("./" + serverBin)
}

// Dev starts the server via go run with console logging at debug level.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd/server ...")
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "PORT="+port(), "LOG_LEVEL=debug", "LOG_FORMAT=console")
	return cmd.Run()
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests with the race detector.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts, generated PDFs and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	os.RemoveAll("bin")
	os.RemoveAll(envOr("MEDIA_DIR", "media"))
	return os.RemoveAll(envOr("DB_PATH", "reports.db"))
}

// Install installs both binaries to $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", "./cmd/server", "./cmd/reportctl")
}

func port() string { return envOr("PORT", "8080") }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
