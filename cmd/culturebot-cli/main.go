// Package main provides the culturebot-cli command-line tool for operating
// the CultureBot service.
package main

import (
	"fmt"
	"os"

	culturebot "github.com/AGC-Technical-Team/CultureBot"
	"github.com/AGC-Technical-Team/CultureBot/internal/version"
)

const usage = `culturebot-cli — CultureBot command line tool

Usage:
  culturebot-cli <command> [arguments]

Commands:
  validate <config-file>    Validate a service configuration file (JSON/YAML)
  version                   Print version info
  help                      Show this help
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "validate":
		cmdValidate()
	case "version":
		fmt.Printf("culturebot %s\n", version.String())
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(1)
	}
}

func cmdValidate() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: culturebot-cli validate <config-file>")
		os.Exit(1)
	}
	path := os.Args[2]

	cfg, err := culturebot.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := culturebot.ValidateConfig(*cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(1)
	}

	backend := "in-process LRU"
	if cfg.Cache.UseRedis {
		backend = "redis (" + cfg.Cache.RedisAddr + ")"
	}
	fmt.Printf("✓ Config is valid\n")
	fmt.Printf("  Listen:   %s\n", cfg.Server.Addr)
	fmt.Printf("  Provider: %s\n", cfg.Provider.Name)
	fmt.Printf("  Cache:    %s\n", backend)
}
