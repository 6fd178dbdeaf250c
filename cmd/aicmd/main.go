package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/doeshing/aicmd/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := cli.Options{Verbose: isVerbose(os.Args[1:]), ConfigPath: configPath(os.Args[1:])}

	root, container, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	err = root.ExecuteContext(ctx)
	_ = container.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isVerbose checks AICMD_DEBUG and the --verbose flag. The container is built
// before cobra parses flags, so the flag is looked up here as well.
func isVerbose(args []string) bool {
	if v := os.Getenv("AICMD_DEBUG"); strings.EqualFold(v, "1") || strings.EqualFold(v, "true") {
		return true
	}
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "--verbose" || arg == "-v" {
			return true
		}
	}
	return false
}

func configPath(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if value, ok := strings.CutPrefix(arg, "--config="); ok {
			return value
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
