package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zident/internal/cli"
	"github.com/zarlcorp/zident/internal/identity"
	"github.com/zarlcorp/zident/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zident"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	if len(os.Args) > 1 {
		runCLI(ctx, os.Args[1])
		_ = app.Close()
		return
	}

	if err := runTUI(); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, cmd string) {
	switch cmd {
	case "version":
		fmt.Printf("zident %s\n", version)
	case "generate":
		cli.CmdGenerate(os.Args[2:])
	case "fields":
		cli.CmdFields()
	case "preview":
		cli.CmdPreview(os.Args[2:])
	case "serve":
		cli.CmdServe(ctx, version, os.Args[2:])
	case "list":
		cli.CmdList(os.Args[2:])
	case "forget":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: zident forget <id>")
			os.Exit(1)
		}
		cli.CmdForget(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "zident: unknown command %q\n", cmd)
		os.Exit(1)
	}
}

func runTUI() error {
	dataDir := cli.DataDir()
	tables, err := cli.LoadTables("")
	if err != nil {
		return err
	}
	gen := identity.NewGenerator(tables, nil)
	firstRun := cli.IsFirstRun(dataDir)

	m := tui.New(version, dataDir, gen, firstRun)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(tui.Model); ok {
		fm.Close()
	}

	return nil
}
