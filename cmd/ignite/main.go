// ignite is a minimal interactive REPL for the Ignite key/value store,
// reading "set"/"get"/"del" commands and driving a single Instance against a
// data directory given on the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iamNilotpal/ignite/pkg/ignite"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/peterh/liner"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "ignite-data", "directory to store data/index/segment files in")
	mode := flag.String("mode", "log", "engine mode: log or lsm")
	flag.Parse()

	var engineMode options.EngineMode
	switch *mode {
	case "log":
		engineMode = options.EngineModeLog
	case "lsm":
		engineMode = options.EngineModeLSM
	default:
		return fmt.Errorf("unknown -mode %q, expected log or lsm", *mode)
	}

	ctx := context.Background()

	instance, err := ignite.NewInstance(
		ctx, "ignite-cli",
		options.WithDataDir(*dataDir),
		options.WithEngineMode(engineMode),
	)
	if err != nil {
		return fmt.Errorf("opening store at %s: %w", *dataDir, err)
	}
	defer instance.Close(ctx)

	repl := &repl{ctx: ctx, instance: instance, mode: engineMode}
	return repl.run()
}

type repl struct {
	ctx      context.Context
	instance *ignite.Instance
	mode     options.EngineMode
	liner    *liner.State
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("ignite - key/value store CLI (mode=%s)\n", r.mode)
	fmt.Println("Type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt("ignite> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "set", "put":
			r.cmdSet(args)
		case "get":
			r.cmdGet(args)
		case "del", "delete":
			r.cmdDelete(args)
		case "index":
			r.cmdCreateIndex(args)
		case "restore":
			r.cmdRestore()
		case "flush":
			r.cmdFlush()
		case "compact":
			r.cmdCompact()
		case "snapshot":
			r.cmdSnapshot()
		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	return nil
}

func (r *repl) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  set <key> <value>   Store a key/value pair")
	fmt.Println("  get <key>           Retrieve a value")
	fmt.Println("  del <key>           Delete a key (log mode: drops only its index entry)")
	fmt.Println("  index <key>         Build an index entry for key (log mode only)")
	fmt.Println("  restore             Rebuild the index from the index log (log mode only)")
	fmt.Println("  flush               Force the memtable to a segment file (lsm mode only)")
	fmt.Println("  compact             Run one merge-and-compact pass (lsm mode only)")
	fmt.Println("  snapshot            Snapshot the memtable to the recovery file (lsm mode only)")
	fmt.Println("  help                Show this help")
	fmt.Println("  exit / quit / q     Exit")
}

func (r *repl) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: set <key> <value>")
		return
	}
	key, value := args[0], strings.Join(args[1:], " ")
	if err := r.instance.Set(r.ctx, key, []byte(value)); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: set %q\n", key)
}

func (r *repl) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")
		return
	}
	value, err := r.instance.Get(r.ctx, args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%s\n", string(value))
}

func (r *repl) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: del <key>")
		return
	}
	if err := r.instance.Delete(r.ctx, args[0]); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: deleted %q\n", args[0])
}

func (r *repl) cmdCreateIndex(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: index <key>")
		return
	}
	if err := r.instance.CreateIndex(r.ctx, args[0]); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: indexed %q\n", args[0])
}

func (r *repl) cmdRestore() {
	if err := r.instance.RestoreIndexes(r.ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK: indexes restored")
}

func (r *repl) cmdFlush() {
	if err := r.instance.Flush(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK: flushed")
}

func (r *repl) cmdCompact() {
	if err := r.instance.Compact(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK: compacted")
}

func (r *repl) cmdSnapshot() {
	if err := r.instance.Snapshot(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("OK: memtable snapshotted")
}

func (r *repl) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *repl) completer(line string) []string {
	commands := []string{
		"set", "put", "get", "del", "delete",
		"index", "restore", "flush", "compact", "snapshot",
		"help", "exit", "quit", "q",
	}

	var completions []string
	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}
	return completions
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ignite_history")
}
