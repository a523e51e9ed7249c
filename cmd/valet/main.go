// Valet is a personal concierge agent for the terminal.
//
// It runs an interactive chat loop (or answers a single question) and
// dispatches each turn through a planner: either an offline rule engine
// or a model backend (Gemini or Hugging Face Inference). Configuration
// is loaded from a single YAML file discovered automatically (see
// [config.DefaultSearchPaths]); secrets may also arrive via a .env
// file.
//
// Usage:
//
//	valet chat               Start the interactive chat loop
//	valet ask <question>     Ask a single question and exit
//	valet version            Print version and build information
//	valet -o json version    Output version information as JSON
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jmalhotra/valet/internal/agent"
	"github.com/jmalhotra/valet/internal/buildinfo"
	"github.com/jmalhotra/valet/internal/config"
	"github.com/jmalhotra/valet/internal/llm"
	"github.com/jmalhotra/valet/internal/notes"
	"github.com/jmalhotra/valet/internal/planner"
	"github.com/jmalhotra/valet/internal/prompts"
	"github.com/jmalhotra/valet/internal/reminders"
	"github.com/jmalhotra/valet/internal/search"
	"github.com/jmalhotra/valet/internal/tools"
	"github.com/jmalhotra/valet/internal/transcript"
)

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run]. This keeps
// os.Exit, os.Stdout, and os.Args out of the application logic so that
// the full lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point for the valet command. All OS-level
// dependencies are injected as parameters: ctx controls process
// lifetime, stdin feeds the chat loop, stdout receives replies, stderr
// receives structured logs, and args is os.Args[1:].
//
// Arguments are parsed by hand. The flag package relies on package-level
// globals (flag.CommandLine), which makes it impossible to call run()
// concurrently from tests, and the argument surface is small enough
// that manual parsing is clearer than bringing in a CLI framework.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	var configPath string
	var outputFmt string // "text" (default) or "json"
	var command string
	var cmdArgs []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++ // skip the value
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case (args[i] == "-o" || args[i] == "--output") && i+1 < len(args):
			outputFmt = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-o="):
			outputFmt = strings.TrimPrefix(args[i], "-o=")
		case strings.HasPrefix(args[i], "--output="):
			outputFmt = strings.TrimPrefix(args[i], "--output=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			if command != "" {
				cmdArgs = append(cmdArgs, args[i])
			} else {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
		}
	}

	if outputFmt == "" {
		outputFmt = "text"
	}
	if outputFmt != "text" && outputFmt != "json" {
		return fmt.Errorf("unknown output format: %q (expected text or json)", outputFmt)
	}

	switch command {
	case "chat":
		return runChat(ctx, stdin, stdout, stderr, configPath)
	case "ask":
		if len(cmdArgs) == 0 {
			return fmt.Errorf("usage: valet ask <question>")
		}
		return runAsk(ctx, stdout, stderr, configPath, cmdArgs)
	case "version":
		return runVersion(stdout, outputFmt)
	case "":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// runVersion prints build metadata in the requested output format.
func runVersion(w io.Writer, outputFmt string) error {
	info := buildinfo.Info()
	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(w, buildinfo.String())
	// Print fields in a stable order for human readability.
	for _, k := range []string{"version", "git_commit", "build_time", "go_version", "os", "arch"} {
		if v, ok := info[k]; ok {
			fmt.Fprintf(w, "  %-12s %s\n", k+":", v)
		}
	}
	return nil
}

// printUsage writes the top-level help text to w. It is called when
// valet is invoked with no arguments, or with -h / --help.
func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Valet - Personal Concierge Agent")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: valet [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  chat         Start the interactive chat loop")
	fmt.Fprintln(w, "  ask          Ask a single question and exit")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>    Path to config file (default: auto-discover)")
	fmt.Fprintln(w, "  -o, --output fmt  Output format: text (default) or json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  ./config.yaml, ~/.config/valet/config.yaml, /etc/valet/config.yaml")
	return nil
}

// runChat handles the "valet chat" subcommand: the interactive loop.
// One line of input is one turn; "exit" or "quit" (or EOF) ends the
// session. The transcript lives for the duration of the process and is
// not persisted.
func runChat(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, configPath string) error {
	cfg, logger, err := boot(stderr, configPath)
	if err != nil {
		return err
	}

	a, err := buildAgent(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s\n", buildinfo.String())
	fmt.Fprintf(stdout, "Backend: %s. Type 'exit' or 'quit' to leave.\n\n", backendName(cfg))

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(stdout, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply := a.Chat(ctx, line)
		fmt.Fprintf(stdout, "valet> %s\n\n", reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	logger.Info("chat session ended")
	return nil
}

// runAsk handles the "valet ask <question>" subcommand: one turn, one
// answer, exit. Useful for scripting and quick smoke tests.
func runAsk(ctx context.Context, stdout, stderr io.Writer, configPath string, args []string) error {
	cfg, logger, err := boot(stderr, configPath)
	if err != nil {
		return err
	}

	a, err := buildAgent(cfg, logger)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	fmt.Fprintln(stdout, a.Chat(ctx, question))
	return nil
}

// boot loads .env and the YAML config, fills credential fallbacks from
// the environment, validates, and constructs the logger. Shared by the
// chat and ask subcommands.
func boot(stderr io.Writer, configPath string) (*config.Config, *slog.Logger, error) {
	// A missing .env is the normal case; only report real read failures.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(stderr, "warning: could not load .env: %v\n", err)
	}

	cfgPath, err := config.FindConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	cfg := config.Default()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config %s: %w", cfgPath, err)
		}
	}

	// Environment variables beat an empty config field, so a bare
	// checkout with a .env file works without any config.yaml.
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.HuggingFace.APIKey == "" {
		cfg.HuggingFace.APIKey = os.Getenv("HF_API_KEY")
	}
	if cfg.Backend == "" {
		cfg.Backend = os.Getenv("VALET_BACKEND")
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		level, err = config.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))

	if cfgPath != "" {
		logger.Info("config loaded", "path", cfgPath, "backend", backendName(cfg))
	} else {
		logger.Info("no config file found, using defaults", "backend", backendName(cfg))
	}

	return cfg, logger, nil
}

// buildAgent assembles the full agent from configuration: persistent
// stores, tool registry, transcript, backend client, and planner.
func buildAgent(cfg *config.Config, logger *slog.Logger) (*agent.Agent, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", cfg.DataDir, err)
	}

	workspace := cfg.Workspace.Path
	if workspace == "" {
		workspace = "."
	}
	files, err := tools.NewFileReader(workspace)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}

	registry := tools.NewBuiltinRegistry(tools.Builtins{
		Search:    search.NewDuckDuckGo(),
		Files:     files,
		Notes:     notes.NewStore(cfg.NotesPath()),
		Reminders: reminders.NewStore(cfg.RemindersPath()),
		Logger:    logger,
	})

	logOpts := []transcript.Option{}
	if cfg.Transcript.MaxChars > 0 {
		logOpts = append(logOpts, transcript.WithMaxChars(cfg.Transcript.MaxChars))
	}
	if cfg.Transcript.KeepTail > 0 {
		logOpts = append(logOpts, transcript.WithKeepTail(cfg.Transcript.KeepTail))
	}
	log := transcript.New(prompts.System, prompts.CompactionNotice, logOpts...)

	adapter, err := buildAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}

	var p planner.Planner
	if adapter == nil {
		p = planner.NewRulePlanner(logger)
	} else {
		p = planner.NewModelPlanner(adapter, logger)
	}

	return agent.New(agent.Config{
		Planner:  p,
		Registry: registry,
		Adapter:  adapter,
		Log:      log,
		Logger:   logger,
	}), nil
}

// buildAdapter creates the backend adapter for the configured backend,
// or nil for offline mode.
func buildAdapter(cfg *config.Config, logger *slog.Logger) (*llm.Adapter, error) {
	switch cfg.Backend {
	case "", config.BackendOffline:
		return nil, nil
	case config.BackendGemini:
		return llm.NewAdapter(llm.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, logger), logger), nil
	case config.BackendHuggingFace:
		return llm.NewAdapter(llm.NewHFClient(cfg.HuggingFace.APIKey, cfg.HuggingFace.Model, logger), logger), nil
	default:
		// Validate() already rejected anything else.
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// backendName is the user-facing label for the active backend.
func backendName(cfg *config.Config) string {
	if cfg.Backend == "" {
		return config.BackendOffline
	}
	return cfg.Backend
}
