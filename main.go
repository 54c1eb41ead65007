package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"promptforge/internal/cli"
	"promptforge/internal/config"
	"promptforge/internal/server"
	"promptforge/internal/service"
	"promptforge/internal/storage"
	"promptforge/internal/store"
	"promptforge/internal/ui"
	"promptforge/internal/vision"
)

var version = "0.1.0"

func printHelp() {
	fmt.Printf(`promptforge - Turn ideas into structured AI prompts

USAGE:
    promptforge [OPTIONS] [COMMAND]

OPTIONS:
    --help       Show this help information
    --version    Print version information
    --init       Initialize the prompt library and write a default config
    --server     Start the HTTP API server
    --port       Port for the API server (overrides config)

COMMANDS:
    (no command)           Start interactive TUI mode
    list, ls               List prompts
    search <query>         Search prompts
    get, show <id>         Show a specific prompt
    add, new               Create a prompt (--title, --body, --tags, ...)
    edit <id>              Update prompt fields
    delete, rm <id>        Delete a prompt
    duplicate, dup <id>    Duplicate a prompt
    favorite, fav <id>     Toggle the favorite flag
    collections            Manage collections (list, add, edit, delete)
    filters                Manage active filters (show, set, clear)
    tags                   List all tags
    generate, gen          Compose a prompt (--input, --task, --tone, --length)
    templates              List starter templates
    analyze <file>         Describe an image via the vision service

EXAMPLES:
    promptforge                                      # Interactive mode
    promptforge --init                               # Initialize library
    promptforge --server --port 9000                 # Start API server
    promptforge generate --input "a blog about Go"   # Compose a prompt
    promptforge add --title "Standup" --body "..."   # Save a prompt
    promptforge search "marketing"                   # Search the library
    promptforge analyze photo.jpg --language en      # Describe an image

STORAGE:
    Default directory: ~/.promptforge
    Override with: PROMPTFORGE_DIR=<path>
    Backends: file (default), sqlite (set storage_backend in config.yaml)

VERSION: %s
`, version)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	helpFlag := flag.Bool("help", false, "show help")
	versionFlag := flag.Bool("version", false, "print version")
	initFlag := flag.Bool("init", false, "initialize the prompt library")
	serverFlag := flag.Bool("server", false, "start the HTTP API server")
	portFlag := flag.Int("port", 0, "API server port (overrides config)")
	flag.Parse()

	if *helpFlag {
		printHelp()
		return
	}
	if *versionFlag {
		fmt.Printf("promptforge %s\n", version)
		return
	}

	libraryDir, err := config.DefaultLibraryDir()
	if err != nil {
		fatal(err)
	}
	cfg, err := config.Load(libraryDir)
	if err != nil {
		fatal(err)
	}

	if *initFlag {
		if err := config.Save(cfg); err != nil {
			fatal(err)
		}
		fmt.Printf("Initialized prompt library at %s\n", cfg.LibraryDir)
		return
	}

	var slot storage.Slot
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		sqlSlot, err := storage.OpenSQLiteSlot(cfg.DatabasePath())
		if err != nil {
			fatal(err)
		}
		defer sqlSlot.Close()
		slot = sqlSlot
	default:
		slot = storage.NewFileSlot(cfg.LibraryDir)
	}

	st := store.New()
	st.Init(slot)
	st.Subscribe(storage.NewWriter(slot).Persist)

	var visionClient *vision.Client
	if cfg.Vision.Endpoint != "" {
		visionClient = vision.NewClient(cfg.Vision.Endpoint, cfg.VisionAPIKey())
	}
	svc := service.New(st, visionClient)

	if *serverFlag {
		port := cfg.Port
		if *portFlag != 0 {
			port = *portFlag
		}
		if err := server.NewServer(svc, port).Start(); err != nil {
			fatal(err)
		}
		return
	}

	if args := flag.Args(); len(args) > 0 {
		if err := cli.NewCLI(svc).Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	delay := time.Duration(cfg.GenerateDelayMS) * time.Millisecond
	program := tea.NewProgram(ui.NewModel(svc, delay), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fatal(err)
	}
}
