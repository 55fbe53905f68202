// Command galactic-todo serves a persistent task list over MCP on stdio.
//
// An MCP client (an editor, an agent UI) acts as the renderer: it calls the
// tools registered in tools.go and draws what they return. Stdout belongs to
// the MCP transport, so all logging goes to stderr.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	log.SetOutput(os.Stderr)
	log.SetPrefix(appName + ": ")

	configPath := flag.String("config", "", "Path to config.yaml (default ~/.config/galactic-todo/config.yaml)")
	backend := flag.String("backend", "", "Storage backend: file, sqlite or memory (overrides config)")
	storagePath := flag.String("path", "", "Storage directory (file) or database file (sqlite) (overrides config)")
	flag.Parse()

	// Priority: flag > config file > defaults
	if *configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			log.Fatalf("could not find path to configuration file: %v", err)
		}
		*configPath = p
	}
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *storagePath != "" {
		cfg.Storage.Path = *storagePath
	}

	kv, err := cfg.OpenStorage()
	if err != nil {
		log.Fatalf("Error opening %s storage: %v", cfg.Storage.Backend, err)
	}
	repo := NewRepository(kv, cfg.Storage.TasksKey, cfg.Storage.ThemeKey)
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	store := OpenTaskStore(repo)
	theme := LoadThemePreference(repo)
	log.Printf("loaded %d tasks from %s storage", store.Len(), cfg.Storage.Backend)

	server := newServer(store, theme)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Printf("server stopped: %v", err)
	}
	log.Printf("shut down")
}

// newServer builds the MCP server with every tool registered.
func newServer(store *TaskStore, theme *ThemePreference) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: appName, Version: version}, nil)
	registerTools(server, newToolHandlers(store, theme))
	return server
}
