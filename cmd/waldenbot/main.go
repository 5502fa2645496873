// Command waldenbot is a retrieval-augmented Thoreau companion: it indexes a
// corpus of Thoreau's works and converses in his voice, grounded in that
// corpus, over a terminal or web chat.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pondworks/waldenbot/internal/adapters/embedding"
	"github.com/pondworks/waldenbot/internal/adapters/filewatcher"
	"github.com/pondworks/waldenbot/internal/adapters/llm"
	"github.com/pondworks/waldenbot/internal/adapters/loader"
	"github.com/pondworks/waldenbot/internal/adapters/vectordb"
	"github.com/pondworks/waldenbot/internal/config"
	"github.com/pondworks/waldenbot/internal/domain/usecases"
	httpserver "github.com/pondworks/waldenbot/internal/infrastructure/http"
	"github.com/pondworks/waldenbot/internal/logging"
	"github.com/pondworks/waldenbot/internal/persona"
	"github.com/pondworks/waldenbot/internal/tui"
)

var version = "dev"

var (
	configPath string
	debug      bool
	reuseIndex bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "waldenbot",
		Short: "A retrieval-augmented Thoreau companion",
		Long: "Waldenbot indexes a corpus of Henry David Thoreau's works and answers\n" +
			"in his persona, grounding every response in retrieved passages.",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ./waldenbot.yaml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(ingestCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// components is the assembled dependency graph shared by all commands.
type components struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *vectordb.SQLiteStore
	ingest    *usecases.IngestUseCase
	retriever *usecases.RetrieveUseCase
	completer *llm.OllamaAdapter
}

func initComponents() (*components, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Debug || debug)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store, err := vectordb.NewSQLiteStore(cfg.IndexDir)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	embedder := embedding.NewOllamaAdapter(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel, logger)
	completer := llm.NewOllamaAdapter(cfg.Ollama.BaseURL, cfg.Ollama.GenerateModel, logger)
	source := loader.NewDirectoryLoader()
	chunker := usecases.NewChunker(cfg.Chunker.Size, cfg.Chunker.Overlap)

	return &components{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		ingest:    usecases.NewIngestUseCase(source, chunker, embedder, store),
		retriever: usecases.NewRetrieveUseCase(embedder, store, cfg.Retrieval.TopK),
		completer: completer,
	}, nil
}

// ensureIndex builds the index, or reuses a non-empty persisted one when
// asked. Any build failure is fatal: the process never reaches conversation
// over a broken index.
func (c *components) ensureIndex(ctx context.Context) error {
	if reuseIndex {
		count, err := c.store.Count(ctx)
		if err == nil && count > 0 {
			c.logger.Info("reusing persisted index", zap.Int("chunks", count))
			return nil
		}
	}

	report, err := c.ingest.BuildIndex(ctx, c.cfg.DocumentsDir)
	if err != nil {
		return err
	}
	if report.Chunks == 0 {
		c.logger.Warn("corpus is empty; conversation will proceed without retrieved context",
			zap.String("documents_dir", c.cfg.DocumentsDir))
	} else {
		c.logger.Info("index built",
			zap.Int("documents", report.Documents),
			zap.Int("chunks", report.Chunks),
			zap.Int("dimension", report.Dimension),
		)
	}
	return nil
}

func (c *components) exitMode() usecases.ExitMatchMode {
	if c.cfg.Exit.Mode == "substring" {
		return usecases.ExitMatchSubstring
	}
	return usecases.ExitMatchExact
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Build the vector index from the document corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initComponents()
			if err != nil {
				return err
			}
			defer c.store.Close()
			defer c.logger.Sync()
			return c.ensureIndex(cmd.Context())
		},
	}
}

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Converse with Thoreau in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initComponents()
			if err != nil {
				return err
			}
			defer c.store.Close()
			defer c.logger.Sync()

			if err := c.ensureIndex(cmd.Context()); err != nil {
				c.logger.Error("index build failed", zap.Error(err))
				return err
			}

			sess := usecases.NewSession(c.retriever, c.completer, persona.Thoreau(), usecases.SessionConfig{
				Temperature:  c.cfg.Generation.Temperature,
				MaxTokens:    c.cfg.Generation.ResponseTokens,
				TopP:         c.cfg.Generation.TopP,
				ContextLimit: c.cfg.Retrieval.ContextLimit,
				ExitMode:     c.exitMode(),
				ExitKeywords: c.cfg.Exit.Keywords,
			})

			_, err = tea.NewProgram(tui.New(sess)).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&reuseIndex, "reuse-index", false, "reuse a non-empty persisted index instead of rebuilding")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web chat front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initComponents()
			if err != nil {
				return err
			}
			defer c.store.Close()
			defer c.logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := c.ensureIndex(ctx); err != nil {
				c.logger.Error("index build failed", zap.Error(err))
				return err
			}

			go watchCorpus(ctx, c)

			// Web sessions match exit keywords anywhere in the input and
			// start from the page's slider defaults.
			defaults := usecases.SessionConfig{
				Temperature:  0.3,
				MaxTokens:    150,
				TopP:         c.cfg.Generation.TopP,
				ContextLimit: c.cfg.Retrieval.ContextLimit,
				ExitMode:     usecases.ExitMatchSubstring,
				ExitKeywords: c.cfg.Exit.Keywords,
			}

			addr := fmt.Sprintf("%s:%d", c.cfg.Server.Host, c.cfg.Server.Port)
			server := httpserver.NewServer(c.retriever, c.completer, persona.Thoreau(), defaults, addr, c.logger)
			return server.Start(ctx)
		},
	}
	cmd.Flags().BoolVar(&reuseIndex, "reuse-index", false, "reuse a non-empty persisted index instead of rebuilding")
	return cmd
}

// watchCorpus logs when the corpus drifts from the persisted index. The index
// is never mutated in place; rerun ingest to pick up changes.
func watchCorpus(ctx context.Context, c *components) {
	watcher, err := filewatcher.NewFSNotifyWatcher(c.cfg.Extensions, c.logger)
	if err != nil {
		c.logger.Warn("corpus watcher unavailable", zap.Error(err))
		return
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, c.cfg.DocumentsDir)
	if err != nil {
		c.logger.Warn("corpus watcher unavailable", zap.Error(err))
		return
	}
	for event := range events {
		c.logger.Warn("corpus changed; index is stale until the next ingest",
			zap.String("path", event.Path))
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the state of the persisted index",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initComponents()
			if err != nil {
				return err
			}
			defer c.store.Close()
			defer c.logger.Sync()

			count, err := c.store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading index: %w", err)
			}
			fmt.Printf("index location: %s\n", c.cfg.IndexDir)
			fmt.Printf("indexed chunks: %d\n", count)
			if count == 0 {
				fmt.Println("index is empty; run 'waldenbot ingest' first")
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("waldenbot %s\n", version)
		},
	}
}
