package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/avast/retry-go/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/alan-mat/sway/internal/chat"
	"github.com/alan-mat/sway/internal/indexer"
	"github.com/alan-mat/sway/internal/provider"
	"github.com/alan-mat/sway/internal/session"
	"github.com/alan-mat/sway/internal/vector"
	"github.com/alan-mat/sway/server"
)

const (
	ProgramName   = "Sway"
	Version       = "v0.1.0"
	RepositoryUrl = "github.com/alan-mat/sway"
)

type serveCmd struct {
	Config string `arg:"--config,-c" default:"config.yaml" help:"path to config file"`
}

type chatCmd struct {
	Config string `arg:"--config,-c" default:"config.yaml" help:"path to config file"`
	File   string `arg:"--file,-f" help:"PDF document to chat with"`
}

type args struct {
	Serve *serveCmd `arg:"subcommand:serve" help:"start the Sway server"`
	Chat  *chatCmd  `arg:"subcommand:chat" help:"chat with a document from the terminal"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", ProgramName, Version)
}

func (args) Epilogue() string {
	return fmt.Sprintf("For more information visit %s", RepositoryUrl)
}

func main() {
	var args args

	p, err := arg.NewParser(arg.Config{Program: strings.ToLower(ProgramName)}, &args)
	if err != nil {
		log.Fatalf("there was an error in the definition of the Go struct: %v", err)
	}
	p.MustParse(os.Args[1:])

	if p.Subcommand() == nil {
		p.WriteUsage(os.Stdout)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	var cmd func(any) error

	switch p.Subcommand().(type) {
	case *serveCmd:
		cmd = startServer
	case *chatCmd:
		cmd = startChat
	default:
		p.FailSubcommand("unrecognized command", p.SubcommandNames()...)
	}

	if err := cmd(p.Subcommand()); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func startServer(a any) error {
	cmdArgs := a.(*serveCmd)

	conf, err := ReadConfig(cmdArgs.Config)
	if err != nil {
		slog.Warn("failed to read config file, using defaults", "path", cmdArgs.Config, "err", err)
		conf = defaultConfig()
	}

	deps, closeFn, err := buildDependencies(conf)
	if err != nil {
		return err
	}
	defer closeFn()

	srv := server.New(server.ServerConfig{
		ListenHost: conf.Server.ListenHost,
		ListenPort: conf.Server.ListenPort,
		UploadDir:  conf.Server.UploadDir,
	}, *deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}

func startChat(a any) error {
	cmdArgs := a.(*chatCmd)

	conf, err := ReadConfig(cmdArgs.Config)
	if err != nil {
		slog.Warn("failed to read config file, using defaults", "path", cmdArgs.Config, "err", err)
		conf = defaultConfig()
	}
	// the terminal chat never needs redis
	conf.Sessions.Backend = "memory"

	deps, closeFn, err := buildDependencies(conf)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New()

	if cmdArgs.File != "" {
		fmt.Printf("indexing %s...\n", cmdArgs.File)
		ix := indexer.New(deps.VectorStore, deps.Embedder)
		chunks, err := ix.BuildIndex(ctx, sess, cmdArgs.File)
		if err != nil {
			return fmt.Errorf("failed to index document: %w", err)
		}
		fmt.Printf("indexed %d chunks, ask away\n", chunks)
	}

	pipeline := chat.NewPipeline(deps.LM, deps.Embedder, deps.VectorStore)
	if deps.Reranker != nil {
		pipeline = pipeline.WithReranker(deps.Reranker)
	}

	defer func() {
		if sess.Collection != "" {
			if err := deps.VectorStore.DeleteCollection(context.Background(), sess.Collection); err != nil {
				slog.Warn("failed to clean up collection", "collection", sess.Collection, "err", err)
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		reply := pipeline.Answer(ctx, sess, question)
		fmt.Println(reply)
	}

	return scanner.Err()
}

// buildDependencies constructs every external client the commands
// share. Provider construction fails fast on missing credentials.
func buildDependencies(conf *config) (*server.Dependencies, func(), error) {
	lm, err := provider.NewLMProvider(conf.Providers.LM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create lm provider '%s': %w", conf.Providers.LM, err)
	}

	embedder, err := provider.NewEmbedder(conf.Providers.Embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedder '%s': %w", conf.Providers.Embedder, err)
	}

	var reranker provider.Reranker
	if conf.Providers.Rerank {
		reranker, err = provider.NewReranker()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create reranker: %w", err)
		}
	}

	store, err := vector.NewQdrantStore(conf.VectorStore.Host, conf.VectorStore.Port)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create vector store client: %w", err)
	}

	err = retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(ctx)
		},
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("vector store not reachable, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("vector store unreachable: %w", err)
	}

	ttl := time.Duration(conf.Sessions.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	var sessions session.Store
	var rdb *redis.Client

	switch conf.Sessions.Backend {
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     conf.Sessions.Redis.Addr,
			Username: conf.Sessions.Redis.Username,
			Password: conf.Sessions.Redis.Password,
			DB:       conf.Sessions.Redis.DB,
		})
		sessions = session.NewRedisStore(rdb, ttl)
	case "memory", "":
		sessions = session.NewMemoryStore(ttl)
	default:
		store.Close()
		return nil, nil, fmt.Errorf("unknown session backend '%s'", conf.Sessions.Backend)
	}

	closeFn := func() {
		if rdb != nil {
			rdb.Close()
		}
		store.Close()
	}

	deps := &server.Dependencies{
		LM:          lm,
		Embedder:    embedder,
		Reranker:    reranker,
		VectorStore: store,
		Sessions:    sessions,
	}
	return deps, closeFn, nil
}
