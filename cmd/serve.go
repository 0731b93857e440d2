package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/johan198205/lekia-translations-sub000/internal/adapters/db/memory"
	"github.com/johan198205/lekia-translations-sub000/internal/adapters/db/sqlite"
	csvexporter "github.com/johan198205/lekia-translations-sub000/internal/adapters/exporter/csv"
	"github.com/johan198205/lekia-translations-sub000/internal/adapters/llm/openai"
	csvparser "github.com/johan198205/lekia-translations-sub000/internal/adapters/parser/csv"
	"github.com/johan198205/lekia-translations-sub000/internal/adapters/prompt"
	"github.com/johan198205/lekia-translations-sub000/internal/api/web"
	"github.com/johan198205/lekia-translations-sub000/internal/config"
	"github.com/johan198205/lekia-translations-sub000/internal/log"
	loglogrus "github.com/johan198205/lekia-translations-sub000/internal/log/logrus"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/exporter"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/gateway"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/importer"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/pipeline"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/progress"
)

var ephemeral bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return serve(c.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "use an in-memory store instead of SQLite")
	rootCmd.AddCommand(serveCmd)
}

type repos struct {
	uploads      ports.UploadRepository
	items        ports.ItemRepository
	batches      ports.BatchRepository
	translations ports.TranslationRepository
	glossary     ports.GlossaryRepository
	settings     ports.SettingsRepository
	close        func() error
}

func openRepos(cfg *config.Config) (*repos, error) {
	if ephemeral {
		store := memory.NewStore()
		return &repos{
			uploads:      store.Uploads(),
			items:        store.Items(),
			batches:      store.Batches(),
			translations: store.Translations(),
			glossary:     store.Glossary(),
			settings:     store.Settings(),
			close:        func() error { return nil },
		}, nil
	}
	db, err := sqlite.Init(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &repos{
		uploads:      sqlite.NewUploadRepo(db),
		items:        sqlite.NewItemRepo(db),
		batches:      sqlite.NewBatchRepo(db),
		translations: sqlite.NewTranslationRepo(db),
		glossary:     sqlite.NewGlossaryRepo(db),
		settings:     sqlite.NewSettingsRepo(db),
		close:        db.Close,
	}, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg.LogLevel)

	r, err := openRepos(cfg)
	if err != nil {
		return err
	}
	defer r.close()

	// A stored credential backs an empty config one, so the key survives
	// restarts without living in the environment.
	apiKey := cfg.Gateway.APIKey
	if apiKey == "" {
		if stored, err := r.settings.Get(ctx, "gateway.api_key"); err == nil && stored != "" {
			apiKey = stored
		}
	}

	var live ports.TextBackend
	mode := gateway.Mode(cfg.Gateway.Mode)
	if mode == "" {
		if apiKey != "" {
			mode = gateway.ModeLive
		} else {
			mode = gateway.ModeStub
		}
	}
	if mode == gateway.ModeLive {
		live = openai.New(openai.Config{
			BaseURL:     cfg.Gateway.BaseURL,
			APIKey:      apiKey,
			Model:       cfg.Gateway.Model,
			Timeout:     cfg.Gateway.Timeout,
			MaxAttempts: cfg.Gateway.MaxAttempts,
			RetryWait:   cfg.Gateway.RetryWait,
			Logger:      logger.WithValues(log.Kv{"component": "openai"}),
		})
	}
	gw := gateway.New(
		gateway.Config{Mode: mode, Temperature: cfg.Gateway.Temperature},
		gateway.Deps{
			Live:     live,
			Prompt:   prompt.New(nil),
			Glossary: r.glossary,
			Logger:   logger.WithValues(log.Kv{"component": "gateway"}),
		},
	)

	runner := pipeline.NewRunner(pipeline.Deps{
		Batches:      r.batches,
		Items:        r.items,
		Translations: r.translations,
		Gateway:      gw,
		Logger:       logger.WithValues(log.Kv{"component": "pipeline"}),
	})

	srv := web.NewServer(web.Deps{
		Uploads:           r.uploads,
		Items:             r.items,
		Batches:           r.batches,
		Translations:      r.translations,
		Glossary:          r.glossary,
		Settings:          r.settings,
		Importer:          importer.New(r.uploads, r.items, csvparser.New(), logger.WithValues(log.Kv{"component": "importer"})),
		Exporter:          exporter.New(r.batches, r.translations, csvexporter.New()),
		Runner:            runner,
		Progress:          progress.New(r.batches, r.translations),
		Gateway:           gw,
		Logger:            logger.WithValues(log.Kv{"component": "web"}),
		PollInterval:      cfg.Progress.PollInterval,
		HeartbeatInterval: cfg.Progress.HeartbeatInterval,
	})

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv,
		// No WriteTimeout: SSE streams stay open for the life of a batch run.
		ReadHeaderTimeout: 10 * time.Second,
	}

	var g run.Group
	{
		signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
		g.Add(
			func() error {
				<-signalCtx.Done()
				logger.Infof("termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}
	{
		g.Add(
			func() error {
				logger.Infof("http server listening: addr=%s mode=%s", cfg.ListenAddr, gw.Mode())
				err := httpSrv.ListenAndServe()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			},
			func(_ error) {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
			},
		)
	}
	return g.Run()
}

func newLogger(level string) log.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return loglogrus.NewLogger(logrus.NewEntry(l))
}
