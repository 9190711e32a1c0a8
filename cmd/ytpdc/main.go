// Package main provides the ytpdc command line entry point.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ytpdc/internal/app/aggregate"
	"github.com/osa030/ytpdc/internal/app/inspector"
	"github.com/osa030/ytpdc/internal/app/monitor"
	"github.com/osa030/ytpdc/internal/app/notification"
	"github.com/osa030/ytpdc/internal/app/poller"
	"github.com/osa030/ytpdc/internal/infra/clock"
	"github.com/osa030/ytpdc/internal/infra/config"
	"github.com/osa030/ytpdc/internal/infra/console"
	"github.com/osa030/ytpdc/internal/infra/logger"
	"github.com/osa030/ytpdc/internal/infra/page"
)

var (
	app        = kingpin.New("ytpdc", "YouTube playlist duration calculator")
	configPath = app.Flag("config", "Path to config file").Envar("YTPDC_CONFIG").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	summaryCmd  = app.Command("summary", "Print the duration summary of a saved playlist page")
	summaryFile = summaryCmd.Arg("file", "Saved playlist page").Required().ExistingFile()

	rangeCmd   = app.Command("range", "Print the duration of a range of playlist positions")
	rangeFile  = rangeCmd.Arg("file", "Saved playlist page").Required().ExistingFile()
	rangeStart = rangeCmd.Arg("start", "First position (1-based)").Required().String()
	rangeEnd   = rangeCmd.Arg("end", "Last position (inclusive)").Required().String()

	watchCmd  = app.Command("watch", "Recompute the summary whenever the page file changes")
	watchFile = watchCmd.Arg("file", "Saved playlist page").Required().ExistingFile()
)

// runtime holds the components shared by every command.
type runtime struct {
	cfg       *config.Config
	file      *page.File
	engine    *aggregate.Engine
	presenter *console.Presenter
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags win over the config file
	loggerConfig := logger.Config{Output: cfg.Log.Output, Level: cfg.Log.Level}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	if *configPath != "" {
		zlog.Info().Msgf("Loaded config from %s", *configPath)
	}

	var runErr error
	switch command {
	case summaryCmd.FullCommand():
		runErr = runSummary(cfg, *summaryFile)
	case rangeCmd.FullCommand():
		runErr = runRange(cfg, *rangeFile, *rangeStart, *rangeEnd)
	case watchCmd.FullCommand():
		runErr = runWatch(cfg, *watchFile)
	}
	if runErr != nil {
		zlog.Error().Msgf("%s: %v", command, runErr)
		closer.Close()
		os.Exit(1)
	}
}

// setup opens the page and builds the aggregation pipeline.
func setup(cfg *config.Config, path string) (*runtime, error) {
	sel, err := page.DecodeSelectors(cfg.Page.Settings)
	if err != nil {
		return nil, err
	}
	file, err := page.OpenFile(path, sel)
	if err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("Opened %s: playlist=%q items=%d", path, file.PlaylistID(), len(file.RenderedItems()))

	in := inspector.New(cfg.Inspector.UnavailableMarkers)
	return &runtime{
		cfg:       cfg,
		file:      file,
		engine:    aggregate.NewEngine(file, in),
		presenter: console.NewPresenter(os.Stdout, messages(cfg.Messages)),
	}, nil
}

func (rt *runtime) newPoller(presenter poller.Presenter) *poller.Poller {
	return poller.New(rt.engine, presenter, clock.Real{}, poller.Config{
		Interval:    rt.cfg.PollInterval(),
		MaxAttempts: rt.cfg.Poll.MaxAttempts,
	})
}

// runSummary polls the page once until it settles.
func runSummary(cfg *config.Config, path string) error {
	rt, err := setup(cfg, path)
	if err != nil {
		return err
	}

	p := rt.newPoller(rt.presenter)
	defer p.Close()

	mon := monitor.New(p, rt.file)
	defer mon.Close()
	if err := mon.Attach(); err != nil {
		return err
	}

	for event := range p.Events() {
		switch event.Type {
		case poller.EventStable:
			return nil
		case poller.EventEmpty:
			return errors.Newf("no playlist items found in %s", path)
		case poller.EventTimedOut:
			return errors.Newf("gave up after %d attempts (%v)", event.Attempt, cfg.PollTimeout())
		}
	}
	return nil
}

// runRange prints the duration of the positions start..end.
func runRange(cfg *config.Config, path, start, end string) error {
	rt, err := setup(cfg, path)
	if err != nil {
		return err
	}

	formatted, err := rt.engine.RangeQuery(start, end)
	rt.presenter.Range(formatted, err)
	if err != nil {
		return errors.Wrapf(err, "range %s-%s", start, end)
	}
	return nil
}

// runWatch recomputes the summary on every change until interrupted.
func runWatch(cfg *config.Config, path string) error {
	rt, err := setup(cfg, path)
	if err != nil {
		return err
	}

	notifier := notification.NewManager()
	defer notifier.Close()
	subscriptionID := notifier.Subscribe(rt.presenter)
	defer notifier.Unsubscribe(subscriptionID)

	p := rt.newPoller(notifier)
	defer p.Close()

	mon := monitor.New(p, rt.file)
	defer mon.Close()
	if err := mon.Attach(); err != nil {
		return err
	}

	watcher := page.NewWatcher(rt.file, page.WithDebounce(cfg.WatchDebounce()))
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	zlog.Info().Msgf("Watching %s (context %s, %d presenters)", path, mon.ID(), notifier.SubscriberCount())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			zlog.Info().Msg("Received shutdown signal...")
			logWatchReport(mon, notifier)
			return nil
		case event := <-p.Events():
			switch event.Type {
			case poller.EventArmed:
				zlog.Debug().Msgf("Generation %d armed: %s", event.Generation, event.Reason)
			case poller.EventStable:
				zlog.Info().Msgf("Generation %d settled after %d attempts (notification #%d)",
					event.Generation, event.Attempt, notifier.SequenceNo())
			case poller.EventEmpty:
				zlog.Warn().Msgf("Generation %d found no playlist items", event.Generation)
			case poller.EventTimedOut:
				zlog.Warn().Msgf("Generation %d gave up after %d attempts", event.Generation, event.Attempt)
			}
		}
	}
}

// logWatchReport logs what a watch session reacted to and its final result.
func logWatchReport(mon *monitor.Context, notifier *notification.Manager) {
	zlog.Info().Msgf("Armed %d times: initial=%d mutation=%d navigation=%d",
		mon.Count(monitor.SignalInitial)+mon.Count(monitor.SignalMutation)+mon.Count(monitor.SignalNavigation),
		mon.Count(monitor.SignalInitial), mon.Count(monitor.SignalMutation), mon.Count(monitor.SignalNavigation))

	if last, ok := notifier.Last(); ok {
		zlog.Info().Msgf("Last summary: total=%s counted=%d", last.FormattedDuration(), last.CountedItems)
	} else {
		zlog.Info().Msg("Last generation did not settle")
	}
}

func messages(m config.MessagesConfig) console.Messages {
	return console.Messages{
		Computing:     m.Computing,
		TotalDuration: m.TotalDuration,
		Counted:       m.Counted,
		NotCounted:    m.NotCounted,
		ScrollHint:    m.ScrollHint,
		RangeDuration: m.RangeDuration,
		InvalidRange:  m.InvalidRange,
		Unavailable:   m.Unavailable,
	}
}
