package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/buildkite/shellwords"
	"github.com/wtnb75/minihttpd"
)

// args returns the command line with MINIHTTPD_FLAGS prepended, so that
// explicit arguments win over the environment.
func args() ([]string, error) {
	env := os.Getenv("MINIHTTPD_FLAGS")
	if env == "" {
		return os.Args[1:], nil
	}
	extra, err := shellwords.Split(env)
	if err != nil {
		return nil, err
	}
	return append(extra, os.Args[1:]...), nil
}

func realMain() error {
	fset := flag.NewFlagSet("minihttpd", flag.ExitOnError)
	configFile := fset.String("config", "", "JSON config file")
	listen := fset.String("listen", "", "listen address (default 127.0.0.1:10001)")
	dir := fset.String("dir", "", "webroot directory (default ./webroot)")
	hidden := fset.Bool("hidden", false, "list entries starting with a dot")
	logfile := fset.String("log", "", "log file (default stderr)")
	verbose := fset.Bool("verbose", false, "enable verbose logging")
	argv, err := args()
	if err != nil {
		slog.Error("MINIHTTPD_FLAGS", "error", err)
		return err
	}
	if err := fset.Parse(argv); err != nil {
		return err
	}

	var sink io.Writer = os.Stderr
	if *logfile != "" {
		fp, err := os.OpenFile(*logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("open log", "path", *logfile, "error", err)
			return err
		}
		defer fp.Close()
		sink = fp
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)
	logger := slog.New(slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	config := minihttpd.CreateConfig()
	if *configFile != "" {
		if config, err = minihttpd.LoadConfig(*configFile); err != nil {
			slog.Error("config error", "error", err)
			return err
		}
	}
	if *listen != "" {
		config.Listen = *listen
	}
	if *dir != "" {
		config.RootDir = *dir
	}
	if *hidden {
		config.ShowHidden = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	server, err := minihttpd.New(ctx, config, logger)
	if err != nil {
		slog.Error("server init", "error", err)
		return err
	}
	return server.ListenAndServe(ctx)
}

func main() {
	if err := realMain(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
