package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chaz8081/voicesum/internal/app"
	"github.com/chaz8081/voicesum/internal/audio"
	"github.com/chaz8081/voicesum/internal/config"
	"github.com/chaz8081/voicesum/internal/holder"
	"github.com/chaz8081/voicesum/internal/hotkey"
	"github.com/chaz8081/voicesum/internal/inject"
	"github.com/chaz8081/voicesum/internal/transcribe"
	"github.com/chaz8081/voicesum/internal/ui"
	"github.com/chaz8081/voicesum/internal/watcher"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/voicesum/config.yaml)")
	envPath := flag.String("env", ".env", "optional .env file with VOICESUM_* overrides")
	initConfig := flag.Bool("init", false, "write the default config file and exit")
	filePath := flag.String("file", "", "audio file to preload for transcription")
	submitOnly := flag.Bool("submit", false, "submit --file once, print the result and exit")
	flag.Parse()

	if *initConfig {
		path, err := config.WriteDefault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "init: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config written to", path)
		return
	}

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *filePath, *submitOnly); err != nil {
		logger.Error("exiting", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, filePath string, submitOnly bool) error {
	held := holder.New()
	if filePath != "" {
		clip, err := held.LoadFile(filePath)
		if err != nil {
			return err
		}
		logger.Info("audio file selected", "name", clip.Name, "type", clip.ContentType, "bytes", clip.Size())
	}

	view := ui.NewTerminal(os.Stdout, os.Stderr, logger)
	if cfg.Output.Method != "none" {
		injector, err := inject.NewInjector(cfg.Output.Method)
		if err != nil {
			return err
		}
		view.WithSink(injector, cfg.Output.Target)
	}

	client := transcribe.NewClient(cfg.Server.URL, transcribe.Options{
		FieldName:      cfg.Server.FieldName,
		Timeout:        cfg.Server.Timeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	})
	submitter := app.NewSubmitter(client, held, view, logger)

	if submitOnly {
		if filePath == "" {
			return fmt.Errorf("--submit requires --file")
		}
		return submitter.SubmitForTranscription(ctx)
	}

	printBanner(cfg, client.Endpoint())

	recorder, err := audio.NewRecorder(cfg.Audio.SampleRate, cfg.Audio.Channels)
	if err != nil {
		return fmt.Errorf("initializing audio recorder: %w (ensure microphone access is granted)", err)
	}
	defer recorder.Close()
	logger.Info("audio recorder ready")

	var player app.Player
	if cfg.Audio.Autoplay {
		p, err := audio.NewPlayer()
		if err != nil {
			logger.Warn("playback unavailable, autoplay disabled", "error", err)
		} else {
			defer p.Close()
			player = p
		}
	}

	controller := app.NewRecordController(recorder, player, held, view, logger)
	defer controller.Wait()

	if cfg.Watch.Dir != "" {
		w, err := watcher.New(cfg.Watch.Dir, func(_ context.Context, path string) error {
			clip, err := held.LoadFile(path)
			if err != nil {
				return err
			}
			logger.Info("audio file selected", "name", clip.Name, "bytes", clip.Size())
			return nil
		}, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("drop folder watcher stopped", "error", err)
			}
		}()
	}

	record := hotkey.Binding{Keys: cfg.Hotkey.Record, Action: hotkey.ActionRecord}
	submit := hotkey.Binding{Keys: cfg.Hotkey.Transcribe, Action: hotkey.ActionTranscribe}
	listener := hotkey.NewListener(record, submit)
	go listener.Start()
	defer listener.Stop()

	view.SetRecording(false)
	logger.Info("ready", "record", record.String(), "transcribe", submit.String())

	// Main event loop
	events := listener.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				logger.Info("hotkey listener stopped")
				return nil
			}

			switch ev.Action {
			case hotkey.ActionRecord:
				// Errors are already shown to the user.
				controller.Press(ctx)

			case hotkey.ActionTranscribe:
				go func() {
					_ = submitter.SubmitForTranscription(ctx)
				}()
			}

		case <-ctx.Done():
			logger.Info("shutting down")
			// Exit directly to avoid gohook's C cleanup crash.
			// The OS reclaims the event hook on process exit.
			recorder.Close()
			os.Exit(0)
		}
	}
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		return cfg, nil
	}

	return config.Default(), nil
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config, endpoint string) {
	fmt.Println("=== voicesum ===")
	fmt.Printf("  Server:     %s\n", endpoint)
	fmt.Printf("  Record:     %v\n", cfg.Hotkey.Record)
	fmt.Printf("  Transcribe: %v\n", cfg.Hotkey.Transcribe)
	fmt.Printf("  Audio:      %dHz, %dch (autoplay: %v)\n", cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.Autoplay)
	if cfg.Watch.Dir != "" {
		fmt.Printf("  Drop dir:   %s\n", cfg.Watch.Dir)
	}
	fmt.Printf("  Output:     %s\n", cfg.Output.Method)
	fmt.Printf("  Log:        %s\n", cfg.LogLevel)
	fmt.Println("================")
}
