// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command inkreplay replays a scripted pen session through the ink canvas
// and writes the resulting frame as PNG or WebP.
//
// Usage:
//
//	inkreplay [flags] script.toml
//
// With -watch the script is replayed again every time it changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/backend"
	_ "github.com/gogpu/ink/backend/software"
	_ "github.com/gogpu/ink/backend/wgpu"
	"github.com/gogpu/ink/config"
	"github.com/gogpu/ink/render"
)

// options are the parsed command line.
type options struct {
	config     string
	output     string
	backend    string
	pick       *[2]float64
	watch      bool
	dumpConfig bool
	verbose    bool
	script     string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("inkreplay: ")

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("inkreplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		o    options
		pick string
	)
	fs.StringVar(&o.config, "config", "", "settings file (TOML)")
	fs.StringVar(&o.output, "o", "out.png", "output image, .png or .webp")
	fs.StringVar(&o.backend, "backend", "", "render backend, overrides the settings file")
	fs.StringVar(&pick, "pick", "", "resolve the object at logical `x,y` after the replay")
	fs.BoolVar(&o.watch, "watch", false, "replay again whenever the script changes")
	fs.BoolVar(&o.dumpConfig, "dump-config", false, "print the effective settings and exit")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: inkreplay [flags] script.toml")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if pick != "" {
		p, err := parsePoint(pick)
		if err != nil {
			return nil, fmt.Errorf("-pick: %w", err)
		}
		o.pick = &p
	}
	switch {
	case o.dumpConfig && fs.NArg() == 0:
	case fs.NArg() == 1:
		o.script = fs.Arg(0)
	default:
		fs.Usage()
		return nil, errors.New("expected one script file")
	}
	return &o, nil
}

func parsePoint(s string) ([2]float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return [2]float64{}, fmt.Errorf("%q is not x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return [2]float64{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{x, y}, nil
}

func run(ctx context.Context, o *options, stdout io.Writer) error {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	ink.SetLogger(logger)

	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return err
		}
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.dumpConfig {
		return cfg.Write(stdout)
	}

	dev, err := openDevice(cfg.Backend)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := once(ctx, dev, cfg, o, stdout); err != nil {
		if !o.watch {
			return err
		}
		logger.Error("replay failed", "err", err)
	}
	if !o.watch {
		return nil
	}
	return watch(ctx, o.script, func() {
		if err := once(ctx, dev, cfg, o, stdout); err != nil {
			logger.Error("replay failed", "err", err)
		}
	})
}

func openDevice(name string) (render.Device, error) {
	opts := backend.Options{Label: "inkreplay"}
	if name == "" {
		return backend.Default(opts)
	}
	return backend.Get(name, opts)
}

// once replays the script a single time and writes the output image.
func once(ctx context.Context, dev render.Device, cfg config.Config, o *options, stdout io.Writer) error {
	s, err := LoadScript(o.script)
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := replay(ctx, dev, cfg, s, o.pick)
	if err != nil {
		return err
	}
	if err := writeImage(o.output, res); err != nil {
		return err
	}
	slog.Info("wrote image", "path", o.output, "objects", res.Objects, "sprites", res.Sprites,
		"backend", dev.Name(), "elapsed", time.Since(start).Round(time.Millisecond))
	if o.pick != nil {
		if res.PickedOK {
			fmt.Fprintf(stdout, "picked object %d\n", res.Picked)
		} else {
			fmt.Fprintln(stdout, "picked nothing")
		}
	}
	return nil
}

func writeImage(path string, res *Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(f, path, res.Image)
}

// watch calls fn after every write to path until ctx is done. The
// directory is watched so editors that replace the file are followed.
func watch(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	name := filepath.Clean(path)
	slog.Info("watching", "path", name)

	const settle = 100 * time.Millisecond
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Editors often write in several steps; replay once they stop.
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			fn()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		}
	}
}
