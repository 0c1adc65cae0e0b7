package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"dmgo"
	"dmgo/backend"
	"dmgo/backend/headless"
	"dmgo/backend/sdl2"
	"dmgo/backend/terminal"
	"dmgo/input"
	"dmgo/input/action"
	"dmgo/input/event"
)

const frameTime = time.Second / 60

func main() {
	app := cli.NewApp()
	app.Name = "dmgo"
	app.Description = "A DMG Game Boy emulator"
	app.Usage = "dmgo [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Display backend: terminal, sdl2, or headless",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run before exiting (0 = run until quit)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "info",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgo exited with error", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	configureLogging(c.String("log-level"))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := dmgo.NewWithFile(romPath)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	be, err := selectBackend(c.String("backend"))
	if err != nil {
		return err
	}

	if err := be.Init(backend.Config{Title: "dmgo"}); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer be.Cleanup()

	mgr := input.NewManager(emu)
	maxFrames := c.Int("frames")

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	quit := false
	mgr.On(action.EmulatorQuit, event.Press, func() { quit = true })
	mgr.On(action.EmulatorPauseToggle, event.Press, func() { emu.TogglePause() })
	mgr.On(action.EmulatorStepFrame, event.Press, func() {
		if _, err := emu.StepInstruction(); err != nil {
			slog.Error("fatal decode error", "error", err)
		}
	})

	for frame := 0; !quit; frame++ {
		<-ticker.C

		if err := emu.RunFrame(); err != nil {
			return fmt.Errorf("fatal decode error: %w", err)
		}

		events, err := be.Update(emu.Frame())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}
		for _, ev := range events {
			mgr.Trigger(ev.Action, ev.Type)
		}

		if maxFrames > 0 && frame+1 >= maxFrames {
			break
		}
	}

	if err := emu.Save(); err != nil {
		slog.Warn("failed to persist save data", "error", err)
	}

	return nil
}

func selectBackend(name string) (backend.Backend, error) {
	switch name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	case "headless":
		return headless.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want terminal, sdl2, or headless)", name)
	}
}

func configureLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
