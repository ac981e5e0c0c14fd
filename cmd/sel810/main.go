// main.go - composition root: loads configuration, wires peripherals
// onto a machine, and runs the executor and front panel side by side
// until interrupted.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/sel810/config"
	"github.com/intuitionamiga/sel810/devices"
	"github.com/intuitionamiga/sel810/frontpanel"
	"github.com/intuitionamiga/sel810/loader"
	"github.com/intuitionamiga/sel810/sel810"
)

func main() {
	configPath := flag.String("config", "", "path to machine configuration TOML file")
	flag.Parse()

	logger := log.New(os.Stderr, "sel810: ", log.LstdFlags)

	if err := run(*configPath, logger); err != nil {
		logger.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *log.Logger) error {
	cfg := config.MachineConfig{FrontPanelAddr: "127.0.0.1:8100", LoadOrigin: 0}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cpu := sel810.NewCPU()
	cpu.IO.Timings = cfg.Timings.Resolve(cpu.IO.Timings)

	for _, pc := range cfg.Peripherals {
		dev, err := buildPeripheral(pc)
		if err != nil {
			return fmt.Errorf("peripheral unit %d: %w", pc.Unit, err)
		}
		cpu.Peripherals.Attach(pc.Unit, dev)
	}

	debugger := sel810.NewDebugger(cpu, logger)
	runLoop := sel810.NewRunLoop(cpu, debugger)

	if cfg.ProgramPath != "" {
		image, err := os.ReadFile(cfg.ProgramPath)
		if err != nil {
			return fmt.Errorf("reading program: %w", err)
		}
		if err := loader.Load(cpu.Mem, uint16(cfg.LoadOrigin), image); err != nil {
			return fmt.Errorf("loading program: %w", err)
		}
		cpu.SetPC(uint16(cfg.LoadOrigin))
		cpu.Prefetch()
		runLoop.Resume()
	}

	panel, err := frontpanel.NewServer(cfg.FrontPanelAddr, runLoop, logger)
	if err != nil {
		return fmt.Errorf("front panel: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runLoop.Run(ctx) })
	g.Go(func() error { return panel.Serve(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func buildPeripheral(pc config.PeripheralConfig) (sel810.Peripheral, error) {
	switch pc.Kind {
	case "null", "":
		return devices.Null{}, nil
	case "teletype":
		return devices.NewTeletype(pc.IntGroup, pc.IntBit, os.Stdout), nil
	case "tape":
		var image []byte
		if pc.ImagePath != "" {
			data, err := os.ReadFile(pc.ImagePath)
			if err != nil {
				return nil, err
			}
			image = data
		}
		return devices.NewTape(image), nil
	case "network":
		return devices.NewNetwork(pc.Address)
	default:
		return nil, fmt.Errorf("unknown peripheral kind %q", pc.Kind)
	}
}
