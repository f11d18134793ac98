// Command billiards runs simulations, seals messages with trajectory-derived
// keys and sweeps key distributions from the command line. Every subcommand
// prints JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"

	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/keyring"
	"github.com/playmatatu/billiards/internal/service"
	"github.com/playmatatu/billiards/internal/sweep"
)

const usage = `usage: billiards <command> [flags]

commands:
  run      simulate one trajectory
  encrypt  seal stdin under the key for a launch angle
  decrypt  open an envelope read from stdin
  sweep    sample the key distribution over random stadiums`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(ctx, cfg, os.Args[2:], os.Stdout)
	case "encrypt":
		err = encryptCmd(cfg, os.Args[2:], os.Stdin, os.Stdout)
	case "decrypt":
		err = decryptCmd(cfg, os.Args[2:], os.Stdin, os.Stdout)
	case "sweep":
		err = sweepCmd(ctx, cfg, os.Args[2:], os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("billiards %s: %v", os.Args[1], err)
	}
}

func runCmd(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	variant := fs.String("table", "stadium", "rectangle, ellipse or stadium")
	d1 := fs.Float64("w", 2, "width (semi-axis a for ellipses)")
	d2 := fs.Float64("h", 1, "height (semi-axis b for ellipses)")
	x := fs.Float64("x", 0, "start x")
	y := fs.Float64("y", 0, "start y")
	angle := fs.Float64("angle", 45, "launch angle in degrees")
	n := fs.Int("n", 10, "number of reflections")
	phase := fs.Bool("phase", true, "record phase-space samples")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ts := service.TableSpec{Variant: *variant, Width: *d1, Height: *d2, A: *d1, B: *d2}
	sim := service.NewSimulator(cfg.MaxReflections, nil)
	resp, err := sim.Simulate(ctx, service.Request{
		Table:       ts,
		X:           *x,
		Y:           *y,
		Angle:       *angle,
		Reflections: *n,
		PhaseSpace:  *phase,
	})
	if resp != nil {
		if werr := writeJSON(out, resp); werr != nil {
			return werr
		}
	}
	return err
}

func encryptCmd(cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	angle := fs.Float64("angle", math.NaN(), "launch angle in degrees")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if math.IsNaN(*angle) || math.IsInf(*angle, 0) {
		return fmt.Errorf("-angle is required")
	}

	plaintext, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	k := keyring.New(cfg.KeyReflections)
	env, err := k.Encrypt(*angle*math.Pi/180, plaintext)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, env.String())
	return err
}

func decryptCmd(cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("decrypt", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	env, err := keyring.ParseEnvelope(string(text))
	if err != nil {
		return err
	}
	plaintext, err := keyring.New(cfg.KeyReflections).Decrypt(env)
	if err != nil {
		return err
	}
	_, err = out.Write(plaintext)
	return err
}

func sweepCmd(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	samples := fs.Int("samples", 1000, "number of random draws")
	n := fs.Int("n", cfg.KeyReflections, "reflections per draw")
	bins := fs.Int("bins", sweep.DefaultBins, "histogram bins")
	seed := fs.Uint64("seed", 1, "random seed")
	workers := fs.Int("workers", cfg.SweepWorkers, "parallel simulations")
	full := fs.Bool("samples-out", false, "include every sample in the output")
	variant := fs.String("table", "", "sweep launch angles over one fixed table instead of random stadiums")
	d1 := fs.Float64("w", 2, "fixed table width (semi-axis a for ellipses)")
	d2 := fs.Float64("h", 1, "fixed table height (semi-axis b for ellipses)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spec := sweep.Spec{Samples: *samples, Reflections: *n, Bins: *bins, Seed: *seed, Workers: *workers}
	if *variant != "" {
		t, err := service.TableSpec{Variant: *variant, Width: *d1, Height: *d2, A: *d1, B: *d2}.Build()
		if err != nil {
			return err
		}
		spec.Table = t
	}
	sum, err := sweep.Run(ctx, spec, func(done, total int) {
		if done%100 == 0 || done == total {
			log.Printf("[SWEEP] %d/%d", done, total)
		}
	})
	if err != nil {
		return err
	}
	if !*full {
		sum.Samples = nil
	}
	return writeJSON(out, sum)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
