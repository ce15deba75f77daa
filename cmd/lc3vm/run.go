package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lc3run/lc3vm/internal/console"
	"github.com/lc3run/lc3vm/internal/image"
	"github.com/lc3run/lc3vm/internal/machine"
)

func newRunCmd() *cobra.Command {
	var (
		verbose bool
		debug   bool
		noRaw   bool
	)

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "load an LC-3 object image and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(args[0], verbose, debug, noRaw)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace each instruction before executing it")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "single-step: wait for Enter between instructions")
	cmd.Flags().BoolVar(&noRaw, "no-raw-tty", false, "skip raw terminal mode (for piped/non-interactive stdin)")

	return cmd
}

func runImage(path string, verbose, debug, noRaw bool) error {
	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("lc3vm: opening image: %w", err)
	}
	defer fp.Close()

	con := console.New(os.Stdin, os.Stdout)

	var raw *console.RawMode
	if !noRaw {
		raw, err = console.EnableStdin()
		if err != nil {
			return fmt.Errorf("lc3vm: enabling raw terminal mode: %w", err)
		}
	} else {
		raw = console.Disabled()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	interrupted := make(chan struct{})
	go func() {
		<-sigCh
		close(interrupted)
	}()

	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		if err := raw.Restore(); err != nil {
			log.Printf("lc3vm: restoring terminal: %v", err)
		}
	}
	defer restore()

	m := machine.New(con)
	if _, err := image.Load(fp, m); err != nil {
		restore()
		return fmt.Errorf("lc3vm: loading image: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- runLoop(m, verbose, debug)
	}()

	select {
	case <-interrupted:
		restore()
		fmt.Println()
		return fmt.Errorf("lc3vm: interrupted")
	case err := <-done:
		restore()
		if errors.Is(err, machine.ErrHalted) {
			return nil
		}
		return err
	}
}

func runLoop(m *machine.Machine, verbose, debug bool) error {
	for {
		if verbose || debug {
			log.Printf("lc3vm: %s", m)
			log.Printf("lc3vm: %#04x %s", m.Mem(m.PC()), machine.Disassemble(m.Mem(m.PC())))
		}
		if debug {
			fmt.Print("lc3vm: paused...")
			fmt.Scanln()
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
}
