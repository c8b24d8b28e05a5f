package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/termwall/internal/loop"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "wall"})

	opts, err := loop.EnvOptions()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	if err := run(opts); err != nil {
		logger.Fatal("wallpaper stopped", "err", err)
	}
}

// run draws the wallpaper on the local terminal until q or a signal.
func run(opts loop.Options) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := loop.NewSession(os.Stdin, os.Stdout, opts)
	if err != nil {
		return err
	}
	return session.Run(ctx)
}
