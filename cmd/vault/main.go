package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/vaultkeeper/internal/cli"
	"github.com/dmitrijs2005/vaultkeeper/internal/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig(os.Args[1:])

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vaultkeeper: %v\n", err)
		memguard.SafeExit(1)
	}

	initSignalHandler(app)

	app.Run(ctx)

	if err := app.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "vaultkeeper: %v\n", err)
	}
	memguard.Purge()
}

// initSignalHandler closes the vault and wipes key material on interrupt.
// The REPL blocks on stdin, so exiting here is the only way out.
func initSignalHandler(app *cli.App) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		_ = app.Close()
		memguard.SafeExit(130)
	}()
}
