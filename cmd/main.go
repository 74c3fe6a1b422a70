package main

import (
	"context"
	"os"
	"os/signal"

	cmd "github.com/kerbaras/threadgrab/cmd/threadgrab"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cmd.Execute(ctx)
	cancel()
	os.Exit(code)
}
