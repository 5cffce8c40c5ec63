// Package main repairs fonts that fail to load in the worksheet.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	fontfixcmd "github.com/louisbranch/zitie/internal/cmd/fontfix"
	"github.com/louisbranch/zitie/internal/platform/config"
)

func main() {
	cfg, err := fontfixcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("fontfix: %v", err)
	}
	log.SetPrefix("[FONTFIX] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fontfixcmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("fontfix: %v", err)
	}
}
