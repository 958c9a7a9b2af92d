// Package main runs the familyhub client command.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	familyhubcmd "github.com/louisbranch/familyhub/internal/cmd/familyhub"
	"github.com/louisbranch/familyhub/internal/platform/config"
)

func main() {
	cfg, err := familyhubcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[FAMILYHUB] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := familyhubcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		config.Exitf("familyhub: %v", err)
	}
}
