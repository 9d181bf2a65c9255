package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ride_console/internal/maps"
	"ride_console/platform/config"
	"ride_console/platform/logger"
)

// geocode resolves each argument with the configured provider and prints
// one tab-separated "lat lon place" line per address.
func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for all lookups")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: geocode [-timeout d] <address> [address...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	svc := maps.NewServiceFromConfig(cfg, log)
	if !svc.Ready() {
		log.Error("geocoding provider not initialized", "provider", svc.ProviderName())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	failed := 0
	for _, address := range flag.Args() {
		res, err := svc.Resolve(ctx, address)
		if err != nil {
			log.Error("geocode failed", "address", address, "error", err)
			failed++
			continue
		}
		fmt.Printf("%.6f\t%.6f\t%s\n", res.Lat, res.Lon, strings.TrimSpace(res.Place))
	}

	if failed > 0 {
		os.Exit(1)
	}
}
