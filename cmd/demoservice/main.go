// Command demoservice runs the demo HTTP service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/demoservice/config"
	"github.com/kbukum/demoservice/logger"
)

func main() {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithDefaults(config.Defaults())); err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	app, _, err := newApp(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start %s: %v\n", serviceName, err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		app.Logger.Error("Service stopped with error", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}
