package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mhfrontier/launcher/pkg/launcher"
	"github.com/mhfrontier/launcher/pkg/logging"
	"github.com/mhfrontier/launcher/pkg/mhf"
	"github.com/mhfrontier/launcher/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "Settings file path (default: launcher.yaml next to the binary)")
	server := flag.String("server", "", `Sign server for this run: "local" or a base URL`)
	folder := flag.String("folder", "", "Game installation directory")
	loader := flag.String("loader", "", "Runtime loader executable")
	logLevel := flag.String("log-level", "", "Log level: "+logging.LevelNames())
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("mhf-launcher " + version.Full())
		return
	}

	settings := launcher.LoadSettings(*configPath)
	if *server != "" {
		settings.Host = *server
	}
	if *folder != "" {
		settings.Folder = *folder
	}
	if *loader != "" {
		settings.Loader = *loader
	}

	// Default to "info"; settings, MHFL_LOG_LEVEL and --log-level override
	// in that order.
	level := settings.LogLevel
	if level == "" {
		level = "info"
	}
	if v := os.Getenv("MHFL_LOG_LEVEL"); v != "" {
		level = v
	}
	if *logLevel != "" {
		level = *logLevel
	}
	// The console owns stdout, logs go to stderr.
	_ = logging.Setup(logging.Options{
		Level:  level,
		Format: "text",
		Output: os.Stderr,
	})

	client := launcher.NewClient(launcher.ParseHost(settings.Host))
	runtime := &mhf.ProcessRuntime{LoaderPath: settings.LoaderPath()}
	engine := launcher.NewEngine(client, runtime, settings.Folder)

	app := newApp(engine, client, settings, *configPath)
	if err := app.run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
