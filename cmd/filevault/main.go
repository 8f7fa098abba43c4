// Command filevault starts the HTTP/1.1 file-management server and its
// administrator console. Wiring order follows spec.md §6/§9: settings are
// loaded once and passed explicitly down through the store, the router's
// endpoint registration, and the listener, instead of living in package
// globals.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/filevault/server/internal/admin"
	"github.com/filevault/server/internal/config"
	"github.com/filevault/server/internal/handlers"
	"github.com/filevault/server/internal/listener"
	"github.com/filevault/server/internal/logger"
	"github.com/filevault/server/internal/router"
	"github.com/filevault/server/internal/store"
)

const filesEndpointRoot = "/files"

func main() {
	settingsPath := flag.String("settings", "configs/server.conf", "path to the key/value settings file")
	flag.Parse()

	loaded, err := config.Load(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	settings := loaded.Settings

	log, err := logger.New(logger.LevelFromString(loaded.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	requestLog := logrus.New()
	requestLog.SetFormatter(&logrus.JSONFormatter{})

	fileStore, err := store.New(settings.FileDirectory, settings.MetadataFile, settings.MetadataIDKey, settings.MetadataDataKey, log)
	if err != nil {
		log.Error("failed to open file store", "error", err)
		os.Exit(1)
	}

	templates, err := router.LoadTemplates(settings.TemplatesFile)
	if err != nil {
		log.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	registry := router.NewRegistry()
	registry.Register(&router.Endpoint{
		Root:      filesEndpointRoot,
		Templates: templates[filesEndpointRoot],
		Handlers: map[router.Action]handlers.Handler{
			router.ActionUpload:   handlers.NewUpload(fileStore),
			router.ActionDownload: handlers.NewDownload(fileStore),
			router.ActionView:     handlers.NewView(fileStore),
			router.ActionRename:   handlers.NewRename(fileStore),
			router.ActionOverride: handlers.NewOverride(fileStore),
			router.ActionDelete:   handlers.NewDelete(fileStore),
		},
		Close: fileStore.Flush,
	})

	addr := settings.Host + ":" + settings.Port
	sup := listener.New(addr, registry, settings.HTTPVersion, settings.ServerName, log, requestLog)
	if err := sup.Start(); err != nil {
		log.Error("failed to start listener", "error", err)
		os.Exit(1)
	}

	console := admin.New(sup, log, settings.ServerName, os.Stdout)
	console.Run(os.Stdin)

	if err := sup.Stop(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
