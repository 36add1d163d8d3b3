// Command server is the process entrypoint: load configuration, open
// the selected storage engine, and run the RESP and introspection
// listeners until a shutdown signal arrives.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironkv/ironkv/pkg/config"
	"github.com/ironkv/ironkv/pkg/info"
	"github.com/ironkv/ironkv/pkg/logger"
	"github.com/ironkv/ironkv/pkg/server"
	"github.com/ironkv/ironkv/pkg/storage/engine/badgerengine"
	"github.com/ironkv/ironkv/pkg/storage/engine/leveldbengine"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

func main() {
	configPath := flag.String("config", "./config/server.yaml", "path to the server's YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.Log.Level,
		FileName:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Logger

	st, err := openEngine(cfg.Storage.Engine, cfg.Storage.Dir)
	if err != nil {
		log.Error("failed to open storage engine", zap.Error(err), zap.String("engine", cfg.Storage.Engine))
		os.Exit(1)
	}
	defer st.Close()

	srv := server.New(server.Config{
		Bind:       cfg.Server.Bind,
		Port:       cfg.Server.Port,
		UnixSocket: cfg.Server.UnixSocket,
		MaxClients: cfg.Server.MaxClients,
		Databases:  cfg.Databases,
	}, st, log)

	infoSrv := info.New(cfg.Info.Addr, st, srv, cfg.Databases, log)
	go func() {
		if err := infoSrv.Run(); err != nil {
			log.Error("info endpoint stopped", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func openEngine(engine, dir string) (store.Store, error) {
	switch engine {
	case "leveldb":
		return leveldbengine.Open(dir)
	case "badger", "":
		return badgerengine.Open(dir)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", engine)
	}
}
