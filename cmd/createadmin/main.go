// Command createadmin inserts an admin user into admin_users.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"regdesk/cmd/buildCFG"
	"regdesk/internal/auth"
	"regdesk/internal/legacy"
	"regdesk/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (at least 8 characters)")
	name := flag.String("name", "", "display name")
	flag.Parse()

	zlog.Init()
	log := zlog.Logger
	cfg, err := buildCFG.Load(*configPath, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	dbCfg := buildCFG.BuildDBConfig(cfg, &log)

	db, err := dbpg.New(dbCfg.MasterDSN, nil, dbCfg.Options)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open DB pool")
	}
	defer db.Master.Close()

	store, err := legacy.NewStore(db.Master, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize legacy store")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc := service.NewAuth(store, auth.NewManager("", 0), &log)
	admin, res := svc.CreateAdmin(ctx, *email, *password, *name)
	if !res.Success {
		log.Fatal().Str("code", res.Code).Msg(res.Message)
	}
	log.Info().Int64("admin_id", admin.ID).Str("email", admin.Email).Msg("admin created")
}
