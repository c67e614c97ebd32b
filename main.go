package main

import (
	"context"
	"log"
	"time"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/routes"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer utils.Logger.Sync()

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		utils.Sugar.Fatalf("store open failed: %v", err)
	}
	st.CleanOldCheckins(time.Now())

	sess := session.NewManager(st)

	var api upstream.CheckAPI
	if cfg.UseSyntheticAPI {
		utils.Sugar.Info("using synthetic check-in API")
		api = upstream.NewSynthetic(cfg, st)
	} else {
		api = upstream.NewRemote(cfg, sess)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mon := upstream.NewMonitor(api, time.Duration(cfg.ProbeIntervalSec)*time.Second)
	mon.Start(ctx)

	r := routes.SetupRouter(api, sess, st, mon)

	utils.Sugar.Infof("listening on :%s (upstream=%s synthetic=%v)",
		cfg.AppPort, cfg.UpstreamBaseURL, cfg.UseSyntheticAPI)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server exited: %v", err)
	}
}
