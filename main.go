package main

import (
	"flag"
	"fmt"

	"tempo/internal/config"
	"tempo/internal/errorx"
	"tempo/internal/handler"
	"tempo/internal/logic/bridge"
	"tempo/internal/logic/depin"
	"tempo/internal/model"
	"tempo/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
)

var (
	configFile  = flag.String("f", "etc/tempo.yaml", "the config file")
	migrateOnly = flag.Bool("migrate", false, "apply database migrations and exit")
)

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	if *migrateOnly {
		runMigrations(c)
		return
	}

	server := rest.MustNewServer(c.RestConf, rest.WithCors())

	ctx := svc.NewServiceContext(c)
	defer ctx.Close()

	httpx.SetErrorHandlerCtx(errorx.Handler)
	handler.RegisterHandlers(server, ctx)

	janitor, err := depin.NewJanitor(ctx)
	logx.Must(err)

	// 服务组: REST 服务, 跨链状态轮询, 设备离线巡检
	group := service.NewServiceGroup()
	defer group.Stop()
	group.Add(server)
	group.Add(bridge.NewPoller(ctx))
	group.Add(janitor)

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	group.Start()
}

func runMigrations(c config.Config) {
	db, err := svc.InitDB(c)
	logx.Must(err)

	sqlDB, err := db.DB()
	logx.Must(err)
	defer sqlDB.Close()

	logx.Must(model.Migrate(sqlDB))
	fmt.Println("migrations applied")
}
