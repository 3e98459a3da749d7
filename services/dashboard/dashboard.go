package main

import (
	"flag"
	"fmt"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"github.com/flowlytics/flowlytics/services/dashboard/internal/config"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/handler"
	"github.com/flowlytics/flowlytics/services/dashboard/internal/svc"
)

var configFile = flag.String("f", "etc/dashboard.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting dashboard at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
