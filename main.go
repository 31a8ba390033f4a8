// fiobot 是一个基于OneBot v11协议的QQ机器人，
// 核心功能是明日方舟公开招募的标签识别与组合计算。
package main

import (
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/fiobot/fiobot/fiobot"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	var configPath string
	flag.StringVar(&configPath, "c", "fiobot.toml", "配置文件路径")
	flag.Parse()

	config := fiobot.LoadConfig(configPath)

	robot := fiobot.NewRobot(config)
	if err := robot.Start(); err != nil {
		logger.Fatalf("启动失败: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("收到退出信号，正在停止...")
	robot.Stop()
}
