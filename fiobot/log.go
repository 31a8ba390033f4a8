package fiobot

import (
	"io"
	"os"
	"path"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	logger "github.com/sirupsen/logrus"
)

// initLogger 初始化日志：控制台 + 按天滚动的日志文件
func initLogger(logDir string) {
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	writer, err := rotatelogs.New(
		path.Join(logDir, "fiobot.%Y-%m-%d.log"),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		logger.Warnf("init rotate log failed, only log to stdout, err=%v", err)
		return
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
}
