package server

import (
	"os"

	"github.com/joho/godotenv"
)

// Settings 进程级配置，来自 .env 与环境变量
type Settings struct {
	Addr     string // 监听地址
	LogFile  string // 日志文件路径
	LogLevel string // debug/info/warn/error
}

// LoadSettings 先尝试加载 .env（没有也不算错误），再读环境变量取默认值
func LoadSettings() Settings {
	_ = godotenv.Load()
	return Settings{
		Addr:     envOr("WORLD_ADDR", ":8080"),
		LogFile:  envOr("WORLD_LOG_FILE", "world.log"),
		LogLevel: envOr("WORLD_LOG_LEVEL", "info"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
