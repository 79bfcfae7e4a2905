package main

import (
	"context"
	"log"
	"os"

	"github.com/hoshinonyaruko/gridsnake/api"
	"github.com/hoshinonyaruko/gridsnake/config"
	"github.com/hoshinonyaruko/gridsnake/memimg"
	"github.com/hoshinonyaruko/gridsnake/sqlite"
)

func main() {
	// Initialize the configuration
	cfg, err := config.LoadConfig("./config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	EnsureFoldersExist(cfg.SpriteDir, cfg.OutputDir)

	// 载入贴图到内存
	sprites := memimg.NewSprites(cfg.Blocksize)
	if err := sprites.Load(cfg.SpriteDir); err != nil {
		log.Printf("Some sprites failed to load, falling back to plain cells: %v", err)
	}
	// 检测并热更新到内存 加速绘图
	if err := sprites.Watch(context.Background(), cfg.SpriteDir); err != nil {
		log.Printf("Sprite hot reload disabled: %v", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	router := api.NewRouter(api.NewManager(db, cfg), sprites)
	// 从配置单例读取端口 监听
	if err := router.Run(":" + config.GetConfigValue("port").(string)); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755) // 使用0755权限以确保读写权限
			if err != nil {
				// 如果创建失败，则记录错误并可能退出程序
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		} else {
			// 文件夹已存在
			log.Printf("%s directory already exists", folder)
		}
	}
}
