package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/antisocialnet/antisocialnet/internal/database"
	"github.com/antisocialnet/antisocialnet/internal/logger"
	"github.com/antisocialnet/antisocialnet/internal/model"
	"github.com/antisocialnet/antisocialnet/internal/router"
	"github.com/antisocialnet/antisocialnet/internal/service"
	"github.com/antisocialnet/antisocialnet/pkg/cache"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Version 构建时注入
var Version = "dev"

// NewApp 构建命令行应用
func NewApp() *cli.App {
	return &cli.App{
		Name:    "antisocialnet",
		Usage:   "社交博客服务",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   ".",
				Usage:   "配置文件所在目录",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			createAdminCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "启动HTTP服务",
		Action: func(c *cli.Context) error {
			db, err := bootstrap(c.String("config"))
			if err != nil {
				return err
			}

			var cacheClient cache.Cache
			if client, err := database.InitRedis(&config.GetConfig().Redis); err == nil && client != nil {
				cacheClient = cache.NewRedisCache(client)
			} else if err != nil {
				logger.Warnf("Redis不可用，缓存降级为直读数据库: %v", err)
			}

			settingService := service.NewSettingService(db, cacheClient)
			if err := settingService.Seed(); err != nil {
				return err
			}

			cleanup := service.NewCleanupService(db)
			if err := cleanup.Start(); err != nil {
				return err
			}
			defer cleanup.Stop()

			engine := router.Setup(db, cacheClient)
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", config.GetConfig().App.Port),
				Handler: engine,
			}

			go func() {
				logger.Infof("服务启动，监听 %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Errorf("服务异常退出: %v", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			logger.Infof("收到退出信号，开始优雅关闭")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return logger.Sync()
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "执行数据库迁移",
		Action: func(c *cli.Context) error {
			db, err := bootstrap(c.String("config"))
			if err != nil {
				return err
			}
			if err := model.InitTables(db); err != nil {
				return err
			}
			if err := service.NewSettingService(db, nil).Seed(); err != nil {
				return err
			}
			logger.Infof("数据库迁移完成")
			return nil
		},
	}
}

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "创建管理员账号",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(c *cli.Context) error {
			db, err := bootstrap(c.String("config"))
			if err != nil {
				return err
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(c.String("password")), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin := model.User{
				Username:        c.String("username"),
				Email:           c.String("email"),
				Password:        string(hashed),
				IsProfilePublic: true,
				Theme:           "light",
				IsAdmin:         true,
				IsApproved:      true,
				IsActive:        true,
			}
			if err := db.Create(&admin).Error; err != nil {
				return err
			}
			logger.Infof("管理员已创建: %s", admin.Username)
			return nil
		},
	}
}

// bootstrap 初始化配置、日志、数据库与表结构
func bootstrap(configPath string) (*gorm.DB, error) {
	if err := config.Init(configPath); err != nil {
		return nil, err
	}
	if err := logger.Init(); err != nil {
		return nil, err
	}

	db, err := database.InitMySQL(&config.GetConfig().MySQL)
	if err != nil {
		return nil, err
	}
	if err := model.InitTables(db); err != nil {
		return nil, err
	}
	return db, nil
}
