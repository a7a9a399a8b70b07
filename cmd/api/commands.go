package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

var (
	hashCost    int
	eventsQueue string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建或补齐books表",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "生成后台账号的bcrypt密码哈希（写入admin.users[].password_hash）",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "订阅并打印图书事件（book.*）",
	Long: `连接mq.url，在mq.exchange上绑定book.*并把收到的事件写入日志，Ctrl+C退出。

未指定--queue时使用临时独占队列，退出后自动删除。`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	eventsCmd.Flags().StringVar(&eventsQueue, "queue", "", "持久化队列名（默认临时队列）")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, undo, err := bootstrap()
	if err != nil {
		return err
	}
	defer undo()

	if cfg.Database.Driver == config.DriverMemory {
		zap.L().Info("memory驱动无需迁移")
		return nil
	}

	// NewDB连接成功后会执行AutoMigrate
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	zap.L().Info("迁移完成", zap.String("driver", cfg.Database.Driver))
	return nil
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), hashCost)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, undo, err := bootstrap()
	if err != nil {
		return err
	}
	defer undo()

	if !cfg.MQ.Enabled {
		return fmt.Errorf("消息队列未启用（mq.enabled=false）")
	}

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, "topic", eventsQueue, []string{"book.*"})
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return consumer.Consume(ctx, func(d mq.Delivery) error {
		zap.L().Info("图书事件",
			zap.String("routing_key", d.RoutingKey),
			zap.Time("timestamp", d.Timestamp),
			zap.ByteString("body", d.Body),
		)
		return nil
	})
}
