package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultRetryInterval 是初次连接失败后的重试间隔。
const DefaultRetryInterval = 5 * time.Second

// ConnectWithRetry 反复调用 connect 直到成功或 ctx 结束，每次失败后等待 interval。
func ConnectWithRetry(ctx context.Context, logger *zap.Logger, name string, interval time.Duration, connect func(context.Context) error) error {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	attempt := 0
	operation := func() error {
		attempt++
		logger.Info("attempting to connect", zap.String("store", name), zap.Int("attempt", attempt))
		return connect(ctx)
	}
	notify := func(err error, next time.Duration) {
		logger.Error("connection error, retrying",
			zap.String("store", name),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return err
	}

	logger.Info("connected successfully", zap.String("store", name), zap.Int("attempts", attempt))
	return nil
}
