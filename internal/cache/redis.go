package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/volumescan/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "vs"

// Cache Redis 客户端封装，nil 或未启用时所有操作均为空操作
type Cache struct {
	client *redis.Client
	prefix string
}

// NewRedis 根据配置创建缓存，未启用时返回 nil
func NewRedis(cfg *config.RedisConfig) *Cache {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return New(client, cfg.Prefix)
}

// New 基于已有客户端创建缓存
func New(client *redis.Client, prefix string) *Cache {
	if client == nil {
		return nil
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

// Enabled 判断缓存是否启用
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Client 获取 Redis 客户端
func (c *Cache) Client() *redis.Client {
	if !c.Enabled() {
		return nil
	}
	return c.client
}

// Prefix 获取 key 前缀
func (c *Cache) Prefix() string {
	if c == nil || c.prefix == "" {
		return defaultPrefix
	}
	return c.prefix
}

// Ping 探测连通性
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close 关闭客户端
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Key 拼接带前缀的 key
func (c *Cache) Key(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return c.Prefix()
	}
	return fmt.Sprintf("%s:%s", c.Prefix(), trimmed)
}
