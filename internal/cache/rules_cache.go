package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mockquiz-service/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	activeRulesKey = "mockquiz:access_rules:active"
	rulesTTL       = 60 * time.Second
)

// RuleCache keeps the active access-rule set in Redis so the resolver does
// not hit Mongo on every quiz creation. A nil *RuleCache is valid and
// behaves as a permanent miss, which keeps Redis optional.
type RuleCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRuleCache(client *redis.Client, logger *slog.Logger) *RuleCache {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleCache{client: client, logger: logger}
}

func (c *RuleCache) GetActiveRules(ctx context.Context) ([]models.AccessRule, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, activeRulesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("rule cache read failed", "error", err)
		}
		return nil, false
	}
	var rules []models.AccessRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		c.logger.Warn("rule cache decode failed", "error", err)
		return nil, false
	}
	return rules, true
}

func (c *RuleCache) SetActiveRules(ctx context.Context, rules []models.AccessRule) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(rules)
	if err != nil {
		c.logger.Warn("rule cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, activeRulesKey, raw, rulesTTL).Err(); err != nil {
		c.logger.Warn("rule cache write failed", "error", err)
	}
}

// Invalidate drops the cached rule set; called after any rule mutation.
func (c *RuleCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, activeRulesKey).Err(); err != nil {
		c.logger.Warn("rule cache invalidate failed", "error", err)
	}
}
