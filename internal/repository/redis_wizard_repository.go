package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"survey_wizard/internal/util"
	"survey_wizard/internal/wizard"
)

const wizardKeyPrefix = "survey:wizard:"

// RedisWizardRepository stores states as JSON with a TTL matching the
// browser session lifetime.
type RedisWizardRepository struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisWizardRepository(rdb *redis.Client, ttl time.Duration) *RedisWizardRepository {
	return &RedisWizardRepository{Redis: rdb, TTL: ttl}
}

func wizardKey(sessionID string) string {
	return wizardKeyPrefix + sessionID
}

func (r *RedisWizardRepository) Find(ctx context.Context, sessionID string) (wizard.State, error) {
	data, err := r.Redis.Get(ctx, wizardKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return wizard.State{}, util.ErrSessionNotFound
	}
	if err != nil {
		return wizard.State{}, fmt.Errorf("load wizard state: %w", err)
	}

	var state wizard.State
	if err := json.Unmarshal(data, &state); err != nil {
		return wizard.State{}, fmt.Errorf("decode wizard state: %w", err)
	}
	return state, nil
}

func (r *RedisWizardRepository) Save(ctx context.Context, state wizard.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode wizard state: %w", err)
	}
	if err := r.Redis.Set(ctx, wizardKey(state.SessionID), data, r.TTL).Err(); err != nil {
		return fmt.Errorf("save wizard state: %w", err)
	}
	return nil
}

func (r *RedisWizardRepository) Ping(ctx context.Context) error {
	return r.Redis.Ping(ctx).Err()
}
