package mainconfig

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/voice-receptionist/internal/appointments"
	appconfig "github.com/wolfman30/voice-receptionist/internal/config"
	"github.com/wolfman30/voice-receptionist/internal/conversation"
	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// BuildSessionStore returns the configured history store and a close func.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config) (conversation.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case "", "memory":
		return conversation.NewMemoryStore(), func() {}, nil
	case "redis":
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("mainconfig: redis ping %s: %w", cfg.RedisAddr, err)
		}
		return conversation.NewRedisStore(client, cfg.RedisKeyPrefix, cfg.SessionTTL), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("mainconfig: unknown SESSION_STORE %q", cfg.SessionStore)
	}
}

// BuildArtifactStore uses S3 when AUDIO_S3_BUCKET is set, otherwise AUDIO_DIR.
func BuildArtifactStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (speech.ArtifactStore, error) {
	if strings.TrimSpace(cfg.AudioS3Bucket) == "" {
		return speech.NewLocalStore(cfg.AudioDir)
	}
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("mainconfig: aws config: %w", err)
	}
	return speech.NewS3Store(NewS3Client(awsCfg, cfg), cfg.AudioS3Bucket, cfg.AudioS3Prefix, logger), nil
}

// BuildLedger returns a no-op ledger without DATABASE_URL. The pool is nil
// in that case.
func BuildLedger(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (appointments.Ledger, *pgxpool.Pool, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return appointments.NopLedger{}, nil, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("mainconfig: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("mainconfig: ping postgres: %w", err)
	}
	ledger := appointments.NewPostgresLedger(pool)
	if err := ledger.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("appointment ledger enabled")
	return ledger, pool, nil
}

// BuildLLMClient wires the provider named by provider (LLM_PROVIDER when blank).
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, provider string) (conversation.LLMClient, error) {
	if provider == "" {
		provider = cfg.LLMProvider
	}
	pc := conversation.ProviderConfig{
		Provider:       provider,
		OpenAIAPIKey:   cfg.OpenAIAPIKey,
		OpenAIBaseURL:  cfg.OpenAIBaseURL,
		OpenAIModel:    cfg.OpenAIModel,
		GeminiAPIKey:   cfg.GeminiAPIKey,
		GeminiModelID:  cfg.GeminiModelID,
		BedrockModelID: cfg.BedrockModelID,
	}
	if strings.EqualFold(strings.TrimSpace(provider), conversation.ProviderBedrock) {
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mainconfig: aws config: %w", err)
		}
		return conversation.BuildLLMClient(ctx, pc, bedrockruntime.NewFromConfig(awsCfg))
	}
	return conversation.BuildLLMClient(ctx, pc, nil)
}
