package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"webhook-verify/internal/config"
	"webhook-verify/internal/handlers"
	"webhook-verify/internal/logging"
	"webhook-verify/internal/middleware"
	"webhook-verify/internal/registry"
	"webhook-verify/internal/replay"
	"webhook-verify/internal/secrets"
	"webhook-verify/internal/server"
	"webhook-verify/internal/webhook"
	"webhook-verify/internal/webhook/providers"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Prefix: "webhook-verify",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobalLogger(logger)
	defer logging.MustSync()

	reg, err := buildRegistry(cfg, logger)
	if err != nil {
		logger.Error("Failed to build provider registry", err)
		os.Exit(1)
	}
	defer reg.Close()

	if len(reg.Keys()) == 0 {
		logger.Warn("No provider secrets configured; all webhook requests will be rejected")
	}

	opts := []handlers.Option{}
	var cache *replay.Cache
	if cfg.ReplayCacheEnabled {
		cache, err = replay.New(&replay.Config{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDBNumber(),
			PoolSize: cfg.RedisPool(),
			Window:   cfg.ReplayWindowDuration(),
		})
		if err != nil {
			logger.Error("Failed to connect replay cache", err)
			os.Exit(1)
		}
		defer cache.Close()
		opts = append(opts, handlers.WithReplayCache(cache))
		logger.Info("Replay cache enabled",
			logging.Field{Key: "address", Value: cfg.RedisAddress},
			logging.Field{Key: "window", Value: cfg.ReplayWindow},
		)
	}

	h := handlers.New(reg, logger, opts...)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	h.Routes(router)

	srv := server.New(router, cfg.Port, "", "")
	if err := srv.Start(); err != nil {
		logger.Error("Server failed to start", err)
		os.Exit(1)
	}
	logger.Info("Server started",
		logging.Field{Key: "port", Value: cfg.Port},
		logging.Field{Key: "providers", Value: reg.Keys()},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("Shutting down server")
	case err := <-srv.Err():
		logger.Error("Server failed", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
		os.Exit(1)
	}
	logger.Info("Server exited")
}

// buildRegistry registers a verifier for every provider whose secret is
// configured. Secrets may arrive in the clear or as _ENC ciphertexts
// decrypted with SECRETS_MASTER_KEY.
func buildRegistry(cfg *config.Config, logger logging.Logger) (*registry.Registry, error) {
	var enc *secrets.Encryptor
	if cfg.SecretsMasterKey != "" {
		var err error
		enc, err = secrets.NewEncryptor(cfg.SecretsMasterKey)
		if err != nil {
			return nil, fmt.Errorf("initialize secrets encryptor: %w", err)
		}
	}

	resolve := func(plain, envVar string) (string, error) {
		if plain != "" {
			return plain, nil
		}
		ciphertext := config.EncryptedSecret(envVar)
		if ciphertext == "" {
			return "", nil
		}
		if enc == nil {
			return "", fmt.Errorf("%s_ENC is set but SECRETS_MASTER_KEY is not", envVar)
		}
		buf, err := enc.Decrypt(ciphertext)
		if err != nil {
			return "", fmt.Errorf("decrypt %s_ENC: %w", envVar, err)
		}
		defer buf.Destroy()
		return string(buf.Bytes()), nil
	}

	tolerance := webhook.Tolerance{
		Past:   cfg.PastTolerance(),
		Future: cfg.FutureTolerance(),
	}
	reg := registry.New()

	register := func(key string, provider webhook.Provider, deliveryIDHeader string) error {
		err := reg.Register(key, registry.Entry{
			Provider:         provider,
			MaxBodySize:      cfg.MaxBodyBytes(),
			Tolerance:        tolerance,
			DeliveryIDHeader: deliveryIDHeader,
		})
		if err != nil {
			return err
		}
		logger.Info("Provider registered", logging.Field{Key: "provider", Value: key})
		return nil
	}

	type providerSpec struct {
		name     string
		envVar   string
		plain    string
		idHeader string
		build    func(secret string) (webhook.Provider, error)
	}
	specs := []providerSpec{
		{"github", "GITHUB_WEBHOOK_SECRET", cfg.GitHubSecret, providers.GitHubDeliveryHeader,
			func(s string) (webhook.Provider, error) { return providers.NewGitHub([]byte(s)), nil }},
		{"slack", "SLACK_WEBHOOK_SECRET", cfg.SlackSecret, "",
			func(s string) (webhook.Provider, error) { return providers.NewSlack([]byte(s)), nil }},
		{"stripe", "STRIPE_WEBHOOK_SECRET", cfg.StripeSecret, "",
			func(s string) (webhook.Provider, error) { return providers.NewStripe([]byte(s)), nil }},
		{"shopify", "SHOPIFY_WEBHOOK_SECRET", cfg.ShopifySecret, "",
			func(s string) (webhook.Provider, error) { return providers.NewShopify([]byte(s)), nil }},
		{"standard", "STANDARD_WEBHOOK_SECRET", cfg.StandardSecret, providers.StandardIDHeader,
			func(s string) (webhook.Provider, error) { return providers.NewStandard(s) }},
		{"svix", "SVIX_WEBHOOK_SECRET", cfg.SvixSecret, providers.SvixIDHeader,
			func(s string) (webhook.Provider, error) { return providers.NewSvixFromSecret(s) }},
		{"discord", "DISCORD_PUBLIC_KEY", cfg.DiscordKey, "",
			func(s string) (webhook.Provider, error) { return providers.NewDiscord(s) }},
		{"sendgrid", "SENDGRID_PUBLIC_KEY", cfg.SendGridKey, "",
			func(s string) (webhook.Provider, error) { return providers.NewSendGrid(s) }},
	}

	for _, spec := range specs {
		secret, err := resolve(spec.plain, spec.envVar)
		if err != nil {
			return nil, err
		}
		if secret == "" {
			continue
		}
		provider, err := spec.build(secret)
		if err != nil {
			return nil, fmt.Errorf("configure %s: %w", spec.name, err)
		}
		if err := register(spec.name, provider, spec.idHeader); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
