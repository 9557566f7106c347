package main

import (
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/tsereda/SiliconToPhonopy/config"
	"github.com/tsereda/SiliconToPhonopy/internal/bootstrap"
	"github.com/tsereda/SiliconToPhonopy/internal/matproj"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		log.Printf("upstream cache enabled at %s", cfg.Redis.Addr)
	}

	var mpClient *matproj.Client
	if cfg.MatProj.APIKey != "" {
		mpClient, err = matproj.NewClient(matproj.Config{
			APIKey:  cfg.MatProj.APIKey,
			BaseURL: cfg.MatProj.BaseURL,
			Cache:   cache,
		})
		if err != nil {
			log.Fatalf("materials project client: %v", err)
		}
	} else {
		log.Println("MP_API_KEY not set, /api/v1/materials endpoints disabled")
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "vasp-input-backend",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		MatProj:     mpClient,
		Cache:       cache,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
