package main

import (
	"log"
	"net/http"

	"aimex-backend/config"
	"aimex-backend/controllers/authentication"
	"aimex-backend/controllers/httpCors"
	"aimex-backend/controllers/middleware"
	"aimex-backend/models/users"
	"aimex-backend/services/handshake"
	"aimex-backend/services/social"
	"aimex-backend/services/usage"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecretKey == "" || cfg.SessionSecret == "" {
		log.Fatal("JWT_SECRET_KEY and SESSION_SECRET must be set")
	}

	if err := config.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := config.DB.AutoMigrate(&users.User{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := config.InitRedis(cfg); err != nil {
		log.Printf("Redis unavailable, rate limiting and usage counters disabled: %v", err)
	}
	config.InitStore(cfg)

	registry := social.NewRegistry(
		social.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		social.NewInstagram(cfg.InstagramAppID, cfg.InstagramAppSecret, cfg.InstagramRedirectURL),
	)
	broker := handshake.NewBroker(handshake.DefaultTimeout)
	recorder := usage.NewRecorder(config.Redis)
	limiter := middleware.NewRateLimiter(config.Redis)

	h := authentication.NewHandler(cfg, config.DB, registry, broker, recorder, config.Store)

	mux := http.NewServeMux()

	// Popup handshake: consent redirect, provider callback, result long-poll.
	mux.HandleFunc("/login/google", h.GoogleLogin)
	mux.HandleFunc("/callback/google", h.GoogleCallback)
	mux.HandleFunc("/login/instagram", h.InstagramLogin)
	mux.HandleFunc("/callback/instagram", h.InstagramCallback)
	mux.HandleFunc("/api/auth/attempts/", h.Attempt)

	// Token endpoints.
	mux.HandleFunc("/api/auth/social-login", limiter.Limit(h.SocialLogin))
	mux.HandleFunc("/api/auth/login", limiter.Limit(h.Login))
	mux.HandleFunc("/api/auth/me", h.RequireAuth(h.Me))

	handler := httpCors.CorsSettings(cfg.FrontendOrigin).Handler(mux)

	log.Printf("AIMEX auth backend listening on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
