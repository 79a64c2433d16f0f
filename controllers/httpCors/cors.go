package httpCors

import (
	"github.com/rs/cors"
)

// CorsSettings restricts cross-origin access to the admin console origin.
func CorsSettings(frontendOrigin string) *cors.Cors {
	allowedOrigins := []string{"*"}
	if frontendOrigin != "" {
		allowedOrigins = []string{frontendOrigin}
	}

	return cors.New(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Authorization"},
	})
}
