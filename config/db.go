package config

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	DB    *gorm.DB
	Store *sessions.CookieStore
)

func InitDB(cfg Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to mysql: %w", err)
	}

	DB = db
	return nil
}

// InitStore sets up the cookie store that carries the OAuth state value
// between the login redirect and the provider callback.
func InitStore(cfg Config) {
	Store = sessions.NewCookieStore([]byte(cfg.SessionSecret))
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600, // the state only needs to survive the consent screen
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
