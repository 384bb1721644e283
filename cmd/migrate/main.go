package main

import (
	"errors"
	"log"
	"pawsay/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// 只有 store.driver=postgres 时需要执行迁移
func main() {
	config.LoadConfig()
	cfg := config.GlobalConfig
	if cfg.Store.Driver != "postgres" {
		log.Printf("store driver is %q, nothing to migrate", cfg.Store.Driver)
		return
	}

	m, err := migrate.New("file://migrations", cfg.Database.URL())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		// dirty 状态：强制回到记录的版本后重试
		var dirty migrate.ErrDirty
		if !errors.As(err, &dirty) {
			log.Fatal(err)
		}
		log.Printf("Database is dirty at version %d, forcing...", dirty.Version)
		if err := m.Force(dirty.Version); err != nil {
			log.Fatal("Failed to force version:", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
	}

	log.Println("Migration successful")
}
