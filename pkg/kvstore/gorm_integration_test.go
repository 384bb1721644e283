//go:build integration

package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 启动一次性的 PostgreSQL 容器：go test -tags integration ./pkg/kvstore/...
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "pawsay",
			"POSTGRES_PASSWORD": "pawsay",
			"POSTGRES_DB":       "pawsay",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s user=pawsay password=pawsay dbname=pawsay port=%s sslmode=disable", host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	_, file, _, _ := runtime.Caller(0)
	up, err := os.ReadFile(filepath.Join(filepath.Dir(file), "..", "..", "migrations", "000001_create_pawsay_records.up.sql"))
	require.NoError(t, err)
	require.NoError(t, db.Exec(string(up)).Error)

	return db
}

func TestGormStoreIntegration(t *testing.T) {
	ctx := context.Background()
	store := NewGormStore(setupPostgres(t))

	c := NewCollection[item](store, KeyPosts)
	require.NoError(t, c.Replace(ctx, []item{{ID: "a"}}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Mutate(ctx, func(items []item) ([]item, error) {
				items[0].Count++
				return items, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, items[0].Count)
}
