package task

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/todo-api/modules/cache"
	"github.com/redis/go-redis/v9"
)

// The cache is wired before Start, so the service built during startup
// already carries it and is never replaced while the module is serving.
func TestModule_SetCacheBeforeStart(t *testing.T) {
	t.Setenv("TASK_DB_PATH", filepath.Join(t.TempDir(), "tasks.db"))

	m := NewModule()
	c := cache.New(redis.NewClient(&redis.Options{Addr: "localhost:6379"}), "tasks:", time.Minute)
	m.SetCache(c)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(context.Background())

	if m.service == nil {
		t.Fatal("service not built by Start()")
	}
	if m.service.cache != c {
		t.Error("service started without the pre-wired cache")
	}
}

func TestModule_StartWithoutCache(t *testing.T) {
	t.Setenv("TASK_DB_PATH", filepath.Join(t.TempDir(), "tasks.db"))

	m := NewModule()
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(context.Background())

	if m.service == nil {
		t.Fatal("service not built by Start()")
	}
	if m.service.cache != nil {
		t.Error("service should have no cache when none was wired")
	}
}
