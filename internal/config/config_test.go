package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
jwt:
  secret: short
storage:
  type: minio
quiz:
  pro_enabled: true
`)
	cfg, err := load(viper.New(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.Mode != "debug" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Fatalf("expire = %s", cfg.JWT.ExpireTime)
	}
	if !cfg.Quiz.ProEnabled || len(cfg.Quiz.ProTypes) != 3 {
		t.Fatalf("quiz = %+v", cfg.Quiz)
	}
	if cfg.Quiz.SaveTimeout() != 30*time.Second || cfg.Quiz.CacheTTL() != 10*time.Minute {
		t.Fatalf("save timeout %s, cache ttl %s", cfg.Quiz.SaveTimeout(), cfg.Quiz.CacheTTL())
	}
	if cfg.RateLimit.MaxRequests != 300 || cfg.Events.Exchange != "tutorpress.events" {
		t.Fatalf("rate limit %+v, events %+v", cfg.RateLimit, cfg.Events)
	}
}

func TestLoadRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
storage:
  type: minio
`)
	if _, err := load(viper.New(), dir); err == nil {
		t.Fatal("weak secret accepted in release mode")
	}
}

func TestQuizDurationsFallBack(t *testing.T) {
	q := QuizConfig{SaveTimeoutSeconds: 5, CacheTTLMinutes: -1}
	if q.SaveTimeout() != 5*time.Second {
		t.Fatalf("save timeout = %s", q.SaveTimeout())
	}
	if q.CacheTTL() != 10*time.Minute {
		t.Fatalf("cache ttl = %s", q.CacheTTL())
	}
}
