package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	raw := `
http:
  address: ":8080"
database:
  host: localhost
  port: 5432
  user: flyticket
  password: secret
  name: flyticket
  ssl_mode: disable
kafka:
  brokers: ["localhost:9092"]
  ticket_events_topic: ticket_events
  notifications_topic: notifications
  group_id: flyticket-worker
auth:
  secret: test-secret
  token_ttl_hours: 24
worker:
  completion_sweep_minutes: 10
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := LoadConfig(path)

	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "host=localhost port=5432 user=flyticket password=secret dbname=flyticket sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Minute, cfg.Worker.SweepInterval())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestWorkerConfig_SweepInterval_DefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, 5*time.Minute, WorkerConfig{}.SweepInterval())
	assert.Equal(t, 5*time.Minute, WorkerConfig{CompletionSweepMinutes: -1}.SweepInterval())
	assert.Equal(t, time.Minute, WorkerConfig{CompletionSweepMinutes: 1}.SweepInterval())
}
