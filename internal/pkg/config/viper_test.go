package config

import (
	"testing"
	"time"
)

const testYAML = `
database:
  pool:
    max_conns: 20
app:
  name: portal
  debug: true
jwt:
  ttl_minutes: 15
`

func TestViperTypedGetters(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetString("app.name"); got != "portal" {
		t.Errorf("GetString = %q", got)
	}
	if !cfg.GetBool("app.debug") {
		t.Error("GetBool = false")
	}
	if got := cfg.GetInt32("database.pool.max_conns"); got != 20 {
		t.Errorf("GetInt32 = %d", got)
	}
	if got := cfg.GetInt64("database.pool.max_conns"); got != 20 {
		t.Errorf("GetInt64 = %d", got)
	}
	if got := cfg.GetMinute("jwt.ttl_minutes"); got != 15*time.Minute {
		t.Errorf("GetMinute = %v", got)
	}
}

func TestViperMissingKeyIsZero(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetInt32("database.pool.min_conns"); got != 0 {
		t.Errorf("GetInt32 on missing key = %d", got)
	}
}
