package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func newHealthApp(rdb *redis.Client) *fiber.App {
	h := NewHealthHandler(rdb)
	app := fiber.New()
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
	return app
}

func redisStatus(body map[string]any) any {
	checks := body["checks"].(map[string]any)
	return checks["redis"].(map[string]any)["status"]
}

func TestLive(t *testing.T) {
	status, body := getJSON(t, newHealthApp(nil), "/health/live")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestReady_RedisDisabled(t *testing.T) {
	status, body := getJSON(t, newHealthApp(nil), "/health/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", redisStatus(body))
	assert.Equal(t, Version, body["version"])
}

func TestReady_RedisUp(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	status, body := getJSON(t, newHealthApp(rdb), "/health/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "up", redisStatus(body))
}

func TestReady_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	status, body := getJSON(t, newHealthApp(rdb), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "down", redisStatus(body))
}
