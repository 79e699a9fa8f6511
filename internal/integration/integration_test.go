package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/testhelpers"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get redis port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to ping redis: %v", err)
	}
	return client
}

func TestRateLimiterWindow(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	limiter := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     3,
		KeyPrefix: "rate_limit:test",
	})

	for i := 0; i < 3; i++ {
		allowed, remaining, _, err := limiter.IsAllowed(ctx, "user-a")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, reset, err := limiter.IsAllowed(ctx, "user-a")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.True(t, reset.After(time.Now()))

	// Other keys are unaffected
	allowed, _, _, err = limiter.IsAllowed(ctx, "user-b")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAuthTokenRoundTripAgainstDatabase(t *testing.T) {
	db := testhelpers.StartPostgres(t)
	authService := service.NewAuthService(db, "integration-secret")

	user, token, err := authService.Register("roundtrip@example.com", "", "testpassword123", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "roundtrip", user.Username)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// A token signed with another secret is rejected
	otherService := service.NewAuthService(db, "different-secret")
	_, err = otherService.ValidateToken(token)
	assert.Error(t, err)
}
