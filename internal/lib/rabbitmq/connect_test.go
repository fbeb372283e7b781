package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gadgetproof/receipt-engine/internal/models"
)

func SetupRabbitMQContainer(ctx context.Context, t *testing.T) (testcontainers.Container, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp", "15672/tcp"},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER":   "guest",
			"RABBITMQ_DEFAULT_PASS":   "guest",
			"RABBITMQ_DEFAULT_VHOST":  "/",
			"RABBITMQ_LOOPBACK_USERS": "",
		},
		WaitingFor: wait.ForListeningPort("5672/tcp").
			WithStartupTimeout(2 * time.Minute),
	}

	rmqContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	cleanup := func() {
		err := rmqContainer.Terminate(ctx)
		if err != nil {
			t.Logf("failed to terminate rabbitmq container: %v", err)
		}
	}

	return rmqContainer, cleanup
}

func GetAmqpURI(ctx context.Context, container testcontainers.Container) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := container.MappedPort(ctx, nat.Port("5672/tcp"))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), nil
}

func amqpURIForTest(ctx context.Context, t *testing.T) (string, func()) {
	if testRabbitMQURL := os.Getenv("TEST_RABBITMQ_URL"); testRabbitMQURL != "" {
		t.Logf("Using external RabbitMQ service: %s", testRabbitMQURL)
		return testRabbitMQURL, func() {}
	}
	t.Log("Using testcontainers for RabbitMQ")
	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	uri, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)
	return uri, cleanup
}

func TestConnectAndSetupChannel(t *testing.T) {
	if os.Getenv("SKIP_RABBITMQ_TESTS") != "" {
		t.Skip("Skipping RabbitMQ tests")
	}

	ctx := context.Background()
	amqpURI, cleanup := amqpURIForTest(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	// Declaring the topology again must be a no-op.
	_, err = SetupChannel(conn, GetNotificationQueues())
	assert.NoError(t, err)
}

func TestPublishAndConsume(t *testing.T) {
	if os.Getenv("SKIP_RABBITMQ_TESTS") != "" {
		t.Skip("Skipping RabbitMQ tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	amqpURI, cleanup := amqpURIForTest(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	sent := models.ExpiryInfo{
		Email:     "alice@market.example",
		Merchant:  "alice-market",
		Tier:      models.TierPremium,
		ExpiresAt: time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, PublishMessage(ch, ExchangeName, RoutingKeyExpiry, sent))

	received := make(chan models.ExpiryInfo, 1)
	err = ConsumerMessage(ctx, ch, "notification.expiry", func(body []byte) error {
		var info models.ExpiryInfo
		if err := json.Unmarshal(body, &info); err != nil {
			return err
		}
		received <- info
		return nil
	})
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, sent.Merchant, got.Merchant)
		assert.Equal(t, sent.Email, got.Email)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}
