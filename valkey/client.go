package valkeystore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"funnel-coach-api/utils"

	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/valkeycompat"
	"go.uber.org/zap"
)

var Client valkeycompat.Cmdable
var RawClient valkey.Client

// InitValkey connects to a single node, or through sentinels when
// VALKEY_USE_SENTINEL is true.
func InitValkey(logger *zap.Logger) error {
	host := utils.MustGetEnv("VALKEY_HOST")
	port := utils.GetEnvOrDefault("VALKEY_PORT", "6379")

	opt := valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", host, port)},
		Password:    os.Getenv("VALKEY_PASSWORD"),
	}

	if utils.GetEnvBool("VALKEY_USE_SENTINEL") {
		sentinels := splitAddresses(os.Getenv("VALKEY_SENTINEL_ADDRESS"))
		if len(sentinels) == 0 {
			return fmt.Errorf("VALKEY_USE_SENTINEL is true but VALKEY_SENTINEL_ADDRESS is not set")
		}
		opt.InitAddress = sentinels
		opt.Sentinel = valkey.SentinelOption{
			MasterSet: utils.GetEnvOrDefault("VALKEY_SENTINEL_MASTER_NAME", "mymaster"),
		}
		logger.Info("Initializing message bus with sentinel configuration")
	} else {
		logger.Info("Initializing message bus")
	}

	vk, err := valkey.NewClient(opt)
	if err != nil {
		return fmt.Errorf("failed to connect to valkey: %w", err)
	}

	RawClient = vk
	Client = valkeycompat.NewAdapter(vk)
	logger.Info("Message bus initialized successfully")
	return nil
}

// Ping checks the connection used by the health endpoint
func Ping(ctx context.Context) error {
	if Client == nil {
		return fmt.Errorf("valkey client is nil; call InitValkey first")
	}
	return Client.Ping(ctx).Err()
}

// Close releases the connection
func Close() {
	if RawClient != nil {
		RawClient.Close()
	}
}

func splitAddresses(csv string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(csv, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
