package heroku

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const heartbeatInterval = 15 * time.Minute

// StartHeartbeat pings url until ctx is done so a free dyno serving the status
// page does not idle out.
func StartHeartbeat(ctx context.Context, url string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(5 * time.Second):
	}
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		if err := makeHeartbeat(url); err != nil {
			zap.L().Warn("heartbeat failed", zap.String("url", url), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func makeHeartbeat(url string) error {
	statusCode, bod, err := fasthttp.GetTimeout(nil, url, 30*time.Second)
	if err != nil {
		return err
	}
	if statusCode != fasthttp.StatusOK {
		return fmt.Errorf("heartbeat received status %d", statusCode)
	}
	zap.L().Debug("heartbeat ok", zap.ByteString("body", bod))
	return nil
}
