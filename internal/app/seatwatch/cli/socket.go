package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/endeavored/seatwatch/internal/pkg/extractor"
	"github.com/endeavored/seatwatch/internal/pkg/models"
	"github.com/endeavored/seatwatch/internal/pkg/store"
	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const connectionsOpenEndpoint = "https://slack.com/api/apps.connections.open"

type watchControl interface {
	verdictSource
	SetThreshold(threshold int) error
	Options() extractor.Options
	CourseURL() string
}

type commandHandler struct {
	job   watchControl
	store store.SettingsStore
}

// handle runs a slash command and returns the reply text.
func (h *commandHandler) handle(ctx context.Context, payload models.SlackSocketPayload) string {
	switch payload.Command {
	case "/seat-threshold":
		threshold, err := strconv.Atoi(strings.TrimSpace(payload.Text))
		if err != nil || threshold < 0 {
			return "Threshold must be a non-negative number"
		}
		if err := h.job.SetThreshold(threshold); err != nil {
			return "Could not set threshold: " + err.Error()
		}
		zap.L().Info("threshold updated", zap.Int("threshold", threshold), zap.String("user", payload.UserName))
		if h.store != nil {
			opts := h.job.Options()
			err := h.store.Save(ctx, store.Settings{
				CourseURL: h.job.CourseURL(),
				Label:     opts.Label,
				Threshold: &threshold,
			})
			if err != nil {
				zap.L().Error("failed to persist threshold", zap.Error(err))
				return fmt.Sprintf("Alert threshold set to %d seats (not saved)", threshold)
			}
		}
		return fmt.Sprintf("Alert threshold set to %d seats", threshold)
	case "/seat-status":
		verdict, ok := h.job.LastVerdict()
		if !ok {
			return "No successful check yet"
		}
		return fmt.Sprintf("%s Alert threshold is %d.", verdict.Message, verdict.Threshold)
	default:
		return "Unknown command " + payload.Command
	}
}

// runSocket keeps a socket mode connection open until ctx is done.
func runSocket(ctx context.Context, h *commandHandler, token string) {
	for ctx.Err() == nil {
		socketUrl, err := getSocketUrl(token)
		if err != nil {
			zap.L().Error("failed to open slack socket", zap.Error(err))
			sleepCtx(ctx, 10*time.Second)
			continue
		}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, socketUrl, nil)
		if err != nil {
			zap.L().Error("failed to dial slack socket", zap.Error(err))
			sleepCtx(ctx, 10*time.Second)
			continue
		}
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		receiveHandler(ctx, h, conn)
		stop()
		conn.Close()
		zap.L().Info("socket closed, reconnecting")
		sleepCtx(ctx, 5*time.Second)
	}
}

func receiveHandler(ctx context.Context, h *commandHandler, connection *websocket.Conn) {
	for {
		_, msg, err := connection.ReadMessage()
		if err != nil {
			zap.L().Warn("error in receive", zap.Error(err))
			return
		}
		var receivedData models.SlackSocketData
		if err := json.Unmarshal(msg, &receivedData); err != nil {
			continue
		}
		if receivedData.Payload.Command == "" {
			continue
		}
		var sendData models.SlackSocketData
		sendData.EnvelopeId = receivedData.EnvelopeId
		sendData.Payload.Text = h.handle(ctx, receivedData.Payload)
		if err := connection.WriteJSON(sendData); err != nil {
			zap.L().Warn("error acking command", zap.Error(err))
			return
		}
	}
}

func getSocketUrl(token string) (string, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(connectionsOpenEndpoint)
	req.Header.SetMethod("POST")
	req.Header.Set("Authorization", "Bearer "+token)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	if err := fasthttp.DoTimeout(req, resp, 30*time.Second); err != nil {
		return "", err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("status code: %d", resp.StatusCode())
	}
	var result models.SlackConnectionsOpen
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", err
	}
	if !result.Ok || result.Url == "" {
		return "", errors.New("apps.connections.open failed: " + result.Error)
	}
	return result.Url, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
