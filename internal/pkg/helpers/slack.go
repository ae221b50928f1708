package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/endeavored/seatwatch/internal/pkg/models"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var ErrSlackRejected = errors.New("slack rejected message")

type SlackNotifier struct {
	Webhooks []string
	Timeout  time.Duration
	// post is swapped in tests
	post func(uri string, body []byte, timeout time.Duration) error
}

func NewSlackNotifier(webhooks []string) *SlackNotifier {
	return &SlackNotifier{
		Webhooks: webhooks,
		Timeout:  10 * time.Second,
		post:     postRequest,
	}
}

// Notify posts the verdict to every webhook and returns the joined errors of
// the ones that failed.
func (sn *SlackNotifier) Notify(verdict models.Verdict, courseURL string) error {
	if len(sn.Webhooks) == 0 {
		zap.L().Debug("no slack webhooks configured, skipping notification")
		return nil
	}
	postData, err := json.Marshal(BuildWebhookData(verdict, courseURL))
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}
	var errs []error
	for _, webhook := range sn.Webhooks {
		if err := sn.post(webhook, postData, sn.Timeout); err != nil {
			zap.L().Error("error sending to slack", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func BuildWebhookData(verdict models.Verdict, courseURL string) *models.SlackWebhookData {
	msg := verdict.Message
	if verdict.IsAvailable {
		msg = fmt.Sprintf("%s has opened up: %d seats", verdict.Label, verdict.OpenSeats)
	}
	var blocks []models.SlackBlock = make([]models.SlackBlock, 0, 3)
	blocks = append(blocks, models.SlackBlock{
		Type: "header",
		Text: &models.SlackText{
			Type: "plain_text",
			Text: msg,
		},
	})
	blocks = append(blocks, models.SlackBlock{
		Type: "section",
		Text: &models.SlackText{
			Type: "mrkdwn",
			Text: fmt.Sprintf("<%s|%s>", courseURL, verdict.Label),
		},
	})
	fields := []models.SlackText{
		{
			Type: "mrkdwn",
			Text: "*Open Seats*\n" + fmt.Sprint(verdict.OpenSeats),
		},
		{
			Type: "mrkdwn",
			Text: "*Alert Threshold*\n" + fmt.Sprint(verdict.Threshold),
		},
	}
	blocks = append(blocks, models.SlackBlock{
		Type:   "section",
		Fields: &fields,
	})
	return &models.SlackWebhookData{
		Text:   msg,
		Blocks: blocks,
	}
}

func postRequest(uri string, body []byte, timeout time.Duration) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetBody(body)
	req.Header.SetMethod("POST")
	req.Header.SetContentType("application/json")
	req.SetRequestURI(uri)

	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)
	if err := fasthttp.DoTimeout(req, res, timeout); err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	if res.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrSlackRejected, res.StatusCode(), res.Body())
	}
	return nil
}
