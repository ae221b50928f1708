package helpers

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/endeavored/seatwatch/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSectionLabel(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{
			name:     "heading",
			markup:   "<html><head><title>Ignored | Class Schedule</title></head><body><h1>\n  COMPSCI 185\n LEC 001 </h1><h1>second</h1></body></html>",
			expected: "COMPSCI 185 LEC 001",
		},
		{
			name:     "title fallback",
			markup:   "<html><head><title>2026 Spring COMPSCI 185 001 LEC 001 | Class Schedule</title></head><body></body></html>",
			expected: "2026 Spring COMPSCI 185 001 LEC 001",
		},
		{
			name:     "nothing to read",
			markup:   "<html><body><p>hi</p></body></html>",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, err := GetSectionLabel(tc.markup)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, label)
		})
	}
}

func TestBuildWebhookData(t *testing.T) {
	verdict := models.Verdict{Label: "CS185 Lecture", OpenSeats: 40, Threshold: 30, IsAvailable: true, Message: "CS185 Lecture has 40 open seats."}
	data := BuildWebhookData(verdict, "https://classes.berkeley.edu/content/x")

	assert.Equal(t, "CS185 Lecture has opened up: 40 seats", data.Text)
	require.Len(t, data.Blocks, 3)
	assert.Equal(t, "header", data.Blocks[0].Type)
	assert.Equal(t, "<https://classes.berkeley.edu/content/x|CS185 Lecture>", data.Blocks[1].Text.Text)
	require.NotNil(t, data.Blocks[2].Fields)
	assert.Equal(t, "*Open Seats*\n40", (*data.Blocks[2].Fields)[0].Text)
	assert.Equal(t, "*Alert Threshold*\n30", (*data.Blocks[2].Fields)[1].Text)

	verdict.IsAvailable = false
	assert.Equal(t, verdict.Message, BuildWebhookData(verdict, "u").Text)
}

func TestSlackNotifier_Notify(t *testing.T) {
	var posted []string
	sn := NewSlackNotifier([]string{"https://hooks.slack.test/a", "https://hooks.slack.test/b"})
	sn.post = func(uri string, body []byte, timeout time.Duration) error {
		posted = append(posted, uri)
		var data models.SlackWebhookData
		require.NoError(t, json.Unmarshal(body, &data))
		assert.NotEmpty(t, data.Blocks)
		if uri == "https://hooks.slack.test/b" {
			return errors.New("boom")
		}
		return nil
	}

	err := sn.Notify(models.Verdict{Label: "x", OpenSeats: 1, IsAvailable: true}, "u")
	assert.Error(t, err)
	assert.Equal(t, []string{"https://hooks.slack.test/a", "https://hooks.slack.test/b"}, posted)

	assert.NoError(t, NewSlackNotifier(nil).Notify(models.Verdict{}, "u"))
}
