package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func intPtr(n int) *int { return &n }

func TestSettings_Apply(t *testing.T) {
	tests := []struct {
		name      string
		settings  Settings
		url       string
		label     string
		threshold int
	}{
		{
			name:      "empty settings keep config",
			settings:  Settings{},
			url:       "https://config",
			label:     "Config",
			threshold: 30,
		},
		{
			name:      "stored values win",
			settings:  Settings{CourseURL: "https://stored", Label: "Stored", Threshold: intPtr(5)},
			url:       "https://stored",
			label:     "Stored",
			threshold: 5,
		},
		{
			name:      "stored zero threshold is honored",
			settings:  Settings{Threshold: intPtr(0)},
			url:       "https://config",
			label:     "Config",
			threshold: 0,
		},
		{
			name:      "negative stored threshold is ignored",
			settings:  Settings{Threshold: intPtr(-3)},
			url:       "https://config",
			label:     "Config",
			threshold: 30,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			url, label, threshold := tc.settings.Apply("https://config", "Config", 30)
			assert.Equal(t, tc.url, url)
			assert.Equal(t, tc.label, label)
			assert.Equal(t, tc.threshold, threshold)
		})
	}
}

func TestSettings_BSON(t *testing.T) {
	raw, err := bson.Marshal(Settings{Id: settingsID, CourseURL: "https://x", Threshold: intPtr(7)})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "watch", doc["_id"])
	assert.Equal(t, "https://x", doc["courseUrl"])
	assert.EqualValues(t, 7, doc["threshold"])
}
