package models

// Block Kit subset used for seat alerts.
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type SlackBlock struct {
	Type   string       `json:"type"`
	Text   *SlackText   `json:"text,omitempty"`
	Fields *[]SlackText `json:"fields,omitempty"`
}

type SlackWebhookData struct {
	Text   string       `json:"text,omitempty"`
	Blocks []SlackBlock `json:"blocks"`
}

// Socket mode envelope. Slash command payloads arrive in Payload, and replies
// reuse the same envelope with only EnvelopeId and Payload.Text set.
type SlackSocketData struct {
	EnvelopeId             string             `json:"envelope_id"`
	Payload                SlackSocketPayload `json:"payload"`
	Type                   string             `json:"type,omitempty"`
	AcceptsResponsePayload bool               `json:"accepts_response_payload,omitempty"`
}

type SlackSocketPayload struct {
	ChannelId string `json:"channel_id,omitempty"`
	UserId    string `json:"user_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Command   string `json:"command,omitempty"`
	Text      string `json:"text"`
}

type SlackConnectionsOpen struct {
	Ok    bool   `json:"ok"`
	Url   string `json:"url"`
	Error string `json:"error"`
}
