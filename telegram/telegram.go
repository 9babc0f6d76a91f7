// Package telegram delivers briefing reports and error alerts to a Telegram
// chat through the Bot API.
//
// Delivery is single-attempt and fire-and-forget: a failed send is reported
// (or, for alerts, merely logged) and never retried.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

const defaultBaseURL = "https://api.telegram.org"

// Bot posts messages to a single chat.
type Bot struct {
	http   *http.Client
	base   string
	token  string
	ChatID string
}

// New returns a Bot for the given credential and destination chat. The
// http.Client should carry a request timeout.
func New(client *http.Client, token, chatID string) *Bot {
	return &Bot{http: client, base: defaultBaseURL, token: token, ChatID: chatID}
}

// Send posts the text to the chat. Markdown structure in the text is
// flattened to plain text first, since the message is sent without a parse
// mode. A non-2xx response is returned as an error; the caller decides
// whether that matters. Single attempt, no retry.
func (b *Bot) Send(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id": b.ChatID,
		"text":    Flatten(text),
	}
	return b.post(ctx, "sendMessage", payload, nil)
}

// Alert posts a short error notice to the chat, best effort: a failed alert
// is logged and swallowed, there is nobody left to escalate to.
func (b *Bot) Alert(ctx context.Context, text string) {
	payload := map[string]string{
		"chat_id": b.ChatID,
		"text":    "⚠️ " + text,
	}
	if err := b.post(ctx, "sendMessage", payload, nil); err != nil {
		log.Printf("telegram: failed to send alert: %v", err)
	}
}

// DiscoverChatID fetches the bot's pending updates and returns the chat id
// of the latest one. It requires the user to have messaged the bot at least
// once.
func (b *Bot) DiscoverChatID(ctx context.Context) (string, error) {
	var updates struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      []struct {
			Message      *chatHolder `json:"message"`
			MyChatMember *chatHolder `json:"my_chat_member"`
		} `json:"result"`
	}
	if err := b.get(ctx, "getUpdates", &updates); err != nil {
		return "", err
	}
	if !updates.OK {
		return "", fmt.Errorf("telegram getUpdates: %s", updates.Description)
	}
	if len(updates.Result) == 0 {
		return "", fmt.Errorf("no updates found, send a message to the bot first")
	}

	last := updates.Result[len(updates.Result)-1]
	switch {
	case last.Message != nil:
		return fmt.Sprintf("%d", last.Message.Chat.ID), nil
	case last.MyChatMember != nil:
		return fmt.Sprintf("%d", last.MyChatMember.Chat.ID), nil
	}
	return "", fmt.Errorf("could not determine chat id from the last update")
}

type chatHolder struct {
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// post sends a JSON payload to a Bot API method and optionally unmarshals
// the response.
func (b *Bot) post(ctx context.Context, method string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s/bot%s/%s", b.base, b.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req, method, result)
}

// get calls a Bot API method without a payload.
func (b *Bot) get(ctx context.Context, method string, result any) error {
	addr := fmt.Sprintf("%s/bot%s/%s", b.base, b.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	return b.do(req, method, result)
}

func (b *Bot) do(req *http.Request, method string, result any) error {
	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// The URL embeds the bot credential, log the method instead.
	log.Printf("%v telegram/%v %v", req.Method, method, resp.Status)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram %s: %v: %s", method, resp.Status, body)
	}
	if result != nil {
		return json.Unmarshal(body, result)
	}
	return nil
}
