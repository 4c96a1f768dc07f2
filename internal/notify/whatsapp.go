package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v19.0"

// WhatsAppSender delivers invites through the WhatsApp Cloud API.
type WhatsAppSender struct {
	Token   string
	PhoneID string
	BaseURL string
	Client  *http.Client
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendInvite posts a text message to the captain's number.
func (s WhatsAppSender) SendInvite(ctx context.Context, inv Invite) error {
	if s.Token == "" || s.PhoneID == "" {
		return errors.New("whatsapp: sender not configured")
	}
	if strings.TrimSpace(inv.Phone) == "" {
		return errors.New("whatsapp: invite has no phone number")
	}

	payload, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               inv.Phone,
		Type:             "text",
		Text:             whatsAppText{Body: inviteBody(inv)},
	})
	if err != nil {
		return fmt.Errorf("whatsapp: encode message: %w", err)
	}

	base := s.BaseURL
	if base == "" {
		base = defaultGraphBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(base, "/")+"/"+s.PhoneID+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var apiErr whatsAppError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("whatsapp: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("whatsapp: status %d", resp.StatusCode)
}

func inviteBody(inv Invite) string {
	return fmt.Sprintf(
		"Payment confirmed for team %q. Your tournament group invite is ready. Registration: %s",
		inv.TeamName, inv.RegistrationID)
}
