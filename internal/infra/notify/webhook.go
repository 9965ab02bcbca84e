package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/model"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/infra/httpclient"
)

// WebhookNotifier posts an action summary to the platform notification
// endpoint whenever a moderator action targets a user.
type WebhookNotifier struct {
	client *http.Client
	url    string
	logger *zap.Logger
}

type actionNotification struct {
	UserID     string     `json:"userId"`
	ActionID   string     `json:"actionId"`
	ActionType string     `json:"actionType"`
	Severity   string     `json:"severity"`
	Reason     string     `json:"reason"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookNotifier{
		client: httpclient.New(timeout),
		url:    url,
		logger: logger,
	}
}

func (n *WebhookNotifier) NotifyActionTaken(ctx context.Context, action model.ModeratorAction) error {
	if n.url == "" {
		return fmt.Errorf("notification webhook url is empty")
	}
	if action.TargetUserID == nil {
		return nil
	}

	payload, err := json.Marshal(actionNotification{
		UserID:     *action.TargetUserID,
		ActionID:   action.ActionID,
		ActionType: string(action.ActionType),
		Severity:   string(action.Severity),
		Reason:     action.Reason,
		ExpiresAt:  action.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal action notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send action notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification webhook returned %d", resp.StatusCode)
	}

	n.logger.Debug("action notification delivered",
		zap.String("action_id", action.ActionID),
	)
	return nil
}
