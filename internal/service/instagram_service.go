package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
)

// Publisher wraps the Instagram Graph API two-step publish flow:
// create a media container from an image URL and caption, then publish
// the container. A single attempt, no retry.
type Publisher interface {
	Publish(ctx context.Context, creds *models.Credentials, mediaURL, caption string) (string, error)
}

// PublishError reports which step of the flow failed and why.
type PublishError struct {
	Step string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("instagram %s: %v", e.Step, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

type instagramPublisher struct {
	baseURL string
	client  *http.Client
}

func NewInstagramPublisher(cfg config.Config) Publisher {
	return &instagramPublisher{
		baseURL: cfg.GraphAPIBase,
		client:  &http.Client{Timeout: cfg.PublishTimeout},
	}
}

func (p *instagramPublisher) Publish(ctx context.Context, creds *models.Credentials, mediaURL, caption string) (string, error) {
	containerID, err := p.createMediaContainer(ctx, creds, mediaURL, caption)
	if err != nil {
		return "", &PublishError{Step: "create media container", Err: err}
	}

	externalID, err := p.publishContainer(ctx, creds, containerID)
	if err != nil {
		return "", &PublishError{Step: "publish media", Err: err}
	}

	return externalID, nil
}

func (p *instagramPublisher) createMediaContainer(ctx context.Context, creds *models.Credentials, mediaURL, caption string) (string, error) {
	url := fmt.Sprintf("%s/%s/media", p.baseURL, creds.UserID)
	payload := map[string]interface{}{
		"image_url":    mediaURL,
		"caption":      caption,
		"access_token": creds.AccessToken,
	}

	return p.postForID(ctx, url, payload)
}

func (p *instagramPublisher) publishContainer(ctx context.Context, creds *models.Credentials, containerID string) (string, error) {
	url := fmt.Sprintf("%s/%s/media_publish", p.baseURL, creds.UserID)
	payload := map[string]interface{}{
		"creation_id":  containerID,
		"access_token": creds.AccessToken,
	}

	return p.postForID(ctx, url, payload)
}

func (p *instagramPublisher) postForID(ctx context.Context, url string, payload map[string]interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from Instagram: %d: %s", resp.StatusCode, respBody)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	if result.ID == "" {
		return "", fmt.Errorf("no media ID returned from Instagram")
	}

	return result.ID, nil
}
