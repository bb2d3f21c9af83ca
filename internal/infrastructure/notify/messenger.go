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

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"go.uber.org/zap"
)

const (
	targetReview = "review_submitted"
	targetClaim  = "claim_submitted"

	defaultTimeout  = 5 * time.Second
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
)

// FailureStore records notifications that could not be delivered.
type FailureStore interface {
	Save(ctx context.Context, target string, payload any, cause error, attempts int) error
}

type Config struct {
	Endpoint     string
	Destination  string
	AdminBaseURL string
	Timeout      time.Duration
	Attempts     int
	Delay        time.Duration
	HTTPClient   *http.Client
	Failures     FailureStore
	Logger       *zap.Logger
}

// Messenger posts moderator alerts to the messenger gateway.
type Messenger struct {
	endpoint     string
	destination  string
	adminBaseURL string
	attempts     int
	delay        time.Duration
	httpClient   *http.Client
	failures     FailureStore
	logger       *zap.Logger
}

func NewMessenger(cfg Config) *Messenger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = defaultAttempts
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = defaultDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messenger{
		endpoint:     strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		destination:  strings.TrimSpace(cfg.Destination),
		adminBaseURL: strings.TrimRight(strings.TrimSpace(cfg.AdminBaseURL), "/"),
		attempts:     attempts,
		delay:        delay,
		httpClient:   client,
		failures:     cfg.Failures,
		logger:       logger,
	}
}

func (m *Messenger) ReviewSubmitted(ctx context.Context, cafe domain.Cafe, review domain.Review) {
	payload := map[string]any{
		"reviewId": review.ID,
		"cafeId":   cafe.ID,
		"cafeName": cafe.Profile.Name,
		"userId":   review.UserID,
		"username": review.Username,
		"rating":   review.ReviewContent.Overall.Int(),
	}
	m.deliver(ctx, targetReview, review.ID, buildReviewMessage(m.adminBaseURL, cafe, review), payload)
}

func (m *Messenger) ClaimSubmitted(ctx context.Context, cafe domain.Cafe, claim domain.ClaimRequest) {
	payload := map[string]any{
		"claimId":       claim.ID,
		"cafeId":        cafe.ID,
		"cafeName":      cafe.Profile.Name,
		"userId":        claim.UserID,
		"businessEmail": claim.Business.BusinessEmail.String(),
	}
	m.deliver(ctx, targetClaim, claim.ID, buildClaimMessage(m.adminBaseURL, cafe, claim), payload)
}

func (m *Messenger) deliver(ctx context.Context, target, identifier, text string, payload map[string]any) {
	if m.endpoint == "" {
		return
	}
	if identifier == "" {
		identifier = "admin"
	}
	err := m.sendWithRetry(ctx, identifier, text)
	if err == nil {
		return
	}
	m.logger.Warn("messenger notification failed",
		zap.String("target", target),
		zap.String("id", identifier),
		zap.Error(err),
	)
	if m.failures == nil {
		return
	}
	payload["text"] = text
	if saveErr := m.failures.Save(ctx, target, payload, err, m.attempts); saveErr != nil {
		m.logger.Error("failed to persist notification failure", zap.String("target", target), zap.Error(saveErr))
	}
}

func buildReviewMessage(adminBaseURL string, cafe domain.Cafe, review domain.Review) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**%s** submitted a review that needs moderation.\n", displayName(review.Username, review.UserID)))
	builder.WriteString(fmt.Sprintf("- Cafe: %s\n", cafe.Profile.Name))
	builder.WriteString(fmt.Sprintf("- Rating: %d / 5\n", review.ReviewContent.Overall.Int()))
	if text := strings.TrimSpace(review.ReviewContent.Text); text != "" {
		builder.WriteString(fmt.Sprintf("- Comment: %s\n", text))
	}
	if review.ID != "" && adminBaseURL != "" {
		builder.WriteString(fmt.Sprintf("[Open in admin](%s/reviews/%s)\n", adminBaseURL, review.ID))
	}
	return builder.String()
}

func buildClaimMessage(adminBaseURL string, cafe domain.Cafe, claim domain.ClaimRequest) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**%s** claims ownership of %s.\n", displayName(claim.Business.OwnerName, claim.UserID), cafe.Profile.Name))
	builder.WriteString(fmt.Sprintf("- Title: %s\n", claim.Business.OwnerTitle))
	builder.WriteString(fmt.Sprintf("- Email: %s\n", claim.Business.BusinessEmail.String()))
	builder.WriteString(fmt.Sprintf("- Phone: %s\n", claim.Business.BusinessPhone))
	if reason := strings.TrimSpace(claim.Business.Reason); reason != "" {
		builder.WriteString(fmt.Sprintf("- Reason: %s\n", reason))
	}
	if claim.ID != "" && adminBaseURL != "" {
		builder.WriteString(fmt.Sprintf("[Open in admin](%s/claims/%s)\n", adminBaseURL, claim.ID))
	}
	return builder.String()
}

func displayName(name, fallback string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return "anonymous"
}

func (m *Messenger) sendWithRetry(ctx context.Context, userID, text string) error {
	var lastErr error
	for i := 0; i < m.attempts; i++ {
		if err := m.send(ctx, userID, text); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if m.delay > 0 && i < m.attempts-1 {
			select {
			case <-ctx.Done():
				return errors.Join(lastErr, ctx.Err())
			case <-time.After(m.delay):
			}
		}
	}
	return lastErr
}

func (m *Messenger) send(ctx context.Context, userID, text string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("userID is required")
	}

	payload := map[string]any{
		"userId": userID,
		"text":   text,
	}
	if m.destination != "" {
		payload["destination"] = m.destination
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode messenger payload: %w", err)
	}

	timeout := m.httpClient.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build messenger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("messenger request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("messenger responded status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}
