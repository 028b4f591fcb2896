package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crypto-summary-bot/config"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	apiURL     string
	httpClient = &http.Client{Timeout: 60 * time.Second}

	// One summary request every few seconds is plenty for a chat bot.
	limiter = rate.NewLimiter(rate.Every(3*time.Second), 1)
)

// SetAPIURL overrides the chat-completions endpoint (config override and tests).
func SetAPIURL(u string) {
	apiURL = u
}

const analystPrompt = "You are a crypto market analyst. In 120 words or fewer, write a concise, " +
	"engaging market recap for retail traders. Highlight notable moves, " +
	"overall sentiment, and any coin with >5%% price change.\n\nMarket data:\n%s"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate asks the language model for a short market recap built from the
// given market snapshot.
func Generate(snapshot string) (string, error) {
	endpoint := apiURL
	if endpoint == "" {
		endpoint = config.GetString("openai_api_url")
	}
	model := config.GetString("gpt_model")

	if err := limiter.Wait(context.Background()); err != nil {
		return "", errors.Wrap(err, "rate limiter interrupted")
	}

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(analystPrompt, snapshot)},
		},
		Temperature: 0.7,
		MaxTokens:   180,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "could not marshal request")
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.GetString("openai_api_key"))

	log.Debugf("requesting market summary from %s (model %s)", endpoint, model)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "summary request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("summary API returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "could not parse summary response")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("summary response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
