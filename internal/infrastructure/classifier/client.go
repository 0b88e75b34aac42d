// Package classifier is the HTTP client for the symptom-to-specialty service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"telehealth-directory/internal/domain/gateway"
	"telehealth-directory/internal/infrastructure/upstream"

	"github.com/sirupsen/logrus"
)

type Client struct {
	url      string
	upstream *upstream.Client
	log      *logrus.Logger
}

func NewClient(url string, up *upstream.Client, log *logrus.Logger) *Client {
	return &Client{
		url:      url,
		upstream: up,
		log:      log,
	}
}

var _ gateway.SymptomClassifier = (*Client)(nil)

type classifyRequest struct {
	Symptoms string `json:"symptoms"`
}

type classifyResponse struct {
	DoctorSpecialist json.RawMessage `json:"doctor_specialist"`
}

// Classify posts the symptom text and returns the suggested specialty. A
// response without a usable doctor_specialist string is not an error.
func (c *Client) Classify(ctx context.Context, symptoms string) (string, bool, error) {
	payload, err := json.Marshal(classifyRequest{Symptoms: symptoms})
	if err != nil {
		return "", false, fmt.Errorf("encode request: %w", err)
	}

	body, err := c.upstream.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return "", false, err
	}

	specialty, found, err := Decode(body)
	if err != nil {
		c.log.Warnf("Failed to decode classifier response: %+v", err)
		return "", false, err
	}
	return specialty, found, nil
}

// Decode extracts doctor_specialist from a classifier response body.
func Decode(body []byte) (string, bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false, fmt.Errorf("%w: expected object", upstream.ErrMalformedResponse)
	}

	var resp classifyResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return "", false, fmt.Errorf("%w: %v", upstream.ErrMalformedResponse, err)
	}

	var specialist string
	if len(resp.DoctorSpecialist) == 0 || json.Unmarshal(resp.DoctorSpecialist, &specialist) != nil {
		return "", false, nil
	}
	specialist = strings.TrimSpace(specialist)
	if specialist == "" {
		return "", false, nil
	}
	return specialist, true, nil
}
