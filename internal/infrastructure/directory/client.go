// Package directory is the HTTP client for the remote doctor directory, a
// realtime database exposing doctors as a JSON object keyed by doctor id.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/domain/repository"
	"telehealth-directory/internal/infrastructure/upstream"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const fetchKey = "directory"

type Client struct {
	url      string
	upstream *upstream.Client
	log      *logrus.Logger
	group    singleflight.Group
}

func NewClient(url string, up *upstream.Client, log *logrus.Logger) *Client {
	return &Client{
		url:      url,
		upstream: up,
		log:      log,
	}
}

var _ repository.DoctorDirectoryRepository = (*Client)(nil)

// FetchAll returns every directory record in document order. Concurrent
// callers share one outbound request; each caller still honours its own ctx.
func (c *Client) FetchAll(ctx context.Context) ([]entity.Doctor, error) {
	ch := c.group.DoChan(fetchKey, func() (interface{}, error) {
		// Detached so one caller giving up does not fail the others
		return c.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.([]entity.Doctor)
		out := make([]entity.Doctor, len(shared))
		copy(out, shared)
		return out, nil
	}
}

func (c *Client) fetch(ctx context.Context) ([]entity.Doctor, error) {
	body, err := c.upstream.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	doctors, err := Decode(body)
	if err != nil {
		c.log.Warnf("Failed to decode doctor directory: %+v", err)
		return nil, err
	}
	return doctors, nil
}

// rawDoctor mirrors one directory record. Every field is optional and may
// carry an unexpected JSON type.
type rawDoctor struct {
	Name           json.RawMessage `json:"name"`
	Specialization json.RawMessage `json:"specialization"`
	Specialty      json.RawMessage `json:"specialty"`
	Photo          json.RawMessage `json:"photo"`
	ApprovedAt     json.RawMessage `json:"approvedAt"`
}

func (r rawDoctor) toEntity(id string) entity.Doctor {
	return entity.Doctor{
		ID:         id,
		Name:       optionalString(r.Name),
		Specialty:  entity.ResolveSpecialty(optionalString(r.Specialization), optionalString(r.Specialty)),
		PhotoURL:   optionalString(r.Photo),
		ApprovedAt: entity.ApprovalStamp(r.ApprovedAt),
	}
}

// Decode parses a directory document. A JSON null is an empty directory;
// any other top-level shape than an object is malformed. Records that are
// not objects are skipped.
func Decode(body []byte) ([]entity.Doctor, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", upstream.ErrMalformedResponse)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return []entity.Doctor{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrMalformedResponse, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected object, got %v", upstream.ErrMalformedResponse, tok)
	}

	doctors := make([]entity.Doctor, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", upstream.ErrMalformedResponse, err)
		}
		id, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", upstream.ErrMalformedResponse, id, err)
		}

		if v := bytes.TrimSpace(value); len(v) == 0 || v[0] != '{' {
			continue
		}
		var raw rawDoctor
		if err := json.Unmarshal(value, &raw); err != nil {
			continue
		}
		doctors = append(doctors, raw.toEntity(id))
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrMalformedResponse, err)
	}
	return doctors, nil
}

func optionalString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
