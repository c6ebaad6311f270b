package checkoutrepo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/InkaFilipinka/scooter-website-sub000/util/httpx"
)

type httpRepo struct {
	apiKey        string
	webhookSecret string
	baseURL       string
	client        *http.Client
}

func NewHTTP(apiKey, webhookSecret, baseURL string) Repo {
	return &httpRepo{apiKey: apiKey, webhookSecret: webhookSecret, baseURL: baseURL, client: httpx.Client()}
}

func (r *httpRepo) CreateSession(ctx context.Context, req CreateSessionReq) (*Session, error) {
	body := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"reference_number": req.BookingID,
				"description":      req.Description,
				"success_url":      req.SuccessURL,
				"cancel_url":       req.CancelURL,
				"line_items": []map[string]any{{
					"name":     req.Description,
					"amount":   req.Amount * 100, // provider wants centavos
					"currency": "PHP",
					"quantity": 1,
				}},
				"payment_method_types": []string{"card"},
				"billing":              map[string]any{"email": req.PayerEmail},
			},
		},
	}
	b, _ := json.Marshal(body)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/checkout_sessions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout: create session failed: %s", resp.Status)
	}

	var out sessionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	s := out.session()
	if s.SessionID == "" {
		return nil, errors.New("checkout: empty session id")
	}
	return s, nil
}

func (r *httpRepo) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/checkout_sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("checkout: session %s not found", sessionID)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout: get session failed: %s", resp.Status)
	}

	var out sessionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

// VerifyWebhookSignature checks the provider's HMAC-SHA256 hex signature
// over the raw body.
func (r *httpRepo) VerifyWebhookSignature(sigHeader string, rawBody []byte) error {
	if r.webhookSecret == "" {
		return errors.New("checkout: webhook secret not configured")
	}
	if sigHeader == "" {
		return errors.New("checkout: missing signature header")
	}
	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write(rawBody)
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(sigHeader)) {
		return errors.New("checkout: bad webhook signature")
	}
	return nil
}

type sessionEnvelope struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			ReferenceNumber string `json:"reference_number"`
			CheckoutURL     string `json:"checkout_url"`
			Status          string `json:"status"`
			Payments        []struct {
				Attributes struct {
					Amount int64  `json:"amount"`
					Status string `json:"status"`
				} `json:"attributes"`
			} `json:"payments"`
		} `json:"attributes"`
	} `json:"data"`
}

func (e sessionEnvelope) session() *Session {
	s := &Session{
		SessionID:   e.Data.ID,
		CheckoutURL: e.Data.Attributes.CheckoutURL,
		Status:      e.Data.Attributes.Status,
		BookingID:   e.Data.Attributes.ReferenceNumber,
	}
	for _, p := range e.Data.Attributes.Payments {
		if p.Attributes.Status == "paid" {
			s.AmountPaid += p.Attributes.Amount / 100 // centavos → PHP
		}
	}
	return s
}
