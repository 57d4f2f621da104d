package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMSService sends voting codes through the Twilio Messages API.
type SMSService struct {
	AccountSID string
	AuthToken  string
	From       string
	APIBase    string
	Client     *http.Client
}

// TwilioResponse represents the response from the Twilio Messages API
type TwilioResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// NewSMSService creates a new SMS service instance. It returns nil when the
// Twilio credentials are not configured; callers treat a nil service as
// "log the code instead of sending it".
func NewSMSService(accountSID, authToken, from string) *SMSService {
	if accountSID == "" || authToken == "" || from == "" {
		return nil
	}
	return &SMSService{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		APIBase:    "https://api.twilio.com/2010-04-01",
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendOTP delivers the plaintext code to the phone number as submitted by
// the participant. Each dispatch gets a reference id so operators can
// correlate gateway logs with request logs.
func (s *SMSService) SendOTP(phone, otp string) error {
	// Twilio wants E.164; participants often type the number without +
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	ref := uuid.New().String()

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.From)
	form.Set("Body", fmt.Sprintf("Codul tău de vot este: %s", otp))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.APIBase, s.AccountSID)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.SetBasicAuth(s.AccountSID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Printf("[SMS] dispatch %s to %s", ref, phone)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read SMS response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("SMS API returned status %d: %s", resp.StatusCode, string(body))
	}

	var twResp TwilioResponse
	if err := json.Unmarshal(body, &twResp); err != nil {
		// Twilio answers JSON; anything else on a 2xx still counts as sent
		log.Printf("[SMS] dispatch %s accepted (non-JSON response)", ref)
		return nil
	}
	if twResp.ErrorCode != nil {
		return fmt.Errorf("SMS sending failed: %s", twResp.ErrorMessage)
	}

	log.Printf("[SMS] dispatch %s accepted, message sid %s", ref, twResp.SID)
	return nil
}
