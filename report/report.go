//Package report sends the outcome of a simulation back to the operator
//that launched it.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
)

//DefaultAddress is used when FOLDY_OPERATOR is not set.
const DefaultAddress = "foldy-operator:8090"

//ErrorReport is the body of a POST /error.
type ErrorReport struct {
	Msg           string `json:"msg"`
	CorrelationID string `json:"correlation_id"`
}

//Client talks to one operator.
type Client struct {
	Address string //host:port or URL
	HTTP    *http.Client
}

//NewClient returns a client for address, or for the address in the
//FOLDY_OPERATOR environment variable if address is empty.
func NewClient(address string) *Client {
	if address == "" {
		address = os.Getenv("FOLDY_OPERATOR")
	}
	if address == "" {
		address = DefaultAddress
	}
	return &Client{Address: address, HTTP: http.DefaultClient}
}

func (C *Client) url(path string, query url.Values) string {
	base := C.Address
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	u := strings.TrimSuffix(base, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (C *Client) do(req *http.Request) error {
	resp, err := C.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("expected status code 200 from %s, got %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

//Error tells the operator the simulation correlationID failed with msg.
func (C *Client) Error(ctx context.Context, correlationID, msg string) error {
	body, err := json.Marshal(&ErrorReport{Msg: msg, CorrelationID: correlationID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, C.url("/error", nil), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := C.do(req); err != nil {
		return fmt.Errorf("report error: %w", err)
	}
	return nil
}

//Complete uploads the result bundle of correlationID, as the multipart
//field "data".
func (C *Client) Complete(ctx context.Context, correlationID, filename string, data io.Reader) error {
	var body bytes.Buffer
	m := multipart.NewWriter(&body)
	part, err := m.CreateFormFile("data", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, data); err != nil {
		return err
	}
	if err := m.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		C.url("/complete", url.Values{"correlation_id": {correlationID}}), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", m.FormDataContentType())
	if err := C.do(req); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	log.Printf("Results uploaded")
	return nil
}
