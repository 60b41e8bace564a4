package operator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

//Submit posts R to the /run endpoint of the operator at address and
//returns the result bundle. client may be nil.
func Submit(ctx context.Context, client *http.Client, address string, R *RunConfig) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	body, err := json.Marshal(R)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(address, "/")+"/run", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expected status code 200, got %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
