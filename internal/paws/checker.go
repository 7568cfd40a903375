package paws

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	id "fellgate/pkg/domain"

	"fellgate/internal/property"
)

// HTTPChecker calls the land information service's constraint-check endpoint.
// The service answers with the subset of submitted compartments whose geometry
// intersects ancient-woodland land.
type HTTPChecker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPChecker(baseURL string) *HTTPChecker {
	return &HTTPChecker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type checkRequest struct {
	Compartments []checkCompartment `json:"compartments"`
}

type checkCompartment struct {
	ID      string `json:"id"`
	GISData string `json:"gisData"`
}

type checkResponse struct {
	PawsCompartmentIDs []string `json:"pawsCompartmentIds"`
}

func (c *HTTPChecker) CheckCompartmentsForPaws(ctx context.Context, compartments []property.Compartment) ([]id.CompartmentID, error) {
	payload := checkRequest{Compartments: make([]checkCompartment, 0, len(compartments))}
	for _, compartment := range compartments {
		payload.Compartments = append(payload.Compartments, checkCompartment{
			ID:      compartment.ID.String(),
			GISData: compartment.GISData,
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode constraint check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/constraints/paws", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build constraint check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("constraint check call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("constraint check returned status %d", resp.StatusCode)
	}

	var decoded checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode constraint check response: %w", err)
	}

	out := make([]id.CompartmentID, 0, len(decoded.PawsCompartmentIDs))
	for _, raw := range decoded.PawsCompartmentIDs {
		compartmentID, err := id.ParseCompartmentID(raw)
		if err != nil {
			return nil, fmt.Errorf("constraint check returned invalid compartment id %q: %w", raw, err)
		}
		out = append(out, compartmentID)
	}
	return out, nil
}
