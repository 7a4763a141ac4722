package adminapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/booking-api/internal/model"
)

// ListServices fetches the full service catalog.
func (c *Client) ListServices(ctx context.Context) ([]*model.Service, error) {
	rawURL, err := c.buildURL(c.cfg.ServicesPath, nil)
	if err != nil {
		return nil, err
	}

	var services []*model.Service
	if err := c.do(ctx, "list_services", http.MethodGet, rawURL, nil, &services); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// GetService fetches one service by id. A provider 404 returns (nil, nil).
func (c *Client) GetService(ctx context.Context, id string) (*model.Service, error) {
	rawURL, err := c.buildURL(c.cfg.ServicesPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	var service model.Service
	err = c.do(ctx, "get_service", http.MethodGet, rawURL, nil, &service)
	if err != nil {
		if statusErr, ok := err.(*StatusError); ok && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}
