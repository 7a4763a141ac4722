package adminapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/booking-api/internal/model"
)

// ListDoctors fetches the clinic's doctor roster.
func (c *Client) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	rawURL, err := c.buildURL(c.cfg.DoctorsPath, nil)
	if err != nil {
		return nil, err
	}

	var doctors []*model.Doctor
	if err := c.do(ctx, "list_doctors", http.MethodGet, rawURL, nil, &doctors); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
