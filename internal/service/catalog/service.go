package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/booking-api/internal/model"
)

const (
	servicesKey = "catalog:services"
	doctorsKey  = "catalog:doctors"
)

// Provider is the read side of the admin API catalog.
type Provider interface {
	ListServices(ctx context.Context) ([]*model.Service, error)
	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
}

// Service is a read-through cache over the catalog. The catalog changes
// rarely, so unlike appointment reads it tolerates a minutes-scale TTL.
type Service struct {
	provider Provider
	cache    *gocache.Cache
}

func NewService(provider Provider, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		provider: provider,
		cache:    gocache.New(ttl, 2*ttl),
	}
}

// ListServices returns the catalog newest-first, matching the site's service
// listing order.
func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	if cached, ok := s.cache.Get(servicesKey); ok {
		return cached.([]*model.Service), nil
	}

	services, err := s.provider.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service catalog: %w", err)
	}

	sorted := make([]*model.Service, len(services))
	copy(sorted, services)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := stamp(sorted[i]), stamp(sorted[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sorted[i].Name < sorted[j].Name
	})

	s.cache.SetDefault(servicesKey, sorted)
	return sorted, nil
}

// ActiveServices filters the catalog to bookable offerings.
func (s *Service) ActiveServices(ctx context.Context) ([]*model.Service, error) {
	services, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*model.Service, 0, len(services))
	for _, svc := range services {
		if svc.Active {
			active = append(active, svc)
		}
	}
	return active, nil
}

// GetService resolves one service from the cached catalog. Returns nil when
// the id is unknown.
func (s *Service) GetService(ctx context.Context, id string) (*model.Service, error) {
	services, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		if svc.ID == id {
			return svc, nil
		}
	}
	return nil, nil
}

// DurationIndex maps service ids to their durations for conflict resolution.
func (s *Service) DurationIndex(ctx context.Context) (map[string]int, error) {
	services, err := s.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(services))
	for _, svc := range services {
		index[svc.ID] = svc.DurationMin
	}
	return index, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(doctorsKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.provider.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor roster: %w", err)
	}

	active := make([]*model.Doctor, 0, len(doctors))
	for _, doc := range doctors {
		if doc.Active {
			active = append(active, doc)
		}
	}

	s.cache.SetDefault(doctorsKey, active)
	return active, nil
}

// Invalidate drops cached catalog entries, forcing the next read through.
func (s *Service) Invalidate() {
	s.cache.Delete(servicesKey)
	s.cache.Delete(doctorsKey)
}

func stamp(svc *model.Service) time.Time {
	if !svc.CreatedAt.IsZero() {
		return svc.CreatedAt
	}
	return svc.UpdatedAt
}
