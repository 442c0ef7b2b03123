package entity

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shandysiswandi/otpkeeper/internal/pkg/otp"
)

const maxIDAttempts = 8

// IDGenerator returns fresh service ids.
type IDGenerator interface {
	Generate() string
}

// Catalog is the ordered set of services owned by one account.
//
// A Catalog is not safe for concurrent use; callers serialize access per
// account. It records the services added and removed since it was loaded so
// that the repository can persist only the difference.
type Catalog struct {
	accountID int64
	services  []Service
	nextPos   int

	added   []Service
	removed []string
}

// NewCatalog restores the catalog of accountID from services, which must be
// sorted by Position.
func NewCatalog(accountID int64, services []Service) *Catalog {
	c := &Catalog{accountID: accountID, services: slices.Clone(services)}
	for _, s := range services {
		c.nextPos = max(c.nextPos, s.Position+1)
	}
	return c
}

// AccountID returns the owning account.
func (c *Catalog) AccountID() int64 {
	return c.accountID
}

// Enroll validates svc, assigns it a fresh id and appends it. Names and
// issuers may repeat. The returned id is unique within the catalog.
func (c *Catalog) Enroll(ids IDGenerator, svc Service, now time.Time) (string, error) {
	svc.Name = strings.TrimSpace(svc.Name)
	svc.Issuer = strings.TrimSpace(svc.Issuer)

	if svc.Name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}
	if len(svc.Secret) == 0 {
		return "", fmt.Errorf("%w: %w", ErrInvalidDescriptor, otp.ErrMissingSecret)
	}
	if err := svc.Params().ValidateKey(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	id, err := c.freshID(ids)
	if err != nil {
		return "", err
	}

	svc.ID = id
	svc.Secret = slices.Clone(svc.Secret)
	svc.Position = c.nextPos
	svc.CreatedAt = now
	c.nextPos++

	c.services = append(c.services, svc)
	c.added = append(c.added, svc)

	return id, nil
}

func (c *Catalog) freshID(ids IDGenerator) (string, error) {
	for range maxIDAttempts {
		id := ids.Generate()
		if id != "" && c.index(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// List returns the services in enrollment order. The slice is a copy.
func (c *Catalog) List() []Service {
	return slices.Clone(c.services)
}

// Find returns the service with id.
func (c *Catalog) Find(id string) (Service, error) {
	i := c.index(id)
	if i < 0 {
		return Service{}, ErrNotFound
	}
	return c.services[i], nil
}

// Remove deletes the service with id.
func (c *Catalog) Remove(id string) (Service, error) {
	i := c.index(id)
	if i < 0 {
		return Service{}, ErrNotFound
	}

	svc := c.services[i]
	c.services = slices.Delete(c.services, i, i+1)

	if j := slices.IndexFunc(c.added, func(s Service) bool { return s.ID == id }); j >= 0 {
		c.added = slices.Delete(c.added, j, j+1)
	} else {
		c.removed = append(c.removed, id)
	}

	return svc, nil
}

// Len returns the number of enrolled services.
func (c *Catalog) Len() int {
	return len(c.services)
}

// Added returns services enrolled since the catalog was loaded.
func (c *Catalog) Added() []Service {
	return slices.Clone(c.added)
}

// Removed returns ids of loaded services removed since.
func (c *Catalog) Removed() []string {
	return slices.Clone(c.removed)
}

func (c *Catalog) index(id string) int {
	return slices.IndexFunc(c.services, func(s Service) bool { return s.ID == id })
}
