package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"golang.org/x/sync/singleflight"
)

// DefaultCatalogTTL is how long a loaded package list is served from memory.
const DefaultCatalogTTL = time.Minute

// PackageTypes are the catalog sections shown on the home page.
var PackageTypes = []string{"standard", "premium"}

// PackageLister loads the pricing catalog.
type PackageLister interface {
	ListPackages(ctx context.Context, packageType string) ([]mbsdk.Package, error)
}

type catalogEntry struct {
	packages []mbsdk.Package
	loadedAt time.Time
}

// CatalogService serves the pricing catalog. Concurrent loads of the same
// type share one backend call and results are kept for TTL.
type CatalogService struct {
	Backend PackageLister
	TTL     time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]catalogEntry
	now   func() time.Time
}

// NewCatalogService creates a CatalogService. A non-positive ttl uses
// DefaultCatalogTTL.
func NewCatalogService(backend PackageLister, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogService{
		Backend: backend,
		TTL:     ttl,
		cache:   make(map[string]catalogEntry),
		now:     time.Now,
	}
}

// Packages returns the packages of a type.
func (s *CatalogService) Packages(ctx context.Context, packageType string) ([]mbsdk.Package, error) {
	packageType = strings.ToLower(strings.TrimSpace(packageType))
	if packageType == "" {
		return nil, fmt.Errorf("catalog: package type is required")
	}

	if pkgs, ok := s.cached(packageType); ok {
		return pkgs, nil
	}

	// The load must not die with the first caller's request.
	v, err, _ := s.group.Do(packageType, func() (any, error) {
		pkgs, err := s.Backend.ListPackages(context.WithoutCancel(ctx), packageType)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[packageType] = catalogEntry{packages: pkgs, loadedAt: s.now()}
		s.mu.Unlock()
		return pkgs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s packages: %w", packageType, err)
	}
	return v.([]mbsdk.Package), nil
}

// Invalidate drops every cached list.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
}

func (s *CatalogService) cached(packageType string) ([]mbsdk.Package, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.cache[packageType]
	if !ok || s.now().Sub(e.loadedAt) >= s.TTL {
		return nil, false
	}
	return e.packages, true
}
