// Package catalog loads the read-only product catalog from a YAML file.
// Deployments with a managed catalog use the postgres repo instead; both
// sources validate every record so a malformed category fails loudly at
// load time rather than surfacing as a silently unscored product.
package catalog

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// Static is an immutable in-memory catalog.
type Static struct {
	products []domain.Product
}

type catalogFile struct {
	Products []domain.Product `yaml:"products"`
}

// LoadFile reads and validates a YAML catalog file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=catalog.LoadFile: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("op=catalog.LoadFile: parse %s: %w", path, err)
	}
	return New(f.Products)
}

// New validates the given products and wraps them in a Static catalog.
// Duplicate ids and invalid categories are rejected.
func New(products []domain.Product) (*Static, error) {
	seen := make(map[string]bool, len(products))
	for i, p := range products {
		if err := getValidator().Struct(p); err != nil {
			return nil, fmt.Errorf("%w: product %d (%q): %v", domain.ErrInvalidArgument, i, p.ID, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate product id %q", domain.ErrInvalidArgument, p.ID)
		}
		seen[p.ID] = true
	}
	out := make([]domain.Product, len(products))
	copy(out, products)
	return &Static{products: out}, nil
}

// List returns the catalog in its stable, authored order.
func (s *Static) List(_ domain.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
