package catalogRepo

import (
	"context"
	"fmt"
	"os"

	"tradewinds/models"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the YAML layout used for local catalogs and seeding.
type CatalogFile struct {
	Resorts []models.Resort `yaml:"resorts"`
	Options []models.Option `yaml:"options"`
}

// LoadCatalogFile reads and sanity checks a catalog YAML file.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(f.Resorts))
	for _, r := range f.Resorts {
		if r.ID == "" {
			return nil, fmt.Errorf("catalog file %s: resort without id", path)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("catalog file %s: duplicate resort id %q", path, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	for _, o := range f.Options {
		switch o.Kind {
		case models.OptionPurpose, models.OptionExperience, models.OptionPreference:
		default:
			return nil, fmt.Errorf("catalog file %s: option %q has unknown kind %q", path, o.ID, o.Kind)
		}
	}
	return &f, nil
}

// MemoryCatalogRepo serves a fixed catalog from memory. It is never mutated
// after construction and is safe for concurrent use.
type MemoryCatalogRepo struct {
	resorts []models.Resort
	byID    map[string]int
	options map[models.OptionKind][]models.Option
}

// NewMemoryCatalogRepo builds a catalog; resort order is insertion order.
func NewMemoryCatalogRepo(resorts []models.Resort, opts []models.Option) *MemoryCatalogRepo {
	r := &MemoryCatalogRepo{
		resorts: make([]models.Resort, len(resorts)),
		byID:    make(map[string]int, len(resorts)),
		options: make(map[models.OptionKind][]models.Option),
	}
	for i, res := range resorts {
		res.Position = i
		r.resorts[i] = res
		r.byID[res.ID] = i
	}
	for _, o := range opts {
		r.options[o.Kind] = append(r.options[o.Kind], o)
	}
	return r
}

// NewFileCatalogRepo loads a MemoryCatalogRepo from a YAML file.
func NewFileCatalogRepo(path string) (*MemoryCatalogRepo, error) {
	f, err := LoadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryCatalogRepo(f.Resorts, f.Options), nil
}

func (r *MemoryCatalogRepo) GetResort(_ context.Context, id string) (*models.Resort, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("resort %s: %w", id, ErrNotFound)
	}
	res := r.resorts[i]
	return &res, nil
}

func (r *MemoryCatalogRepo) ListResorts(_ context.Context) ([]models.Resort, error) {
	out := make([]models.Resort, len(r.resorts))
	copy(out, r.resorts)
	return out, nil
}

func (r *MemoryCatalogRepo) GetOption(_ context.Context, kind models.OptionKind, id string) (*models.Option, error) {
	for _, o := range r.options[kind] {
		if o.ID == id {
			opt := o
			return &opt, nil
		}
	}
	return nil, fmt.Errorf("%s option %s: %w", kind, id, ErrNotFound)
}

func (r *MemoryCatalogRepo) ListOptions(_ context.Context, kind models.OptionKind) ([]models.Option, error) {
	out := make([]models.Option, len(r.options[kind]))
	copy(out, r.options[kind])
	return out, nil
}
