// Package standards turns the reference database into the data files the
// energy-modeling library reads: template resolution, the space-type join
// and the per-code table exports.
package standards

import (
	"context"
	"errors"
	"fmt"

	"stdsdb/internal/catalog"
	"stdsdb/internal/domain"
	"stdsdb/internal/storage"
)

// ErrTemplateNotFound is returned when no support_templates row matches.
var ErrTemplateNotFound = errors.New("template not found")

// Resolver looks templates up by exact key.
type Resolver struct {
	reg *storage.Registry
}

// NewResolver returns a resolver over the registry's template table.
func NewResolver(reg *storage.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Lookup returns every template row whose key equals template.
func (r *Resolver) Lookup(ctx context.Context, template string) ([]domain.Template, error) {
	table, err := r.reg.Handle(ctx, catalog.TableTemplates)
	if err != nil {
		return nil, err
	}
	rows, err := table.FetchByKey(ctx, template)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, template)
	}
	out := make([]domain.Template, len(rows))
	for i, row := range rows {
		out[i] = domain.TemplateFromRecord(row)
	}
	return out, nil
}

// Resolve returns the first template row for template.
func (r *Resolver) Resolve(ctx context.Context, template string) (domain.Template, error) {
	rows, err := r.Lookup(ctx, template)
	if err != nil {
		return domain.Template{}, err
	}
	return rows[0], nil
}
