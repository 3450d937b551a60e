package syncing

import (
	"context"
	"fmt"
	"time"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/bynder"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
	"github.com/rs/zerolog"
)

const (
	DefaultCreatePause = 200 * time.Millisecond
	DefaultLinkPause   = 300 * time.Millisecond
)

// OptionStore is the part of the Bynder API the metadata sync writes to.
type OptionStore interface {
	CreateOption(ctx context.Context, metaID, label string) (string, error)
	LinkOption(ctx context.Context, childMetaID, childID, parentID string) (bool, error)
}

type Metaproperties struct {
	Product string
	Shade   string
	SKU     string
}

// Taxonomy caches label to id lookups for the three metaproperties. Created
// options are added as they are made.
type Taxonomy struct {
	Products types.OptionSet
	Shades   types.OptionSet
	SKUs     types.OptionSet
}

// Link is one child option and the parents it should depend on.
type Link struct {
	ChildMeta  string
	ChildLabel string
	ChildID    string
	ParentMeta string
	ParentIDs  []string
}

type LinkStats struct {
	Created  int
	Existing int
}

type MetadataSync struct {
	Store       OptionStore
	Meta        Metaproperties
	Log         zerolog.Logger
	DryRun      bool
	CreatePause time.Duration
	LinkPause   time.Duration
	Progress    bool
}

func (s *MetadataSync) ensure(ctx context.Context, metaID, kind, label string, set types.OptionSet) (bool, error) {
	if label == "" || set.Has(label) {
		return false, nil
	}

	s.Log.Info().Str("kind", kind).Str("label", label).Msg("creating missing option")

	if s.DryRun {
		payload := bynder.NewOptionPayload(label)
		s.Log.Info().Str("meta", metaID).Str("name", payload.Name).Msg("[DRY RUN] would create option")
		s.Log.Debug().Msg("payload: " + payload.String())
		set[label] = "dry-" + label
		return true, nil
	}

	id, err := s.Store.CreateOption(ctx, metaID, label)
	if err != nil {
		return false, fmt.Errorf("failed to create %s %q: %w", kind, label, err)
	}
	set[label] = id
	return true, pause(ctx, s.CreatePause)
}

// CreateMissing creates, row by row, the SKU, product+shade and product
// options that tax does not know yet. The first failure stops the run.
func (s *MetadataSync) CreateMissing(ctx context.Context, rows []types.SheetRow, tax *Taxonomy) (int, error) {
	created := 0
	bar := newBar(len(rows), s.Progress)
	defer bar.Finish()

	for _, row := range rows {
		steps := []struct {
			meta, kind, label string
			set               types.OptionSet
		}{
			{s.Meta.SKU, "sku", row.SKU, tax.SKUs},
			{s.Meta.Shade, "product+shade", row.ProductShade, tax.Shades},
			{s.Meta.Product, "product", row.Product, tax.Products},
		}
		for _, step := range steps {
			made, err := s.ensure(ctx, step.meta, step.kind, step.label, step.set)
			if err != nil {
				return created, err
			}
			if made {
				created++
			}
		}
		bar.Increment()
	}

	return created, nil
}

type linkGroup struct {
	childMeta, parentMeta string
	order                 []string
	parents               map[string][]string
	seen                  map[string]map[string]struct{}
}

func newLinkGroup(childMeta, parentMeta string) *linkGroup {
	return &linkGroup{
		childMeta:  childMeta,
		parentMeta: parentMeta,
		parents:    map[string][]string{},
		seen:       map[string]map[string]struct{}{},
	}
}

func (g *linkGroup) add(child, parentID string) {
	if _, ok := g.seen[child]; !ok {
		g.seen[child] = map[string]struct{}{}
		g.order = append(g.order, child)
	}
	if _, dup := g.seen[child][parentID]; dup {
		return
	}
	g.seen[child][parentID] = struct{}{}
	g.parents[child] = append(g.parents[child], parentID)
}

func (g *linkGroup) links(children types.OptionSet) []Link {
	out := make([]Link, 0, len(g.order))
	for _, child := range g.order {
		out = append(out, Link{
			ChildMeta:  g.childMeta,
			ChildLabel: child,
			ChildID:    children[child],
			ParentMeta: g.parentMeta,
			ParentIDs:  g.parents[child],
		})
	}
	return out
}

// PlanLinks works out which dependencies the rows describe: product+shade
// under product, SKU under product and SKU under product+shade. Only labels
// with a known, non-empty id take part.
func PlanLinks(meta Metaproperties, rows []types.SheetRow, tax *Taxonomy) []Link {
	shadeOnProduct := newLinkGroup(meta.Shade, meta.Product)
	skuOnProduct := newLinkGroup(meta.SKU, meta.Product)
	skuOnShade := newLinkGroup(meta.SKU, meta.Shade)

	for _, row := range rows {
		p, ps, sku := row.Product, row.ProductShade, row.SKU
		productID, hasProduct := tax.Products.ID(p)
		shadeID, hasShade := tax.Shades.ID(ps)
		_, hasSKU := tax.SKUs.ID(sku)

		if p != "" && ps != "" && hasShade && hasProduct {
			shadeOnProduct.add(ps, productID)
		}
		if p != "" && sku != "" && hasSKU && hasProduct {
			skuOnProduct.add(sku, productID)
		}
		if ps != "" && sku != "" && hasSKU && hasShade {
			skuOnShade.add(sku, shadeID)
		}
	}

	links := shadeOnProduct.links(tax.Shades)
	links = append(links, skuOnProduct.links(tax.SKUs)...)
	links = append(links, skuOnShade.links(tax.SKUs)...)
	return links
}

// LinkAll creates every planned dependency. Links Bynder already has count as
// existing; any other failure stops the run.
func (s *MetadataSync) LinkAll(ctx context.Context, links []Link) (LinkStats, error) {
	var stats LinkStats
	bar := newBar(len(links), s.Progress)
	defer bar.Finish()

	for _, link := range links {
		s.Log.Info().
			Str("child", link.ChildLabel).
			Str("child_id", link.ChildID).
			Str("child_meta", link.ChildMeta).
			Str("parent_meta", link.ParentMeta).
			Strs("parent_ids", link.ParentIDs).
			Msgf("linking %d parents to child option", len(link.ParentIDs))

		if s.DryRun {
			bar.Increment()
			continue
		}

		for _, parentID := range link.ParentIDs {
			existed, err := s.Store.LinkOption(ctx, link.ChildMeta, link.ChildID, parentID)
			if err != nil {
				return stats, fmt.Errorf("failed to link %q to parent %s: %w", link.ChildLabel, parentID, err)
			}
			if existed {
				stats.Existing++
			} else {
				stats.Created++
			}
		}
		bar.Increment()
		if err := pause(ctx, s.LinkPause); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// Run creates the missing options and then links them.
func (s *MetadataSync) Run(ctx context.Context, rows []types.SheetRow, tax *Taxonomy) error {
	created, err := s.CreateMissing(ctx, rows, tax)
	if err != nil {
		return err
	}
	s.Log.Info().Int("created", created).Msg("missing options created")

	s.Log.Info().Msg("preparing links")
	links := PlanLinks(s.Meta, rows, tax)

	stats, err := s.LinkAll(ctx, links)
	if err != nil {
		return err
	}
	s.Log.Info().Int("children", len(links)).Int("linked", stats.Created).Int("already_linked", stats.Existing).Msg("done")
	return nil
}
