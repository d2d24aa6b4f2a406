package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zjrosen/orchard/internal/cachemanager"
	"github.com/zjrosen/orchard/internal/log"
)

const searchCacheTTL = 5 * time.Minute

// Registry holds validated categories and widgets. It is immutable.
type Registry struct {
	categories []*CategoryDescription
	widgets    []*WidgetDescription
	catByName  map[string]*CategoryDescription
	byName     map[string]*WidgetDescription
	types      *TypeSystem
	search     *cachemanager.ReadThroughCache[string, []*WidgetDescription, string]
}

var _ TypeChecker = (*Registry)(nil)

func newRegistry(
	categories []*CategoryDescription,
	widgets []*WidgetDescription,
	catByName map[string]*CategoryDescription,
	byName map[string]*WidgetDescription,
	types *TypeSystem,
) *Registry {
	r := &Registry{
		categories: append([]*CategoryDescription(nil), categories...),
		catByName:  catByName,
		byName:     byName,
		types:      types,
	}

	sort.SliceStable(r.categories, func(i, j int) bool {
		return r.categories[i].priority < r.categories[j].priority
	})

	r.widgets = append([]*WidgetDescription(nil), widgets...)
	catRank := make(map[string]int, len(r.categories))
	for i, c := range r.categories {
		catRank[c.name] = i
	}
	sort.SliceStable(r.widgets, func(i, j int) bool {
		a, b := r.widgets[i], r.widgets[j]
		if catRank[a.category] != catRank[b.category] {
			return catRank[a.category] < catRank[b.category]
		}
		return a.priority < b.priority
	})

	cache := cachemanager.NewInMemoryCacheManager[string, []*WidgetDescription]("registry-search", searchCacheTTL, 2*searchCacheTTL)
	r.search = cachemanager.NewReadThroughCache[string, []*WidgetDescription, string](cache, r.searchUncached, false)

	log.Info(log.CatRegistry, "registry built", "categories", len(r.categories), "widgets", len(r.widgets))
	return r
}

// Category returns the named category.
func (r *Registry) Category(name string) (*CategoryDescription, error) {
	c, ok := r.catByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, name)
	}
	return c, nil
}

// Widget returns the widget with the given qualified name.
func (r *Registry) Widget(qualifiedName string) (*WidgetDescription, error) {
	w, ok := r.byName[qualifiedName]
	if !ok {
		return nil, fmt.Errorf("%w: widget %q", ErrNotFound, qualifiedName)
	}
	return w, nil
}

// HasWidget reports whether the widget is registered.
func (r *Registry) HasWidget(qualifiedName string) bool {
	_, ok := r.byName[qualifiedName]
	return ok
}

// HasCategory reports whether the category is registered.
func (r *Registry) HasCategory(name string) bool {
	_, ok := r.catByName[name]
	return ok
}

// Categories returns categories in priority order.
func (r *Registry) Categories() []*CategoryDescription {
	return append([]*CategoryDescription(nil), r.categories...)
}

// Widgets returns the widgets of category, or every widget when category is
// empty, in toolbox order.
func (r *Registry) Widgets(category string) []*WidgetDescription {
	if category == "" {
		return append([]*WidgetDescription(nil), r.widgets...)
	}
	var out []*WidgetDescription
	for _, w := range r.widgets {
		if w.category == category {
			out = append(out, w)
		}
	}
	return out
}

// Types returns the registry's type system.
func (r *Registry) Types() *TypeSystem {
	return r.types
}

// Classify implements TypeChecker using the declared adapters.
func (r *Registry) Classify(out *OutputSignal, in *InputSignal) (strict, dynamic bool) {
	return r.types.Classify(out, in)
}

// Search returns the widgets matching query in toolbox order. Widgets in
// hidden categories are left out. Results for a query are memoized.
func (r *Registry) Search(ctx context.Context, query string) []*WidgetDescription {
	key := strings.ToLower(strings.TrimSpace(query))
	res, _ := r.search.Get(ctx, key, key, searchCacheTTL)
	return append([]*WidgetDescription(nil), res...)
}

func (r *Registry) searchUncached(_ context.Context, query string) ([]*WidgetDescription, error) {
	var out []*WidgetDescription
	for _, w := range r.widgets {
		if c := r.catByName[w.category]; c != nil && c.hidden {
			continue
		}
		if query == "" || w.matches(query) {
			out = append(out, w)
		}
	}
	return out, nil
}
