// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package admin

import (
	"fmt"

	"github.com/gunplahub/api/internal/listquery"
)

// Field declares one exposed column of an admin resource.
type Field struct {
	Name     string
	Column   string
	Required bool
	Writable bool
}

// Resource is the declarative schema of one reference table exposed to the
// admin CRUD surface. One registry entry replaces a hand-written handler
// set per table.
type Resource struct {
	Name         string
	TableName    string
	Fields       []Field
	SearchFields []string
	DefaultSort  string

	table    listquery.Table
	writable map[string]bool
	fields   map[string]Field
}

// Registry maps URL resource names to their schemas.
type Registry struct {
	resources map[string]*Resource
}

// NewRegistry builds a registry from resource schemas and precomputes the
// per-resource lookup tables.
func NewRegistry(resources ...*Resource) *Registry {
	reg := &Registry{resources: make(map[string]*Resource, len(resources))}
	for _, res := range resources {
		res.finalize()
		reg.resources[res.Name] = res
	}
	return reg
}

// Lookup resolves a URL resource name.
func (r *Registry) Lookup(name string) (*Resource, bool) {
	res, ok := r.resources[name]
	return res, ok
}

// Names lists the registered resource names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	return names
}

func (res *Resource) finalize() {
	res.writable = make(map[string]bool, len(res.Fields))
	res.fields = make(map[string]Field, len(res.Fields))

	columns := make(map[string]string, len(res.Fields)+1)
	columns["id"] = "id"
	for _, field := range res.Fields {
		res.fields[field.Name] = field
		columns[field.Name] = field.Column
		if field.Writable {
			res.writable[field.Name] = true
		}
	}

	res.table = listquery.Table{
		Name:         res.TableName,
		IDColumn:     "id",
		Columns:      columns,
		SearchFields: res.SearchFields,
		DefaultSort:  res.DefaultSort,
	}
}

// Table returns the listquery surface of the resource.
func (res *Resource) Table() listquery.Table {
	return res.table
}

// Columns returns the SQL projection for reads: id plus every declared field.
func (res *Resource) Columns() []string {
	cols := make([]string, 0, len(res.Fields)+1)
	cols = append(cols, "id")
	for _, field := range res.Fields {
		if field.Column != "id" {
			cols = append(cols, field.Column)
		}
	}
	return cols
}

// Field resolves an exposed field name.
func (res *Resource) Field(name string) (Field, bool) {
	f, ok := res.fields[name]
	return f, ok
}

// IsWritable reports whether a field accepts writes.
func (res *Resource) IsWritable(name string) bool {
	return res.writable[name]
}

// RequiredFields lists the fields a create payload must carry.
func (res *Resource) RequiredFields() []string {
	var required []string
	for _, field := range res.Fields {
		if field.Required {
			required = append(required, field.Name)
		}
	}
	return required
}

func (res *Resource) String() string {
	return fmt.Sprintf("admin resource %q (table %s)", res.Name, res.TableName)
}

// DefaultRegistry declares every reference table of the catalog. Adding a
// table to the admin surface means adding one entry here.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&Resource{
			Name:      "grades",
			TableName: "grades",
			Fields: []Field{
				{Name: "code", Column: "code", Required: true, Writable: true},
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "display_order", Column: "display_order", Writable: true},
			},
			SearchFields: []string{"code", "name"},
			DefaultSort:  "display_order",
		},
		&Resource{
			Name:      "timelines",
			TableName: "timelines",
			Fields: []Field{
				{Name: "code", Column: "code", Required: true, Writable: true},
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "sort_order", Column: "sort_order", Writable: true},
			},
			SearchFields: []string{"code", "name"},
			DefaultSort:  "sort_order",
		},
		&Resource{
			Name:      "series",
			TableName: "series",
			Fields: []Field{
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "name_en", Column: "name_en", Writable: true},
				{Name: "timeline_id", Column: "timeline_id", Writable: true},
			},
			SearchFields: []string{"name", "name_en"},
			DefaultSort:  "name",
		},
		&Resource{
			Name:      "factions",
			TableName: "factions",
			Fields: []Field{
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "description", Column: "description", Writable: true},
			},
			SearchFields: []string{"name"},
			DefaultSort:  "name",
		},
		&Resource{
			Name:      "organizations",
			TableName: "organizations",
			Fields: []Field{
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "faction_id", Column: "faction_id", Writable: true},
			},
			SearchFields: []string{"name"},
			DefaultSort:  "name",
		},
		&Resource{
			Name:      "pilots",
			TableName: "pilots",
			Fields: []Field{
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "name_en", Column: "name_en", Writable: true},
				{Name: "faction_id", Column: "faction_id", Writable: true},
			},
			SearchFields: []string{"name", "name_en"},
			DefaultSort:  "name",
		},
		&Resource{
			Name:      "mobile-suits",
			TableName: "mobile_suits",
			Fields: []Field{
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "model_number", Column: "model_number", Writable: true},
				{Name: "faction_id", Column: "faction_id", Writable: true},
				{Name: "pilot_id", Column: "pilot_id", Writable: true},
			},
			SearchFields: []string{"name", "model_number"},
			DefaultSort:  "name",
		},
		&Resource{
			Name:      "kits",
			TableName: "kits",
			Fields: []Field{
				{Name: "name", Column: "name", Required: true, Writable: true},
				{Name: "name_en", Column: "name_en", Writable: true},
				{Name: "grade_id", Column: "grade_id", Writable: true},
				{Name: "series_id", Column: "series_id", Writable: true},
				{Name: "timeline_id", Column: "timeline_id", Writable: true},
				{Name: "mobile_suit_id", Column: "mobile_suit_id", Writable: true},
				{Name: "price_krw", Column: "price_krw", Writable: true},
				{Name: "release_date", Column: "release_date", Writable: true},
				{Name: "limited_type", Column: "limited_type", Writable: true},
				{Name: "description", Column: "description", Writable: true},
			},
			SearchFields: []string{"name", "name_en"},
			DefaultSort:  "name",
		},
		&Resource{
			Name:      "kit-images",
			TableName: "kit_images",
			Fields: []Field{
				{Name: "kit_id", Column: "kit_id", Required: true, Writable: true},
				{Name: "url", Column: "url", Required: true, Writable: true},
				{Name: "is_primary", Column: "is_primary", Writable: true},
				{Name: "position", Column: "position", Writable: true},
			},
			SearchFields: []string{"url"},
			DefaultSort:  "position",
		},
	)
}
