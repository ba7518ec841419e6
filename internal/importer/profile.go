package importer

import "strings"

// Profile is a named set of header aliases for a known CSV dialect.
type Profile struct {
	Name    string
	Aliases map[Field][]string
}

// Registry holds named profiles.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates an empty profile registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*Profile)}
}

// Register adds a profile. Panics on duplicate name.
func (r *Registry) Register(p *Profile) {
	key := strings.ToLower(p.Name)
	if _, ok := r.profiles[key]; ok {
		panic("duplicate profile: " + key)
	}
	r.profiles[key] = p
}

// Get returns the profile for name, or nil.
func (r *Registry) Get(name string) *Profile {
	return r.profiles[strings.ToLower(name)]
}

// Names returns the registered profile names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		names = append(names, p.Name)
	}
	return names
}

// DefaultRegistry returns a registry with all built-in profiles.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(genericProfile())
	r.Register(dinProfile())
	return r
}

// genericProfile matches plain English headers and common bank-export
// variants.
func genericProfile() *Profile {
	return &Profile{
		Name: "generic",
		Aliases: map[Field][]string{
			FieldDate:        {"date", "booking date", "transaction date", "posted"},
			FieldAmount:      {"amount", "value", "sum"},
			FieldCurrency:    {"currency", "ccy", "cur"},
			FieldCategory:    {"category"},
			FieldSubcategory: {"subcategory", "sub category", "sub-category"},
			FieldNotes:       {"notes", "note", "description", "memo"},
			FieldType:        {"type", "direction"},
		},
	}
}

// dinProfile matches German bank-export headers.
func dinProfile() *Profile {
	return &Profile{
		Name: "din",
		Aliases: map[Field][]string{
			FieldDate:        {"datum", "buchungstag", "buchungsdatum"},
			FieldAmount:      {"betrag", "umsatz"},
			FieldCurrency:    {"währung", "waehrung"},
			FieldCategory:    {"kategorie"},
			FieldSubcategory: {"unterkategorie"},
			FieldNotes:       {"notiz", "verwendungszweck"},
			FieldType:        {"typ", "art"},
		},
	}
}

// MergeAliases layers user-configured aliases over a profile's, returning a
// new map. Extra names extend the profile lists; they never remove any.
func MergeAliases(base map[Field][]string, extra map[string][]string) map[Field][]string {
	merged := make(map[Field][]string, len(base))
	for f, names := range base {
		merged[f] = append([]string(nil), names...)
	}
	for name, aliases := range extra {
		f := Field(strings.ToLower(strings.TrimSpace(name)))
		merged[f] = append(merged[f], aliases...)
	}
	return merged
}
