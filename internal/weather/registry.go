package weather

// Provider names.
const (
	OpenMeteo = "open-meteo"
	Yandex    = "yandex"
)

// Registry is the fixed set of providers known at startup. Lookups of unknown
// names resolve to the default provider.
type Registry struct {
	byName map[string]Provider
	order  []string
	def    Provider
}

// NewRegistry builds a registry; def is returned for any unknown name and is
// registered under its own name.
func NewRegistry(def Provider, others ...Provider) *Registry {
	r := &Registry{byName: make(map[string]Provider), def: def}
	for _, p := range append([]Provider{def}, others...) {
		if p == nil {
			continue
		}
		if _, dup := r.byName[p.Name()]; dup {
			continue
		}
		r.byName[p.Name()] = p
		r.order = append(r.order, p.Name())
	}
	return r
}

// Lookup returns the named provider, or the default one when the name is unknown.
func (r *Registry) Lookup(name string) Provider {
	if p, ok := r.byName[name]; ok {
		return p
	}
	return r.def
}

// Names lists registered providers, default first.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
