package conceptcard

import "strings"

// unsetPlaceholder is what build tooling substitutes for an undefined
// environment variable.
const unsetPlaceholder = "undefined"

// ProviderSettings holds the credentials and overrides for one provider.
type ProviderSettings struct {
	APIKey  string
	BaseURL string // Optional endpoint override
	Model   string // Optional model override

	// RequestsPerMinute paces outgoing calls; 0 means unpaced.
	RequestsPerMinute int
}

// Configured reports whether the API key is usable.
func (s ProviderSettings) Configured() bool {
	return credentialSet(s.APIKey)
}

// ProviderConfig is the read-only provider configuration snapshot, built once
// at startup.
type ProviderConfig map[ProviderID]ProviderSettings

// Available reports whether the provider has a usable API key.
func (c ProviderConfig) Available(id ProviderID) bool {
	return c[id].Configured()
}

func credentialSet(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != unsetPlaceholder
}

// DirectPriority is the attempt order when credentials are held by the caller.
func DirectPriority() []ProviderID {
	return []ProviderID{ProviderGemini, ProviderOpenAI, ProviderDeepSeek, ProviderGLM}
}

// ServerPriority is the attempt order of the backend proxy.
func ServerPriority() []ProviderID {
	return []ProviderID{ProviderGLM, ProviderDeepSeek, ProviderOpenAI, ProviderGemini}
}

// Resolver decides which providers to try and in what order.
type Resolver struct {
	cfg      ProviderConfig
	priority []ProviderID
}

// NewResolver creates a resolver over a configuration snapshot.
func NewResolver(cfg ProviderConfig, priority []ProviderID) *Resolver {
	return &Resolver{
		cfg:      cfg,
		priority: append([]ProviderID(nil), priority...),
	}
}

// Priority returns a copy of the declared order.
func (r *Resolver) Priority() []ProviderID {
	return append([]ProviderID(nil), r.priority...)
}

// Available reports whether a provider is usable under this configuration.
func (r *Resolver) Available(id ProviderID) bool {
	return r.cfg.Available(id)
}

// Resolve returns the ordered, de-duplicated providers to try. An available
// hint goes first. ErrNoProvider is returned when nothing is configured.
func (r *Resolver) Resolve(hint ProviderID) ([]ProviderID, error) {
	var ids []ProviderID
	seen := make(map[ProviderID]bool)
	add := func(id ProviderID) {
		if seen[id] || !id.Valid() || !r.cfg.Available(id) {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if hint != "" {
		add(hint)
	}
	for _, id := range r.priority {
		add(id)
	}

	if len(ids) == 0 {
		return nil, ErrNoProvider
	}
	return ids, nil
}

// ProxyHint picks the provider hint sent to the backend proxy, which holds
// the credentials itself. Without a usable preference the first server
// priority entry is used.
func ProxyHint(preference string) ProviderID {
	if id, ok := ParseProviderID(preference); ok {
		return id
	}
	return ServerPriority()[0]
}
