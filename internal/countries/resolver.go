package countries

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Set is an immutable set of alpha-2 codes.
type Set struct {
	codes map[string]struct{}
}

// NewSet validates and upper-cases codes. Every invalid entry is reported.
func NewSet(codes ...string) (Set, error) {
	s := Set{codes: make(map[string]struct{}, len(codes))}
	errs := new(multierror.Error)
	for i, c := range codes {
		code, ok := normalizeCode(c)
		if !ok {
			errs.Errors = append(errs.Errors, fmt.Errorf("visited[%d]: %q is not a two-letter country code", i, c))
			continue
		}
		s.codes[code] = struct{}{}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Has reports membership; lookups are case-insensitive.
func (s Set) Has(code string) bool {
	code, ok := normalizeCode(code)
	if !ok {
		return false
	}
	_, found := s.codes[code]
	return found
}

func (s Set) Len() int { return len(s.codes) }

// Codes returns the members sorted.
func (s Set) Codes() []string {
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Resolver joins native dataset identifiers to alpha-2 codes and the visited
// set. It is read-only after construction and safe for concurrent use.
type Resolver struct {
	aliases map[string]string
	visited Set
}

// NewResolver builds a resolver over aliases (nil selects DefaultAliases).
// Alias keys are normalised with NormalizeID.
func NewResolver(aliases map[string]string, visited Set) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	r := &Resolver{aliases: make(map[string]string, len(aliases)), visited: visited}
	for k, v := range aliases {
		r.aliases[NormalizeID(k)] = v
	}
	return r
}

// Resolve looks up the alpha-2 code of a native identifier. Unmapped
// identifiers return ok == false.
func (r *Resolver) Resolve(nativeID string) (string, bool) {
	id := NormalizeID(nativeID)
	if id == "" {
		return "", false
	}
	code, ok := r.aliases[id]
	return code, ok
}

// IsVisited reports whether code is in the visited set.
func (r *Resolver) IsVisited(code string) bool {
	return r.visited.Has(code)
}

// Classify resolves nativeID and classifies the result. Unresolved ids are
// reported as ("", false).
func (r *Resolver) Classify(nativeID string) (code string, visited bool) {
	code, ok := r.Resolve(nativeID)
	if !ok {
		return "", false
	}
	return code, r.IsVisited(code)
}

// Visited returns the visited set the resolver classifies against.
func (r *Resolver) Visited() Set { return r.visited }

// WithVisited returns a resolver sharing the alias table with a new visited set.
func (r *Resolver) WithVisited(visited Set) *Resolver {
	return &Resolver{aliases: r.aliases, visited: visited}
}

// MergeAliases overlays extra entries on base and returns a new map. Every
// entry whose code is not two letters is reported.
func MergeAliases(base, extra map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[NormalizeID(k)] = v
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	errs := new(multierror.Error)
	for _, k := range keys {
		code, ok := normalizeCode(extra[k])
		if !ok || NormalizeID(k) == "" {
			errs.Errors = append(errs.Errors, fmt.Errorf("alias %q -> %q: invalid entry", k, extra[k]))
			continue
		}
		out[NormalizeID(k)] = code
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
