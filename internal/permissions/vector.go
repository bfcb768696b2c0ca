package permissions

import (
	"encoding/json"
	"sort"
)

// Vector is a total mapping from every catalog key to a boolean.
type Vector [NumKeys]bool

// FromMap left-merges named flags onto an all-false vector. Unknown names are ignored.
func FromMap(values map[string]bool) Vector {
	var v Vector
	for name, allowed := range values {
		if key, ok := Lookup(name); ok {
			v[key] = allowed
		}
	}
	return v
}

// Allows reports whether the flag for key is set.
func (v Vector) Allows(key Key) bool {
	if !key.Valid() {
		return false
	}
	return v[key]
}

// Map returns the vector keyed by stored key name.
func (v Vector) Map() map[string]bool {
	out := make(map[string]bool, NumKeys)
	for i, allowed := range v {
		out[Key(i).String()] = allowed
	}
	return out
}

// Granted lists the names of set flags in catalog order.
func (v Vector) Granted() []string {
	out := make([]string, 0, NumKeys)
	for i, allowed := range v {
		if allowed {
			out = append(out, Key(i).String())
		}
	}
	return out
}

func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromMap(raw)
	return nil
}

// Patch is a partial vector: only keys present are written.
type Patch map[Key]bool

// PatchFromMap keeps the recognised names of values.
func PatchFromMap(values map[string]bool) Patch {
	p := make(Patch, len(values))
	for name, allowed := range values {
		if key, ok := Lookup(name); ok {
			p[key] = allowed
		}
	}
	return p
}

// Full returns a patch that writes every catalog key.
func Full(v Vector) Patch {
	p := make(Patch, NumKeys)
	for i, allowed := range v {
		p[Key(i)] = allowed
	}
	return p
}

// Empty reports whether the patch sets no recognised key.
func (p Patch) Empty() bool {
	return len(p) == 0
}

// Keys returns the patched keys in catalog order.
func (p Patch) Keys() []Key {
	keys := make([]Key, 0, len(p))
	for k := range p {
		if k.Valid() {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ApplyTo returns base with the patched keys overwritten.
func (p Patch) ApplyTo(base Vector) Vector {
	for k, allowed := range p {
		if k.Valid() {
			base[k] = allowed
		}
	}
	return base
}

func (p Patch) MarshalJSON() ([]byte, error) {
	out := make(map[string]bool, len(p))
	for k, allowed := range p {
		if k.Valid() {
			out[k.String()] = allowed
		}
	}
	return json.Marshal(out)
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*p = nil
		return nil
	}
	*p = PatchFromMap(raw)
	return nil
}
