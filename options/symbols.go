package options

import (
	"maps"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

var symbols = struct {
	sync.RWMutex
	m map[string]cty.Value
}{m: make(map[string]cty.Value)}

// RegisterSymbols makes names usable in directive expressions, both bare
// (Euler) and qualified by set (QuatDisplay.Euler). Symbols evaluate to
// their name and are decoded by the record field's UnmarshalText.
func RegisterSymbols(set string, names ...string) {
	symbols.Lock()
	defer symbols.Unlock()

	attrs := make(map[string]cty.Value, len(names))
	for _, n := range names {
		attrs[n] = cty.StringVal(n)
		symbols.m[n] = cty.StringVal(n)
	}

	if prev, ok := symbols.m[set]; ok && prev.Type().IsObjectType() {
		for k, v := range prev.AsValueMap() {
			if _, dup := attrs[k]; !dup {
				attrs[k] = v
			}
		}
	}

	symbols.m[set] = cty.ObjectVal(attrs)
}

// Symbols returns the variables available to directive expressions.
func Symbols() map[string]cty.Value {
	symbols.RLock()
	defer symbols.RUnlock()

	return maps.Clone(symbols.m)
}
