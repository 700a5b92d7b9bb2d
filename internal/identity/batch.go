package identity

import (
	"fmt"
	"log/slog"
	"strings"
)

// maxDedupRetries bounds the regeneration attempts per record before a
// colliding record is accepted anyway. Natural-key domains are finite,
// so uniqueness is a soft property.
const maxDedupRetries = 50

// GenerateBatch produces cfg.Count records, regenerating any record
// whose natural-key values collide with an earlier record in the same
// batch. When the retry budget runs out the record is accepted with a
// warning naming the colliding fields. There is no partial result: the
// batch either fully succeeds or returns a single error.
func (g *Generator) GenerateBatch(cfg Config) ([]Identity, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fields := cfg.EffectiveFields()

	var keys []Field
	for _, f := range naturalKeyFields {
		if fields[f] {
			keys = append(keys, f)
		}
	}
	seen := make(map[Field]map[string]bool, len(keys))
	for _, f := range keys {
		seen[f] = make(map[string]bool)
	}

	out := make([]Identity, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		var id Identity
		var collisions []string
		for attempt := 0; ; attempt++ {
			var err error
			id, err = g.Generate(cfg)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}

			collisions = collisions[:0]
			for _, f := range keys {
				if v, ok := id.Value(f); ok && seen[f][v] {
					collisions = append(collisions, string(f))
				}
			}
			if len(collisions) == 0 {
				break
			}
			if attempt >= maxDedupRetries {
				slog.Warn("accepting record with duplicate natural keys",
					"record", i,
					"fields", strings.Join(collisions, ", "))
				break
			}
		}

		for _, f := range keys {
			if v, ok := id.Value(f); ok {
				seen[f][v] = true
			}
		}
		out = append(out, id)
	}
	return out, nil
}
