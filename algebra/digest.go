package algebra

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Digest fingerprints the exact forms of ids: the tower generators and the
// solved coordinates of every listed point. Two sets built for the same
// structure agree on Digest exactly when a verdict over ids carries over,
// so a rebuild that picks another root changes it.
func (cs *ConstraintSet) Digest(ids ...string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	key := strings.Join(sorted, ",")
	if cs.digests != nil {
		if d, ok := cs.digests.Load(key); ok {
			return d.(string)
		}
	}
	h := sha256.New()
	for _, r := range cs.field.Describe() {
		h.Write([]byte(r))
		h.Write([]byte{'\n'})
	}
	for _, id := range sorted {
		h.Write([]byte(id))
		for _, c := range []string{"x_", "y_"} {
			h.Write([]byte{'|'})
			if x, ok := cs.solved[c+id]; ok {
				h.Write([]byte(cs.field.Format(x)))
			} else {
				h.Write([]byte{'?'})
			}
		}
		h.Write([]byte{'\n'})
	}
	d := hex.EncodeToString(h.Sum(nil))[:16]
	if cs.digests != nil {
		cs.digests.Store(key, d)
	}

	return d
}
