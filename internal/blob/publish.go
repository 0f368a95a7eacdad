package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/roach88/ffbuilder/internal/artifact"
)

// Publish writes every artifact of set under <prefix>/<buildID>/<file name>.
// The artifact key and digest travel as object metadata. On the first
// failure Publish stops; objects already written are left in place.
func (t *Target) Publish(ctx context.Context, buildID string, set *artifact.Set) ([]Info, error) {
	if buildID == "" {
		return nil, fmt.Errorf("publish: build id required")
	}
	infos := make([]Info, 0, set.Len())
	for _, a := range set.All() {
		info, err := t.Store.Put(ctx, t.Key(buildID, a.FileName), bytes.NewReader(a.Content), PutOptions{
			ContentType: "text/plain; charset=utf-8",
			Metadata: map[string]string{
				"artifact-key":    a.Key,
				"artifact-digest": a.Digest,
			},
		})
		if err != nil {
			return infos, fmt.Errorf("publish %s: %w", a.FileName, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
