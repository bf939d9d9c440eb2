package checkpoint

import "github.com/mikey/engagement-tools/internal/dedup"

var (
	_ dedup.Store = (*JSONStore)(nil)
	_ dedup.Store = (*SQLiteStore)(nil)
)
