package enrichment

import (
	"time"

	"pcenrich/domain/core"
)

// Run records a completed enrichment computation together with the options
// that produced it, for persistence and later retrieval.
type Run struct {
	ID        core.RunID `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Options   Options    `json:"options"`
	Result    *Result    `json:"result"`
}
