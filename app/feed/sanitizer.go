package feed

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy     *bluemonday.Policy
	ugcPolicyOnce sync.Once
)

// SanitizeHTML cleans a description fragment for clients that embed it.
// Links are forced to open in a new browsing context.
func SanitizeHTML(fragment string) string {
	ugcPolicyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoReferrerOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		ugcPolicy = p
	})
	return ugcPolicy.Sanitize(fragment)
}
