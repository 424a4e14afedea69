package anthropic

// SystemCacheTTL is the cache lifetime for the scoring rubric. Renders
// arrive minutes apart, so the short ephemeral window is enough.
const SystemCacheTTL = "5m"

// BuildCachedSystemBlocks wraps a system prompt in a single block with a
// cache breakpoint so repeated scoring calls reuse the cached rubric.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	if text == "" {
		return nil
	}
	return []SystemBlock{
		{
			Text: text,
			CacheControl: &CacheControl{
				TTL: SystemCacheTTL,
			},
		},
	}
}
