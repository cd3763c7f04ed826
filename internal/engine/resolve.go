package engine

import "context"

// Link Resolver — best-effort video lookup for the final recommendation.
// Failures are logged to the invocation buffer and otherwise silent; the
// pipeline returns an absent link rather than aborting.

func (p *Pipeline) resolveVideo(ctx context.Context, recommendation string, buf *LogBuffer) *VideoLink {
	if p.cfg.VideoSearch == nil {
		return nil
	}
	metrics.VideoSearches.Add(1)
	link, err := p.cfg.VideoSearch.TopVideo(ctx, recommendation)
	if err != nil {
		metrics.VideoSearchErrors.Add(1)
		buf.Logf("Video lookup failed: %v", err)
		return nil
	}
	if link == nil {
		buf.Logf("No video match for recommendation")
		return nil
	}
	return link
}
