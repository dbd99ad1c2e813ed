package globe

import "time"

// debugLog reports the stats of one render pass.
func (g *Globe) debugLog(stats RenderStats, took time.Duration) {
	if !g.debug {
		return
	}
	v := g.view.Snapshot()
	g.log.Debug("render",
		"took", took,
		"features", stats.Features,
		"rings", stats.Rings,
		"skipped_rings", stats.SkippedRings,
		"subpaths", stats.Subpaths,
		"rot_x", v.RotationX,
		"rot_y", v.RotationY,
		"zoom", v.Zoom,
		"tasks", g.sched.Len(),
	)
	if stats.SkippedRings > 0 {
		g.log.Warn("degenerate rings skipped", "count", stats.SkippedRings)
	}
}
