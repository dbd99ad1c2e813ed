// Package globe is an interactive orthographic globe for [Ebitengine].
//
// It projects GeoJSON country boundaries onto a rotating, zoomable sphere,
// maps pointer positions back to coordinates for hover and click detection,
// and turns mouse, touch and wheel input into rotation and zoom with
// momentum.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	g := globe.NewGlobe(globe.Options{Width: 1024, Height: 768})
//	g.SetFeatures(globe.LoadFeaturesOrFallback("countries.geojson", nil))
//	g.OnFeatureClick(func(ctx globe.FeatureClickContext) {
//		fmt.Println("clicked", ctx.Feature.Name)
//	})
//	globe.Run(g, globe.RunConfig{Title: "Globe", Width: 1024, Height: 768})
//
// [Globe] implements [ebiten.Game], so it can also be embedded in a host
// game by forwarding Update, Draw and Layout.
//
// # Projection
//
// [Project] maps a coordinate to the screen for a [View]; [Unproject] maps a
// screen point back. The view rotates about the X axis first and then the Y
// axis, and the inverse undoes them in the opposite order. [HitTest]
// combines the two with [PointInFeature].
//
// # Rendering
//
// Rendering is on demand. [ViewState] carries a dirty flag that every
// visible mutation sets; [Globe.Draw] repaints its cached frame only when the
// flag is set and otherwise just blits the cache. The [Renderer] itself is a
// plain function of a [Frame] and draws onto any [Canvas].
//
// # Animation
//
// Inertia, fly-to and the plane route are independent [Task] values run by
// one [Scheduler] ticked from Update. Each start returns a [TaskHandle] whose
// Cancel stops the task before its next step.
//
// # Events
//
// Register callbacks with [Globe.OnClick], [Globe.OnFeatureClick],
// [Globe.OnHoverChange] and [Globe.OnViewChange]; each returns a
// [CallbackHandle] for removal. An [EventSink] receives the same events in
// flat form, see the ecs package for a [Donburi] bridge.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package globe
