// Package xr is a spatial pointer-interaction core for 3D scenes.
//
// It hit-tests a scene graph with rays, spheres, polylines and camera
// screen rays, runs one state machine per input device that synthesizes
// DOM-style pointer events with bubbling and capture, and arbitrates between
// several pointers of one input source. The [handle] sub-package turns those
// events into constrained transform edits, and [screen] builds orbit, pan and
// zoom camera rigs on top of it. The [input] sub-package polls mouse, wheel
// and touch state once per frame and drives one pointer per device.
//
// # Quick start
//
//	scene := xr.NewScene()
//	box := xr.NewMesh("box", xr.NewHitBox(1, 1, 1))
//	box.SetPosition(0, 0, -5)
//	scene.Root().AddChild(box)
//
//	box.AddEventListener(xr.EventClick, func(e *xr.PointerEvent) {
//		fmt.Println("clicked at", e.Point())
//	})
//
//	cam := xr.NewCamera(xr.Rect{Width: 640, Height: 480})
//	mouse := xr.NewPointer(scene, xr.PointerTypeMouse,
//		xr.NewScreenRayIntersector(cam), xr.PointerOptions{})
//
//	// once per frame and per host event:
//	mouse.Move(xr.NativeEvent{ScreenX: ndcX, ScreenY: ndcY})
//	mouse.Down(xr.NativeEvent{Button: xr.ButtonPrimary})
//	mouse.Up(xr.NativeEvent{Button: xr.ButtonPrimary})
//
// # Scene graph
//
// Every hit-testable element is a [Node] with a local [Shape]. Nodes form a
// tree rooted at [Scene.Root]; world matrices are cached and recomputed when
// a transform setter or [Node.MarkDirty] marks a subtree dirty.
//
// [Node.PointerEvents] decides whether a node is hit-tested. By default nodes
// inherit [PointerEventsListener], so only nodes that (or whose ancestors)
// listen for pointer events are hit. When nothing is hit, the intersection
// targets [Scene.Void] at distance +Inf, and events on it bubble to the root.
//
// # Events
//
// [Pointer.Commit] emits out, leave, over, enter and move in that order.
// Down and up on the same target produce click, a second click within the
// double click threshold produces dblclick, and the context menu button
// produces contextmenu instead of click. A listener may call
// [PointerEvent.SetPointerCapture]; until the pointer is released its
// intersection is recomputed against the captured node only.
//
// # Logging
//
// Nothing is logged by default. Pass a [log/slog.Logger] to [SetLogger] to
// see capture changes and, with [Scene.SetDebugMode], per-frame statistics.
//
// # ECS
//
// [Scene.SetEntityStore] forwards every dispatched event whose target has an
// EntityID; the xr/ecs module adapts it to Donburi.
//
// [handle]: https://pkg.go.dev/github.com/pmndrs/xr-sub001/handle
// [screen]: https://pkg.go.dev/github.com/pmndrs/xr-sub001/screen
// [input]: https://pkg.go.dev/github.com/pmndrs/xr-sub001/input
package xr
