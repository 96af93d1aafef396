// Package ecs bridges xr pointer events into an ECS world.
//
// The adapter is [NewDonburiStore], which publishes every pointer event
// dispatched to a node with an EntityID into a [Donburi] world as a typed
// event. Subscribe to [InteractionEventType] in your ECS systems to receive
// them, and use [DonburiStore.Attach] to pair nodes with entities.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	entity := store.Attach(node)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
