package ecs

import (
	xr "github.com/pmndrs/xr-sub001"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for xr pointer events.
var InteractionEventType = events.NewEventType[xr.InteractionEvent]()

// NodeComponent holds the scene node paired with an entity.
var NodeComponent = donburi.NewComponentType[NodeRef]()

// NodeRef points from an entity back to its scene node.
type NodeRef struct {
	Node *xr.Node
}

// DonburiStore is an xr.EntityStore backed by a Donburi world.
type DonburiStore struct {
	world    donburi.World
	nextID   uint32
	entities map[uint32]donburi.Entity
}

// NewDonburiStore creates a store publishing to world. Interaction events
// are queued on InteractionEventType and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, entities: make(map[uint32]donburi.Entity)}
}

// EmitEvent publishes event to the world.
func (s *DonburiStore) EmitEvent(event xr.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Attach creates an entity carrying a NodeComponent for node and assigns the
// node a fresh EntityID, so events on it reach the world.
func (s *DonburiStore) Attach(node *xr.Node) donburi.Entity {
	if node == nil {
		panic("xr/ecs: cannot attach nil node")
	}
	entity := s.world.Create(NodeComponent)
	NodeComponent.SetValue(s.world.Entry(entity), NodeRef{Node: node})
	s.nextID++
	node.EntityID = s.nextID
	s.entities[s.nextID] = entity
	return entity
}

// Detach removes the entity paired with node and clears its EntityID.
func (s *DonburiStore) Detach(node *xr.Node) {
	entity, ok := s.entities[node.EntityID]
	if !ok {
		return
	}
	delete(s.entities, node.EntityID)
	node.EntityID = 0
	if s.world.Valid(entity) {
		s.world.Remove(entity)
	}
}

// Entity returns the entity for an event's EntityID.
func (s *DonburiStore) Entity(id uint32) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// NodeOf returns the node paired with entity, or nil.
func (s *DonburiStore) NodeOf(entity donburi.Entity) *xr.Node {
	if !s.world.Valid(entity) {
		return nil
	}
	entry := s.world.Entry(entity)
	if !entry.HasComponent(NodeComponent) {
		return nil
	}
	return NodeComponent.Get(entry).Node
}

var _ xr.EntityStore = (*DonburiStore)(nil)
