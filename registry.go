package grove

// ID identifies a resource. Ids are issued in strictly increasing order and
// are never reused; 0 is never issued and means "no resource".
type ID uint32

// NoID is the zero ID.
const NoID ID = 0

// Selects reports whether inst is the instance with this id, so an ID can be
// passed anywhere a Selector is accepted.
func (id ID) Selects(inst *Instance) bool {
	return inst != nil && inst.id == id
}

// Resource is any engine object with a globally unique id.
type Resource interface {
	ID() ID
	Name() string
}

// Registry allocates ids and maps them back to live resources. Holding an id
// does not keep a resource alive: once removed, Find reports not found and
// callers holding the id must re-check before use.
//
// A Registry is owned by a Game; it is not safe for concurrent use.
type Registry struct {
	nextID    ID
	resources map[ID]Resource
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[ID]Resource, 256)}
}

// AllocID returns the next id. Ids are never handed out twice, even after the
// resource holding one has been removed.
func (r *Registry) AllocID() ID {
	r.nextID++
	return r.nextID
}

// Register makes res discoverable by its id. Registering nil is a no-op.
func (r *Registry) Register(res Resource) {
	if res == nil || res.ID() == NoID {
		return
	}
	r.resources[res.ID()] = res
}

// Find returns the resource registered under id.
func (r *Registry) Find(id ID) (Resource, bool) {
	res, ok := r.resources[id]
	return res, ok
}

// Remove forgets id. Removing an unknown or already removed id is a no-op.
func (r *Registry) Remove(id ID) {
	delete(r.resources, id)
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	return len(r.resources)
}

// clear drops every resource. The id counter keeps counting.
func (r *Registry) clear() {
	r.resources = make(map[ID]Resource, 256)
}
