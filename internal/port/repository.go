package port

// Repository is a keyed store of entities. The key of an entity is derived
// by the implementation; callers never pass it alongside the entity.
type Repository[E any, K comparable] interface {
	// Save inserts or overwrites the entity stored under its key.
	Save(entity *E) (*E, error)

	// SaveAll saves every entity or none of them.
	SaveAll(entities []*E) ([]*E, error)

	FindByID(id K) (*E, bool)
	ExistsByID(id K) bool

	// FindAll returns all entities in no particular order.
	FindAll() []*E

	// FindAllByID skips ids that are not present.
	FindAllByID(ids []K) []*E

	Count() int

	// Deleting something that is not stored is a no-op.
	DeleteByID(id K)
	Delete(entity *E) error
	DeleteAllByID(ids []K)
	DeleteAll(entities []*E) error

	// Clear removes every entity.
	Clear()
}
