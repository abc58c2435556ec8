package types

// HierarchyType is the conceptual union of a class and all of its (currently
// known) transitive subclasses. Exactly one HierarchyType exists per root
// class; Module.HierarchyOf caches it on the ObjectType itself so repeated
// requests return the same pointer.
type HierarchyType struct {
	Root *ObjectType
}

func (h *HierarchyType) typeMarker() {}

func (h *HierarchyType) String() string {
	return "hierarchy(" + h.Root.Name + ")"
}
