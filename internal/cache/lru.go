// File path: internal/cache/lru.go
package cache

import "container/list"

// ageIndex tracks cache entries in acquisition order so the oldest entry
// can be found and removed in O(1), independent of manifest map iteration
// order. Unlike a recency cache, lookups never reorder the list: eviction
// is driven purely by downloadedAt, not by access.
type ageIndex struct {
	items map[string]*list.Element
	order *list.List
}

func newAgeIndex() *ageIndex {
	return &ageIndex{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// touch records hash as the newest entry, moving it to the back if already
// present (a re-download of an existing hash refreshes its position).
func (a *ageIndex) touch(hash string) {
	if elem, ok := a.items[hash]; ok {
		a.order.MoveToBack(elem)
		return
	}
	elem := a.order.PushBack(hash)
	a.items[hash] = elem
}

// remove drops hash from the index.
func (a *ageIndex) remove(hash string) {
	if elem, ok := a.items[hash]; ok {
		a.order.Remove(elem)
		delete(a.items, hash)
	}
}

// oldest returns the hash of the least-recently-acquired entry still in the
// index, and false if the index is empty.
func (a *ageIndex) oldest() (string, bool) {
	front := a.order.Front()
	if front == nil {
		return "", false
	}
	hash, ok := front.Value.(string)
	return hash, ok
}

// len reports how many entries the index currently tracks.
func (a *ageIndex) len() int {
	return a.order.Len()
}
