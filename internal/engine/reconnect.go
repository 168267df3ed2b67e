package engine

// CacheEntry remembers what a departed player gets back if they rejoin under
// the exact same display name before the room empties.
type CacheEntry struct {
	Score   int
	WasHost bool
}

// cacheOnDisconnect stores or overwrites the entry for that exact name.
func (s *State) cacheOnDisconnect(name string, score int, wasHost bool) {
	s.Cache[name] = CacheEntry{Score: score, WasHost: wasHost}
}

// restoreFromCache looks up and consumes the entry for the given name. Each
// entry restores at most one rejoin.
func (s *State) restoreFromCache(name string) (CacheEntry, bool) {
	entry, ok := s.Cache[name]
	if ok {
		delete(s.Cache, name)
	}
	return entry, ok
}
