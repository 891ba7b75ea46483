package game

// Rand is the subset of math/rand the selectors need. *rand.Rand satisfies
// it; tests inject a seeded source for determinism.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// pickDrawer selects the next drawer among players who have not drawn this
// rotation cycle, resetting the history once everyone has had a turn. The
// candidate set is recomputed from the current player list, so the rotation
// recovers automatically as players join and leave.
func pickDrawer(r *Room, rng Rand) {
	ids := r.playerIDs()

	drawn := make(map[string]struct{}, len(r.drawersHistory))
	for _, id := range r.drawersHistory {
		drawn[id] = struct{}{}
	}

	candidates := ids[:0:0]
	for _, id := range ids {
		if _, ok := drawn[id]; !ok {
			candidates = append(candidates, id)
		}
	}

	if len(candidates) == 0 {
		r.drawersHistory = r.drawersHistory[:0]
		candidates = ids
	}

	r.currentDrawer = candidates[rng.Intn(len(candidates))]
	r.drawersHistory = append(r.drawersHistory, r.currentDrawer)
}

// activePool draws the session's category pool: a uniform permutation of
// all catalog indices truncated to count (already clamped by the settings
// layer, but re-clamped here so callers cannot produce an unusable pool).
func activePool(catalogSize, count int, rng Rand) []int {
	lo := 3
	if catalogSize < lo {
		lo = catalogSize
	}
	count = clamp(count, lo, catalogSize)

	indices := make([]int, catalogSize)
	for i := range indices {
		indices[i] = i
	}
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices[:count]
}

// categoryChoices offers the drawer a randomized subset of the active pool,
// mapped to names. No repeats: the subset is a shuffled prefix.
func (m *Manager) categoryChoices(r *Room) []string {
	pool := make([]int, len(r.activeCategoryIndices))
	copy(pool, r.activeCategoryIndices)
	m.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	n := r.settings.TopicChoiceCount
	if n > len(pool) {
		n = len(pool)
	}

	choices := make([]string, n)
	for i := 0; i < n; i++ {
		choices[i] = m.catalog.Name(pool[i])
	}
	return choices
}
