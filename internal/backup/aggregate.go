package backup

// AggregatePrints merges the prints nested under rolls with the flat print
// list.  Nested prints are taken first in roll order, then the flat list;
// a later entry with the same id replaces an earlier one, so the flat list
// wins.  The result keeps the order in which each id was first seen and
// holds every id exactly once.
//
// A nested print without a filmRollId inherits the id of the roll it is
// nested under.
func AggregatePrints(rolls []FilmRollBackup, flat []PrintBackup) []PrintBackup {
	byID := make(map[string]PrintBackup)
	var order []string

	put := func(p PrintBackup) {
		if _, seen := byID[p.ID]; !seen {
			order = append(order, p.ID)
		}
		byID[p.ID] = p
	}

	for _, r := range rolls {
		for _, p := range r.Prints {
			if p.FilmRollID == "" {
				p.FilmRollID = r.ID
			}
			put(p)
		}
	}
	for _, p := range flat {
		put(p)
	}

	out := make([]PrintBackup, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
