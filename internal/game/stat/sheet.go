package stat

// SheetEntry declares one stat with its initial base value and range.
// A nil Range means unbounded.
type SheetEntry struct {
	Stat    *Stat
	Initial float64
	Range   *Range
}

// Sheet is a layered stat definition. Entries declared directly on a sheet
// take priority over entries inherited from Parents.
type Sheet struct {
	Name    string
	Entries []SheetEntry
	Parents []*Sheet
}

// Walk visits the sheet's own entries, then each parent depth-first in
// declared order. A sheet reachable through several paths (or a cycle) is
// visited once.
func (sh *Sheet) Walk(fn func(SheetEntry)) {
	walkSheet(sh, fn, make(map[*Sheet]bool))
}

func walkSheet(sh *Sheet, fn func(SheetEntry), visited map[*Sheet]bool) {
	if sh == nil || visited[sh] {
		return
	}
	visited[sh] = true

	for _, e := range sh.Entries {
		if e.Stat != nil {
			fn(e)
		}
	}
	for _, p := range sh.Parents {
		walkSheet(p, fn, visited)
	}
}
