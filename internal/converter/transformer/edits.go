package transformer

import (
	"sort"

	"pyback/pybackerr"
)

// Edit is a single byte-range replacement against the source. An Edit with
// Start == End is an insertion.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}

// ApplyRound applies as many of the given rewrites as can coexist without
// touching overlapping byte ranges and returns the edited source plus the
// facts of the rewrites that were applied.
//
// When match sites nest (a union inside a generic header, a walrus inside a
// walrus), the inner rewrite wins the round and the outer one is deferred:
// the caller re-scans the edited source, where the outer construct matches
// again with already-simplified contents.
func ApplyRound(src []byte, rewrites []Rewrite) ([]byte, Facts, error) {
	ordered := make([]Rewrite, len(rewrites))
	copy(ordered, rewrites)
	sort.SliceStable(ordered, func(i, j int) bool {
		si := ordered[i].End - ordered[i].Start
		sj := ordered[j].End - ordered[j].Start
		if si != sj {
			return si < sj
		}
		return ordered[i].Start < ordered[j].Start
	})

	var facts Facts
	var accepted []span
	type seqEdit struct {
		Edit
		site uint32
		seq  int
	}
	var edits []seqEdit
	applied := 0
	for _, rw := range ordered {
		if conflicts(rw.Edits, accepted) {
			continue
		}
		for _, e := range rw.Edits {
			edits = append(edits, seqEdit{Edit: e, site: rw.Start, seq: len(edits)})
			if e.Start < e.End {
				accepted = append(accepted, span{e.Start, e.End})
			}
		}
		facts.Merge(Facts{NeedsTyping: rw.NeedsTyping})
		applied++
	}
	if applied == 0 {
		// Innermost rewrites never conflict with anything, so an empty round
		// with pending matches is an internal invariant violation.
		return nil, facts, pybackerr.NewUnparseError("no applicable rewrite in a round with pending matches")
	}

	// Insertions at the same offset keep the order of their match sites so
	// hoisted statements follow source evaluation order.
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		ii, ij := edits[i].Start == edits[i].End, edits[j].Start == edits[j].End
		if ii != ij {
			return ii
		}
		if edits[i].site != edits[j].site {
			return edits[i].site < edits[j].site
		}
		return edits[i].seq < edits[j].seq
	})

	out := make([]byte, 0, len(src))
	pos := uint32(0)
	for _, e := range edits {
		if e.Start < pos || e.End > uint32(len(src)) {
			return nil, facts, pybackerr.NewUnparseError("overlapping edits")
		}
		out = append(out, src[pos:e.Start]...)
		out = append(out, e.Text...)
		pos = e.End
	}
	out = append(out, src[pos:]...)
	return out, facts, nil
}

type span struct {
	start, end uint32
}

func conflicts(edits []Edit, accepted []span) bool {
	for _, e := range edits {
		for _, s := range accepted {
			if e.Start < e.End {
				if e.Start < s.end && s.start < e.End {
					return true
				}
			} else if s.start < e.Start && e.Start < s.end {
				return true
			}
		}
	}
	return false
}
