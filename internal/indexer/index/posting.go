package index

// PostingSet is the set of document IDs that contain a term. IDs are kept
// in insertion order so that iteration is deterministic.
type PostingSet struct {
	ids     []string
	members map[string]struct{}
}

func NewPostingSet(ids ...string) *PostingSet {
	p := &PostingSet{
		ids:     make([]string, 0, len(ids)),
		members: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		p.Add(id)
	}
	return p
}

// Add inserts id and reports whether it was not already present.
func (p *PostingSet) Add(id string) bool {
	if _, exists := p.members[id]; exists {
		return false
	}
	p.members[id] = struct{}{}
	p.ids = append(p.ids, id)
	return true
}

func (p *PostingSet) Contains(id string) bool {
	if p == nil {
		return false
	}
	_, ok := p.members[id]
	return ok
}

func (p *PostingSet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ids)
}

// IDs returns a copy of the IDs in insertion order.
func (p *PostingSet) IDs() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.ids))
	copy(out, p.ids)
	return out
}

// Equal reports whether both sets hold the same IDs, ignoring order.
func (p *PostingSet) Equal(other *PostingSet) bool {
	if p.Len() != other.Len() {
		return false
	}
	for _, id := range p.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// TermEntry pairs a term with its postings for serialisation.
type TermEntry struct {
	Term     string
	Postings []string
}
