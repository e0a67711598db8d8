package lockdrop

// AuthoritySet is the ordered list of current authorities. The position of an
// authority is its AuthorityIndex, so indices are only meaningful for the set
// they were taken from.
type AuthoritySet []AuthorityID

// IndexOf finds an authority by linear scan. The set is sized by the session
// mechanism and stays small, at most 2^16 entries by the index type.
func (s AuthoritySet) IndexOf(id AuthorityID) (AuthorityIndex, bool) {
	for i, elem := range s {
		if elem == id {
			return AuthorityIndex(i), true
		}
	}
	return 0, false
}

// At returns the authority at index i.
func (s AuthoritySet) At(i AuthorityIndex) (AuthorityID, bool) {
	if int(i) >= len(s) {
		return AuthorityID{}, false
	}
	return s[i], true
}
