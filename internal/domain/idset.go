package domain

import "slices"

// IDSet is an ordered set of record ids. Every "favorite", "registered" and
// "saved" flag shown to a user is derived from one of these by membership.
// Operations return a new set and leave the receiver untouched.
type IDSet []int

func (s IDSet) Has(id int) bool {
	return slices.Contains(s, id)
}

func (s IDSet) With(id int) IDSet {
	if s.Has(id) {
		return slices.Clone(s)
	}

	out := make(IDSet, len(s), len(s)+1)
	copy(out, s)

	return append(out, id)
}

func (s IDSet) Without(id int) IDSet {
	out := make(IDSet, 0, len(s))
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}

	return out
}

func (s IDSet) Toggle(id int) IDSet {
	if s.Has(id) {
		return s.Without(id)
	}

	return s.With(id)
}

// Set applies the desired membership of id.
func (s IDSet) Set(id int, member bool) IDSet {
	if member {
		return s.With(id)
	}

	return s.Without(id)
}
