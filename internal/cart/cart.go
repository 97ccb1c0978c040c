// Package cart holds the client cart: an ordered sequence of product id /
// quantity pairs kept in a single named slot, plus change notifications for
// same-process observers.
package cart

type Entry struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// AddItem merges the quantity into an existing entry for the same id, or
// appends a new entry at the end.
func AddItem(items []Entry, it Entry) []Entry {
	for i := range items {
		if items[i].ID == it.ID {
			out := make([]Entry, len(items))
			copy(out, items)
			out[i].Quantity += it.Quantity
			return out
		}
	}
	out := make([]Entry, len(items), len(items)+1)
	copy(out, items)
	return append(out, it)
}

func RemoveItem(items []Entry, id string) []Entry {
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func UpdateQuantity(items []Entry, id string, qty int) []Entry {
	out := make([]Entry, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = qty
		}
	}
	return out
}

func Count(items []Entry) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
