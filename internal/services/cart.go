package services

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// Cart maps product ids to quantities. It lives in the browser session and is
// copied verbatim into checkout metadata, so its encoding must stay stable.
type Cart map[uuid.UUID]int

func DecodeCart(raw string) (Cart, error) {
	cart := Cart{}
	if raw == "" {
		return cart, nil
	}
	var wire map[string]int
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, pkgerrors.Wrap(err, "decode cart")
	}
	for key, qty := range wire {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "decode cart key %q", key)
		}
		if qty > 0 {
			cart[id] = qty
		}
	}
	return cart, nil
}

// Encode writes {"<product id>": qty, ...} with keys in sorted order.
func (c Cart) Encode() string {
	wire := make(map[string]int, len(c))
	for id, qty := range c {
		wire[id.String()] = qty
	}
	b, _ := json.Marshal(wire)
	return string(b)
}

// Add increments the quantity of id by qty.
func (c Cart) Add(id uuid.UUID, qty int) {
	if qty < 1 {
		return
	}
	c[id] += qty
}

// Set stores qty for id; a non-positive quantity removes the line.
func (c Cart) Set(id uuid.UUID, qty int) {
	if qty <= 0 {
		delete(c, id)
		return
	}
	c[id] = qty
}

func (c Cart) Remove(id uuid.UUID) {
	delete(c, id)
}

func (c Cart) Clear() {
	for id := range c {
		delete(c, id)
	}
}

func (c Cart) Size() int {
	return len(c)
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Fits reports whether the encoded cart still fits in one checkout's metadata.
func (c Cart) Fits() bool {
	return len(c.Encode()) <= maxMetadataValueLength
}

// ProductIDs returns the cart keys in a stable order.
func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
