package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VariationSelection picks exactly one option from a variation group.
type VariationSelection struct {
	VariationID      uuid.UUID `json:"variation_id"`
	SelectedOptionID uuid.UUID `json:"selected_option_id"`
}

// AddOnSelection picks zero or more options from an add-on group.
type AddOnSelection struct {
	AddOnID           uuid.UUID   `json:"add_on_id"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids"`
}

// Selections is the full selection set attached to a cart item. Two sets are
// equal iff their normalized serializations are identical.
type Selections struct {
	Variations []VariationSelection `json:"variations,omitempty"`
	AddOns     []AddOnSelection     `json:"add_ons,omitempty"`
}

// Normalized returns a copy with variations sorted by variation id and
// add-ons sorted by add-on id, each add-on's option list sorted.
func (s Selections) Normalized() Selections {
	out := Selections{}
	if len(s.Variations) > 0 {
		out.Variations = make([]VariationSelection, len(s.Variations))
		copy(out.Variations, s.Variations)
		sort.Slice(out.Variations, func(i, j int) bool {
			return out.Variations[i].VariationID.String() < out.Variations[j].VariationID.String()
		})
	}
	if len(s.AddOns) > 0 {
		out.AddOns = make([]AddOnSelection, len(s.AddOns))
		for i, a := range s.AddOns {
			ids := make([]uuid.UUID, len(a.SelectedOptionIDs))
			copy(ids, a.SelectedOptionIDs)
			sort.Slice(ids, func(x, y int) bool { return ids[x].String() < ids[y].String() })
			out.AddOns[i] = AddOnSelection{AddOnID: a.AddOnID, SelectedOptionIDs: ids}
		}
		sort.Slice(out.AddOns, func(i, j int) bool {
			return out.AddOns[i].AddOnID.String() < out.AddOns[j].AddOnID.String()
		})
	}
	return out
}

// Hash returns the sha256 hex digest of the normalized serialization. It is
// the last component of the cart line uniqueness tuple.
func (s Selections) Hash() string {
	raw, _ := json.Marshal(s.Normalized())
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// JSON serializes the normalized set for storage.
func (s Selections) JSON() (datatypes.JSON, error) {
	raw, err := json.Marshal(s.Normalized())
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ParseSelections decodes a stored selection set. An empty column is an empty
// set, not an error.
func ParseSelections(raw datatypes.JSON) (Selections, error) {
	var s Selections
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Selections{}, err
	}
	return s, nil
}
