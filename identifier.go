package botifactory

import "strconv"

// Reserved release names resolved by the server against a channel.
const (
	LatestName   = "latest"
	PreviousName = "previous"
)

type identifierKind uint8

const (
	kindUnset identifierKind = iota
	kindName
	kindID
)

// Identifier addresses a channel or release either by name or by numeric id.
// The zero Identifier is neither and every operation rejects it with
// [ErrInvalidIdentifier].
type Identifier struct {
	kind identifierKind
	name string
	id   int64
}

// ByName returns an Identifier that addresses a resource by name.
func ByName(name string) Identifier {
	return Identifier{kind: kindName, name: name}
}

// ByID returns an Identifier that addresses a resource by its numeric id.
func ByID(id int64) Identifier {
	return Identifier{kind: kindID, id: id}
}

// Name reports the name held by i and whether i is a name identifier.
func (i Identifier) Name() (string, bool) {
	return i.name, i.kind == kindName
}

// ID reports the id held by i and whether i is an id identifier.
func (i Identifier) ID() (int64, bool) {
	return i.id, i.kind == kindID
}

// IsZero reports whether i is the unset Identifier.
func (i Identifier) IsZero() bool {
	return i.kind == kindUnset
}

func (i Identifier) String() string {
	switch i.kind {
	case kindName:
		return "name:" + i.name
	case kindID:
		return "id:" + strconv.FormatInt(i.id, 10)
	default:
		return "unset"
	}
}
