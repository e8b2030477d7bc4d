// Package catalog maps between the stable, cross-session wire type names a
// converter is written against and the numeric OIDs PostgreSQL actually puts
// on the wire for a given session.
package catalog

import (
	"fmt"
	"sync"

	"github.com/lib/pq/oid"

	"github.com/outrigger-db/pgparam/pgerr"
)

// WireTypeName is the canonical, session-independent identity of a
// PostgreSQL wire type, e.g. "int4" or "_int4" for its array form.
type WireTypeName string

// OID is the per-session numeric handle PostgreSQL assigns a wire type.
// Converters must never cache an OID across sessions.
type OID uint32

// WireTypeID is either a WireTypeName or an OID. Exactly one of the two is
// set; the byOID discriminant decides which one is used.
type WireTypeID struct {
	name WireTypeName
	oid  OID
	byOID bool
}

// ByName constructs a WireTypeID carrying a stable name.
func ByName(name WireTypeName) WireTypeID {
	return WireTypeID{name: name}
}

// ByOID constructs a WireTypeID carrying a raw per-session OID.
func ByOID(id OID) WireTypeID {
	return WireTypeID{oid: id, byOID: true}
}

// IsOID reports whether this identity was constructed from a raw OID rather
// than a name.
func (w WireTypeID) IsOID() bool { return w.byOID }

// OIDValue returns the raw OID this identity carries and true, or (0,
// false) if it was constructed from a name instead.
func (w WireTypeID) OIDValue() (OID, bool) { return w.oid, w.byOID }

// NameValue returns the name this identity carries and true, or ("",
// false) if it was constructed from a raw OID instead.
func (w WireTypeID) NameValue() (WireTypeName, bool) { return w.name, !w.byOID }

func (w WireTypeID) String() string {
	if w.byOID {
		return fmt.Sprintf("oid:%d", w.oid)
	}
	return string(w.name)
}

// TypeCatalog is the bidirectional WireTypeName <-> OID mapping populated
// during session handshake, plus the element-to-array lookup used by the
// array converter factory. It is read-only after handshake and safe for
// concurrent reads; RegisterType/RegisterArray are expected to run only
// during catalog construction.
type TypeCatalog struct {
	mu          sync.RWMutex
	nameToOID   map[WireTypeName]OID
	oidToName   map[OID]WireTypeName
	elemToArray map[WireTypeName]WireTypeName
}

// New returns a catalog pre-seeded with PostgreSQL's built-in type OIDs,
// sourced from lib/pq's oid table.
func New() *TypeCatalog {
	c := &TypeCatalog{
		nameToOID:   make(map[WireTypeName]OID, len(builtinOIDs)),
		oidToName:   make(map[OID]WireTypeName, len(builtinOIDs)),
		elemToArray: make(map[WireTypeName]WireTypeName, len(builtinArrays)),
	}

	for name, id := range builtinOIDs {
		c.nameToOID[name] = id
		c.oidToName[id] = name
	}

	for elem, arr := range builtinArrays {
		c.elemToArray[elem] = arr
	}

	return c
}

// RegisterType adds or overrides a name <-> OID pair, as would happen when a
// session's pg_type catalog assigns non-builtin OIDs (extension types).
func (c *TypeCatalog) RegisterType(name WireTypeName, id OID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nameToOID[name] = id
	c.oidToName[id] = name
}

// RegisterArray records that elem's array wire type is named arr.
func (c *TypeCatalog) RegisterArray(elem, arr WireTypeName) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.elemToArray[elem] = arr
}

// OIDOf resolves id against the session map. A WireTypeID already carrying
// an OID passes through unchanged.
func (c *TypeCatalog) OIDOf(id WireTypeID) (OID, error) {
	if id.byOID {
		return id.oid, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if found, ok := c.nameToOID[id.name]; ok {
		return found, nil
	}

	return 0, pgerr.WithKind(
		pgerr.WithWireType(fmt.Errorf("unknown wire type %q", id.name), string(id.name)),
		pgerr.KindUnknownType,
	)
}

// NameOf reverse-looks-up the stable name for an OID.
func (c *TypeCatalog) NameOf(id OID) (WireTypeName, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if name, ok := c.oidToName[id]; ok {
		return name, nil
	}

	return "", pgerr.WithKind(
		fmt.Errorf("unknown wire type oid %d", id),
		pgerr.KindUnknownType,
	)
}

// ArrayOf returns the array wire type for an element wire type.
func (c *TypeCatalog) ArrayOf(elem WireTypeName) (WireTypeID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if arr, ok := c.elemToArray[elem]; ok {
		return ByName(arr), nil
	}

	return WireTypeID{}, pgerr.WithKind(
		pgerr.WithWireType(fmt.Errorf("no array type registered for element %q", elem), string(elem)),
		pgerr.KindUnknownType,
	)
}

// builtinOIDs reuses PostgreSQL's well-known scalar OIDs from lib/pq's oid
// table so the catalog is useful before any handshake has populated it.
var builtinOIDs = map[WireTypeName]OID{
	"bool":      OID(oid.T_bool),
	"bytea":     OID(oid.T_bytea),
	"char":      OID(oid.T_char),
	"name":      OID(oid.T_name),
	"int8":      OID(oid.T_int8),
	"int2":      OID(oid.T_int2),
	"int4":      OID(oid.T_int4),
	"text":      OID(oid.T_text),
	"oid":       OID(oid.T_oid),
	"json":      OID(oid.T_json),
	"float4":    OID(oid.T_float4),
	"float8":    OID(oid.T_float8),
	"varchar":   OID(oid.T_varchar),
	"date":      OID(oid.T_date),
	"timestamp": OID(oid.T_timestamp),
	"timestamptz": OID(oid.T_timestamptz),
	"numeric":   OID(oid.T_numeric),
	"uuid":      OID(oid.T_uuid),
	"jsonb":     OID(oid.T_jsonb),

	"_int2":      OID(oid.T__int2),
	"_int4":      OID(oid.T__int4),
	"_int8":      OID(oid.T__int8),
	"_text":      OID(oid.T__text),
	"_float4":    OID(oid.T__float4),
	"_float8":    OID(oid.T__float8),
	"_bool":      OID(oid.T__bool),
	"_varchar":   OID(oid.T__varchar),
	"_numeric":   OID(oid.T__numeric),
}

var builtinArrays = map[WireTypeName]WireTypeName{
	"int2":      "_int2",
	"int4":      "_int4",
	"int8":      "_int8",
	"text":      "_text",
	"float4":    "_float4",
	"float8":    "_float8",
	"bool":      "_bool",
	"varchar":   "_varchar",
	"numeric":   "_numeric",
}
