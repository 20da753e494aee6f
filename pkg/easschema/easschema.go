// Package easschema encodes attestation data the way EAS schema encoders do: the
// schema string is a comma separated list of "type name" pairs and the payload is
// the Solidity ABI encoding of those values as a tuple.
package easschema

import (
	"fmt"
	"strings"

	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

type FieldDef struct {
	Name string
	Type string
}

type Layout []FieldDef

func ParseLayout(schema string) (Layout, error) {
	parts := strings.Split(schema, ",")
	layout := make(Layout, 0, len(parts))

	for _, part := range parts {
		tokens := strings.Fields(part)
		if len(tokens) != 2 {
			return nil, fmt.Errorf("easschema - ParseLayout: malformed field %q", strings.TrimSpace(part))
		}
		layout = append(layout, FieldDef{Type: tokens[0], Name: tokens[1]})
	}

	return layout, nil
}

func (l Layout) String() string {
	parts := make([]string, 0, len(l))
	for _, f := range l {
		parts = append(parts, f.Type+" "+f.Name)
	}

	return strings.Join(parts, ",")
}

type Field struct {
	Name  string
	Type  string
	Value interface{}
}

type Encoder struct {
	layout Layout
	args   abi.Arguments
	uid    common.Hash
}

func NewEncoder(schema string, resolver common.Address, revocable bool) (*Encoder, error) {
	layout, err := ParseLayout(schema)
	if err != nil {
		return nil, fmt.Errorf("easschema - NewEncoder: %w", err)
	}

	args := make(abi.Arguments, 0, len(layout))
	for _, f := range layout {
		t, err := abi.NewType(f.Type, "", nil)
		if err != nil {
			return nil, fmt.Errorf("easschema - NewEncoder - abi.NewType(%s): %w", f.Type, err)
		}
		args = append(args, abi.Argument{Name: f.Name, Type: t})
	}

	return &Encoder{
		layout: layout,
		args:   args,
		uid:    UID(layout.String(), resolver, revocable),
	}, nil
}

func (e *Encoder) Layout() Layout {
	return e.layout
}

func (e *Encoder) UID() common.Hash {
	return e.uid
}

// Encode ABI-encodes fields. The output depends on the values only, so any verifier
// holding the schema can recompute it.
func (e *Encoder) Encode(schemaUID common.Hash, fields []Field) ([]byte, error) {
	if schemaUID != e.uid {
		return nil, fmt.Errorf("easschema - Encode: %w: schema %s, layout registers as %s",
			errs.ErrSchemaMismatch, schemaUID.Hex(), e.uid.Hex())
	}

	if len(fields) != len(e.layout) {
		return nil, fmt.Errorf("easschema - Encode: %w: %d fields, layout has %d",
			errs.ErrSchemaMismatch, len(fields), len(e.layout))
	}

	values := make([]interface{}, 0, len(fields))
	for i, f := range fields {
		def := e.layout[i]
		if f.Name != def.Name || f.Type != def.Type {
			return nil, fmt.Errorf("easschema - Encode: %w: field %d is %q %q, want %q %q",
				errs.ErrSchemaMismatch, i, f.Type, f.Name, def.Type, def.Name)
		}
		values = append(values, f.Value)
	}

	payload, err := e.args.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("easschema - Encode - e.args.Pack: %w: %v", errs.ErrSchemaMismatch, err)
	}

	return payload, nil
}

func (e *Encoder) Decode(payload []byte) ([]Field, error) {
	values, err := e.args.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("easschema - Decode - e.args.Unpack: %w: %v", errs.ErrSchemaMismatch, err)
	}

	fields := make([]Field, 0, len(values))
	for i, v := range values {
		fields = append(fields, Field{Name: e.layout[i].Name, Type: e.layout[i].Type, Value: v})
	}

	return fields, nil
}

// UID is the schema registry identifier:
// keccak256(abi.encodePacked(schema, resolver, revocable)).
func UID(schema string, resolver common.Address, revocable bool) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(schema))
	h.Write(resolver.Bytes())
	if revocable {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	var uid common.Hash
	h.Sum(uid[:0])

	return uid
}
