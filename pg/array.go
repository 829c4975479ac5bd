package pg

import (
	"encoding/binary"

	"github.com/jackc/pgtype"
	"gopkg.in/gomisc/errors.v1"

	"gopkg.in/gomisc/pgde.v1"
)

const (
	errNotArray          = errors.Const("column is not an array")
	errMultiDimensional  = errors.Const("multidimensional arrays are not supported")
	errTruncatedArray    = errors.Const("array data is truncated")
	errUnknownArrayOfOID = errors.Const("unknown element type of text array")
)

// elementOIDs - типы элементов массивов, нужные для текстового формата.
// В двоичном формате тип элемента передается в заголовке массива.
var elementOIDs = map[uint32]uint32{
	pgtype.BoolArrayOID:        pgtype.BoolOID,
	pgtype.Int2ArrayOID:        pgtype.Int2OID,
	pgtype.Int4ArrayOID:        pgtype.Int4OID,
	pgtype.Int8ArrayOID:        pgtype.Int8OID,
	pgtype.Float4ArrayOID:      pgtype.Float4OID,
	pgtype.Float8ArrayOID:      pgtype.Float8OID,
	pgtype.TextArrayOID:        pgtype.TextOID,
	pgtype.VarcharArrayOID:     pgtype.VarcharOID,
	pgtype.BPCharArrayOID:      pgtype.BPCharOID,
	pgtype.ByteaArrayOID:       pgtype.ByteaOID,
	pgtype.TimestampArrayOID:   pgtype.TimestampOID,
	pgtype.TimestamptzArrayOID: pgtype.TimestamptzOID,
	pgtype.DateArrayOID:        pgtype.DateOID,
	pgtype.UUIDArrayOID:        pgtype.UUIDOID,
	pgtype.InetArrayOID:        pgtype.InetOID,
	pgtype.JSONBArrayOID:       pgtype.JSONBOID,
}

func (v *value) Elements() ([]pgde.Value, error) {
	if v.raw == nil {
		return nil, errors.Ctx().Any("oid", v.oid).Just(errNotArray)
	}

	if v.format == pgtype.BinaryFormatCode {
		return v.binaryElements()
	}

	return v.textElements()
}

func (v *value) binaryElements() ([]pgde.Value, error) {
	var hdr pgtype.ArrayHeader

	rp, err := hdr.DecodeBinary(v.ci, v.raw)
	if err != nil {
		return nil, errors.Ctx().Any("oid", v.oid).Wrap(err, "decode array header")
	}

	if len(hdr.Dimensions) > 1 {
		return nil, errMultiDimensional
	}

	var count int
	if len(hdr.Dimensions) == 1 {
		count = int(hdr.Dimensions[0].Length)
	}

	elems := make([]pgde.Value, 0, count)

	for i := 0; i < count; i++ {
		if len(v.raw) < rp+4 {
			return nil, errTruncatedArray
		}

		size := int(int32(binary.BigEndian.Uint32(v.raw[rp:])))
		rp += 4

		var raw []byte

		if size >= 0 {
			if len(v.raw) < rp+size {
				return nil, errTruncatedArray
			}

			raw = v.raw[rp : rp+size : rp+size]
			rp += size
		}

		elems = append(elems, &value{
			ci:     v.ci,
			oid:    uint32(hdr.ElementOID),
			format: pgtype.BinaryFormatCode,
			raw:    raw,
		})
	}

	return elems, nil
}

func (v *value) textElements() ([]pgde.Value, error) {
	elemOID, ok := elementOIDs[v.oid]
	if !ok {
		return nil, errors.Ctx().Any("oid", v.oid).Just(errUnknownArrayOfOID)
	}

	uta, err := pgtype.ParseUntypedTextArray(string(v.raw))
	if err != nil {
		return nil, errors.Ctx().Any("oid", v.oid).Wrap(err, "parse text array")
	}

	if len(uta.Dimensions) > 1 {
		return nil, errMultiDimensional
	}

	elems := make([]pgde.Value, 0, len(uta.Elements))

	for i, s := range uta.Elements {
		var raw []byte

		if s != "NULL" || uta.Quoted[i] {
			raw = []byte(s)
		}

		elems = append(elems, &value{
			ci:     v.ci,
			oid:    elemOID,
			format: pgtype.TextFormatCode,
			raw:    raw,
		})
	}

	return elems, nil
}
