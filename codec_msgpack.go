// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"io"
	"reflect"

	"github.com/ugorji/go/codec"
)

// msgpackHandle is shared across encoders/decoders. Go values decode into
// map[string]interface{} rather than ugorji's default map[interface{}]interface{}
// so Object conversion never has to deal with non-string keys beyond the
// explicit rejection in msgpackToVariant. WriteExt selects the current
// msgpack spec, so []byte is written as BIN and string as STR.
var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.MapType = reflect.TypeOf(map[string]interface{}(nil))
	h.WriteExt = true
	h.RawToString = false
	return h
}()

type msgpackEncoder struct {
	enc *codec.Encoder
}

func newMsgPackEncoder(w io.Writer, opts ...CodecOption) Encoder {
	return &msgpackEncoder{enc: codec.NewEncoder(w, msgpackHandle)}
}

func (e *msgpackEncoder) Encode(v Variant) error {
	native, err := variantToMsgpack(v)
	if err != nil {
		return err
	}
	return e.enc.Encode(native)
}

// variantToMsgpack lowers a Variant to the plain Go value ugorji encodes as
// msgpack: Blob becomes []byte so it lands in the BIN family rather than the
// STR family, keeping it distinguishable from String on the wire.
func variantToMsgpack(v Variant) (interface{}, error) {
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindBool:
		b, _ := v.AsBool()
		return b, nil
	case KindInt:
		i, _ := v.AsInt()
		return i, nil
	case KindUint:
		u, _ := v.AsUint()
		return u, nil
	case KindReal:
		f, _ := v.AsReal()
		return f, nil
	case KindString:
		s, _ := v.AsString()
		return s, nil
	case KindBlob:
		b, _ := v.AsBlob()
		return append([]byte(nil), b...), nil
	case KindArray:
		arr, _ := v.AsArray()
		out := make([]interface{}, len(arr))
		for i, elem := range arr {
			native, err := variantToMsgpack(elem)
			if err != nil {
				return nil, err
			}
			out[i] = native
		}
		return out, nil
	case KindObject:
		keys := v.Keys()
		out := make(map[string]interface{}, len(keys))
		for _, k := range keys {
			val, _ := v.AtKey(k)
			native, err := variantToMsgpack(val)
			if err != nil {
				return nil, err
			}
			out[k] = native
		}
		return out, nil
	default:
		return nil, decodeErr(ErrUnsupported, nil)
	}
}

type msgpackDecoder struct {
	dec *codec.Decoder
	cfg codecConfig
}

func newMsgPackDecoder(r io.Reader, opts ...CodecOption) Decoder {
	return &msgpackDecoder{dec: codec.NewDecoder(r, msgpackHandle), cfg: buildConfig(opts)}
}

func (d *msgpackDecoder) Decode() (Variant, error) {
	var native interface{}
	if err := d.dec.Decode(&native); err != nil {
		if err == io.EOF {
			return Variant{}, decodeErr(ErrEmptyInput, nil)
		}
		return Variant{}, decodeErr(ErrSyntax, err)
	}
	return msgpackToVariant(native, 0, d.cfg)
}

// msgpackToVariant lifts a decoded native value back to a Variant. Extension
// types and any other value ugorji cannot represent as one of the cases below
// are rejected with ErrUnsupported, per the codec's "ext types are rejected"
// rule.
func msgpackToVariant(x interface{}, depth int, cfg codecConfig) (Variant, error) {
	if depth > cfg.maxDepth {
		return Variant{}, decodeErr(ErrMaxDepth, nil)
	}

	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return NewBool(t), nil
	case int64:
		return NewInt(t), nil
	case uint64:
		return NewUint(t), nil
	case int:
		return NewInt(int64(t)), nil
	case float32:
		return NewReal(float64(t)), nil
	case float64:
		return NewReal(t), nil
	case string:
		return NewString(t), nil
	case []byte:
		return NewBlob(t), nil
	case []interface{}:
		result := NewArray()
		for _, elem := range t {
			ev, err := msgpackToVariant(elem, depth+1, cfg)
			if err != nil {
				return Variant{}, err
			}
			result.Append(ev)
		}
		return result, nil
	case map[string]interface{}:
		result := NewObject()
		for k, elem := range t {
			ev, err := msgpackToVariant(elem, depth+1, cfg)
			if err != nil {
				return Variant{}, err
			}
			result.SetKey(k, ev)
		}
		return result, nil
	case map[interface{}]interface{}:
		return Variant{}, decodeErr(ErrNonStringKey, nil)
	default:
		return Variant{}, decodeErr(ErrUnsupported, nil)
	}
}
