// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"errors"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

var mapStringInterfaceType = reflect.TypeOf(map[string]interface{}(nil))

type cborEncoder struct {
	w   io.Writer
	cfg codecConfig
}

func newCBOREncoder(w io.Writer, opts ...CodecOption) Encoder {
	return &cborEncoder{w: w, cfg: buildConfig(opts)}
}

func (e *cborEncoder) Encode(v Variant) error {
	native, err := variantToCBOR(v)
	if err != nil {
		return err
	}
	data, err := cborEncMode.Marshal(native)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}

// variantToCBOR lowers a Variant to the native Go value the cbor library
// encodes: Blob becomes []byte, which cbor always encodes as a major type 2
// byte string, distinct from the major type 3 text string used for String.
func variantToCBOR(v Variant) (interface{}, error) {
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
			native, err := variantToCBOR(elem)
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
			native, err := variantToCBOR(val)
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

type cborDecoder struct {
	r   io.Reader
	cfg codecConfig
}

func newCBORDecoder(r io.Reader, opts ...CodecOption) Decoder {
	return &cborDecoder{r: r, cfg: buildConfig(opts)}
}

func (d *cborDecoder) Decode() (Variant, error) {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return Variant{}, decodeErr(ErrSyntax, err)
	}
	if len(data) == 0 {
		return Variant{}, decodeErr(ErrEmptyInput, nil)
	}

	dm, err := cbor.DecOptions{
		MaxNestedLevels: d.cfg.maxDepth,
		DupMapKey:       dupMapKeyMode(d.cfg.rejectDupKeys),
		DefaultMapType:  mapStringInterfaceType,
		IndefLength:     cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		return Variant{}, decodeErr(ErrSyntax, err)
	}

	var native interface{}
	if err := dm.Unmarshal(data, &native); err != nil {
		return Variant{}, classifyCBORError(err)
	}
	return cborToVariant(native, 0, d.cfg)
}

func dupMapKeyMode(reject bool) cbor.DupMapKeyMode {
	if reject {
		return cbor.DupMapKeyEnforcedAPF
	}
	return cbor.DupMapKeyQuiet
}

func classifyCBORError(err error) error {
	var dupErr *cbor.DupMapKeyError
	if errors.As(err, &dupErr) {
		return decodeErr(ErrDuplicateKey, err)
	}
	var maxDepthErr *cbor.MaxNestedLevelError
	if errors.As(err, &maxDepthErr) {
		return decodeErr(ErrMaxDepth, err)
	}
	return decodeErr(ErrSyntax, err)
}

// cborToVariant lifts a decoded native value back to a Variant. Tags are
// never surfaced here: DecMode above does not register any, so the cbor
// library hands an unrecognized tag back as a cbor.Tag, whose tag number is
// dropped and whose content is lifted in its place.
func cborToVariant(x interface{}, depth int, cfg codecConfig) (Variant, error) {
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
			ev, err := cborToVariant(elem, depth+1, cfg)
			if err != nil {
				return Variant{}, err
			}
			result.Append(ev)
		}
		return result, nil
	case map[string]interface{}:
		result := NewObject()
		for k, elem := range t {
			ev, err := cborToVariant(elem, depth+1, cfg)
			if err != nil {
				return Variant{}, err
			}
			result.SetKey(k, ev)
		}
		return result, nil
	case cbor.Tag:
		return cborToVariant(t.Content, depth, cfg)
	default:
		return Variant{}, decodeErr(ErrUnsupported, nil)
	}
}
