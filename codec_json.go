// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// blobEscapePrefix is the non-standard marker documented in the codec
// design: a JSON string whose first byte is NUL carries a base64-encoded
// Blob in the remainder. This is a compatibility requirement gated behind
// the JSON codec only; plain strings that happen to start with any other
// character are never affected.
const blobEscapePrefix = ' '

type jsonEncoder struct {
	w   io.Writer
	cfg codecConfig
}

func newJSONEncoder(w io.Writer, opts ...CodecOption) Encoder {
	return &jsonEncoder{w: w, cfg: buildConfig(opts)}
}

func (e *jsonEncoder) Encode(v Variant) error {
	var sb strings.Builder
	if err := encodeJSONVariant(&sb, v); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func encodeJSONVariant(sb *strings.Builder, v Variant) error {
	switch v.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		b, _ := v.AsBool()
		if b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt:
		i, _ := v.AsInt()
		sb.WriteString(strconv.FormatInt(i, 10))
	case KindUint:
		u, _ := v.AsUint()
		sb.WriteString(strconv.FormatUint(u, 10))
	case KindReal:
		f, _ := v.AsReal()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			// ECMA-262 compatible: non-finite reals encode as null.
			sb.WriteString("null")
		} else {
			sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	case KindString:
		s, _ := v.AsString()
		encodeJSONString(sb, s)
	case KindBlob:
		b, _ := v.AsBlob()
		encodeJSONBlob(sb, b)
	case KindArray:
		arr, _ := v.AsArray()
		sb.WriteByte('[')
		for i, elem := range arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := encodeJSONVariant(sb, elem); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodeJSONString(sb, k)
			sb.WriteByte(':')
			val, _ := v.AtKey(k)
			if err := encodeJSONVariant(sb, val); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("wamp: cannot JSON-encode kind %s", v.Kind())
	}
	return nil
}

// encodeJSONBlob implements the Blob escape: a JSON string whose content is
// U+0000 followed by the standard (padded) base64 of the bytes.
func encodeJSONBlob(sb *strings.Builder, b []byte) {
	sb.WriteByte('"')
	sb.WriteString(`\u0000`)
	sb.WriteString(base64.StdEncoding.EncodeToString(b))
	sb.WriteByte('"')
}

func encodeJSONString(sb *strings.Builder, s string) {
	out, _ := json.Marshal(s)
	sb.Write(out)
}

type jsonDecoder struct {
	dec *json.Decoder
	cfg codecConfig
}

func newJSONDecoder(r io.Reader, opts ...CodecOption) Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonDecoder{dec: dec, cfg: buildConfig(opts)}
}

func (d *jsonDecoder) Decode() (Variant, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if err == io.EOF {
			return Variant{}, decodeErr(ErrEmptyInput, nil)
		}
		return Variant{}, decodeErr(ErrSyntax, err)
	}
	return decodeJSONValue(d.dec, tok, 0, d.cfg)
}

func decodeJSONValue(dec *json.Decoder, tok json.Token, depth int, cfg codecConfig) (Variant, error) {
	if depth > cfg.maxDepth {
		return Variant{}, decodeErr(ErrMaxDepth, nil)
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return decodeJSONNumber(t)
	case string:
		return decodeJSONString(t)
	case json.Delim:
		switch t {
		case '[':
			return decodeJSONArray(dec, depth, cfg)
		case '{':
			return decodeJSONObject(dec, depth, cfg)
		default:
			return Variant{}, decodeErr(ErrSyntax, fmt.Errorf("unexpected delimiter %q", t))
		}
	default:
		return Variant{}, decodeErr(ErrBadType, fmt.Errorf("unexpected token %T", tok))
	}
}

func decodeJSONString(s string) (Variant, error) {
	if len(s) > 0 && s[0] == blobEscapePrefix {
		rest := s[1:]
		if len(rest)%4 == 1 {
			return Variant{}, decodeErr(ErrBadBase64Length, nil)
		}
		decoded, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return Variant{}, classifyBase64Error(err)
		}
		return NewBlob(decoded), nil
	}
	if !utf8.ValidString(s) {
		return Variant{}, decodeErr(ErrBadUTF8, nil)
	}
	return NewString(s), nil
}

func classifyBase64Error(err error) error {
	var cie base64.CorruptInputError
	if errors.As(err, &cie) {
		return decodeErr(ErrBadBase64Char, err)
	}
	if strings.Contains(err.Error(), "padding") {
		return decodeErr(ErrBadBase64Padding, err)
	}
	return decodeErr(ErrBadBase64Length, err)
}

func decodeJSONNumber(n json.Number) (Variant, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewInt(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			// Overflowed int64: promote to UInt per the format's integer
			// widening rule.
			return NewUint(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Variant{}, decodeErr(ErrSyntax, err)
	}
	// Further overflow beyond UInt range lands here as Real.
	return NewReal(f), nil
}

func decodeJSONArray(dec *json.Decoder, depth int, cfg codecConfig) (Variant, error) {
	result := NewArray()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Variant{}, decodeErr(ErrUnexpectedEnd, err)
		}
		elem, err := decodeJSONValue(dec, tok, depth+1, cfg)
		if err != nil {
			return Variant{}, err
		}
		result.Append(elem)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Variant{}, decodeErr(ErrUnexpectedEnd, err)
	}
	return result, nil
}

func decodeJSONObject(dec *json.Decoder, depth int, cfg codecConfig) (Variant, error) {
	result := NewObject()
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Variant{}, decodeErr(ErrUnexpectedEnd, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Variant{}, decodeErr(ErrNonStringKey, nil)
		}
		if cfg.rejectDupKeys && seen[key] {
			return Variant{}, decodeErr(ErrDuplicateKey, fmt.Errorf("duplicate key %q", key))
		}
		seen[key] = true

		valTok, err := dec.Token()
		if err != nil {
			return Variant{}, decodeErr(ErrUnexpectedEnd, err)
		}
		val, err := decodeJSONValue(dec, valTok, depth+1, cfg)
		if err != nil {
			return Variant{}, err
		}
		result.SetKey(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Variant{}, decodeErr(ErrUnexpectedEnd, err)
	}
	return result, nil
}
