// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"fmt"
	"reflect"
)

// ConversionError is raised when a Variant cannot be converted to or from a
// Go value. Path carries a breadcrumb describing where in a nested
// structure the failure occurred, e.g. "for array index 3" or
// `for object member "foo"`.
type ConversionError struct {
	Path []string
	Err  error
}

func (e *ConversionError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("wamp: conversion failed: %v", e.Err)
	}
	msg := e.Err.Error()
	for i := len(e.Path) - 1; i >= 0; i-- {
		msg = fmt.Sprintf("%s %s", msg, e.Path[i])
	}
	return "wamp: conversion failed: " + msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

func wrapConversion(err error, breadcrumb string) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*ConversionError); ok {
		return &ConversionError{Path: append([]string{breadcrumb}, ce.Path...), Err: ce.Err}
	}
	return &ConversionError{Path: []string{breadcrumb}, Err: err}
}

func arrayIndexBreadcrumb(i int) string { return fmt.Sprintf("for array index %d", i) }
func objectMemberBreadcrumb(k string) string { return fmt.Sprintf("for object member %q", k) }

// ToGo is implemented by any Go type that knows how to populate itself from
// a Variant. ConvertFrom must leave the receiver untouched on error.
type ToGo interface {
	ConvertFrom(v Variant) error
}

// FromGo is implemented by any Go type that knows how to produce a Variant
// representation of itself.
type FromGo interface {
	ConvertTo() (Variant, error)
}

// To converts a Variant into a value of type T. Built-in scalar, slice, and
// map-of-string shapes are handled directly; anything implementing ToGo uses
// that method; enumerations (named integer types) default to their
// underlying integer representation.
func To[T any](v Variant) (T, error) {
	var zero T
	if err := convertInto(v, &zero); err != nil {
		return zero, err
	}
	return zero, nil
}

// convertInto is the dynamic half of To: it type-switches on a pointer to
// the destination so generic instantiation stays allocation-free for the
// common scalar cases.
func convertInto(v Variant, dst any) error {
	switch d := dst.(type) {
	case *Variant:
		*d = v
		return nil
	case *bool:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		*d = b
		return nil
	case *string:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		*d = s
		return nil
	case *[]byte:
		b, err := v.AsBlob()
		if err != nil {
			return err
		}
		*d = b
		return nil
	case *int:
		i, err := toInt64(v)
		if err != nil {
			return err
		}
		*d = int(i)
		return nil
	case *int64:
		i, err := toInt64(v)
		if err != nil {
			return err
		}
		*d = i
		return nil
	case *uint64:
		u, err := toUint64(v)
		if err != nil {
			return err
		}
		*d = u
		return nil
	case *float64:
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		*d = f
		return nil
	case ToGo:
		return d.ConvertFrom(v)
	default:
		return convertReflect(v, dst)
	}
}

// convertReflect handles the shapes convertInto's type switch does not
// special-case directly. Slices and maps recurse element-wise via
// convertInto, wrapping a failing element's error with the array index or
// object member that produced it (spec §4.1.1's breadcrumb requirement).
// Other integer types, including named enumeration types, are set from
// their underlying signed or unsigned integer value.
func convertReflect(v Variant, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("wamp: no conversion to %T", dst)
	}
	switch rv.Elem().Kind() {
	case reflect.Slice:
		return convertSlice(v, rv.Elem())
	case reflect.Map:
		return convertMap(v, rv.Elem())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := toInt64(v)
		if err != nil {
			return err
		}
		rv.Elem().SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := toUint64(v)
		if err != nil {
			return err
		}
		rv.Elem().SetUint(u)
		return nil
	default:
		return fmt.Errorf("wamp: no conversion to %T", dst)
	}
}

func convertSlice(v Variant, dst reflect.Value) error {
	arr, err := v.AsArray()
	if err != nil {
		return err
	}
	elemType := dst.Type().Elem()
	out := reflect.MakeSlice(dst.Type(), len(arr), len(arr))
	for i, elem := range arr {
		elemPtr := reflect.New(elemType)
		if err := convertInto(elem, elemPtr.Interface()); err != nil {
			return wrapConversion(err, arrayIndexBreadcrumb(i))
		}
		out.Index(i).Set(elemPtr.Elem())
	}
	dst.Set(out)
	return nil
}

func convertMap(v Variant, dst reflect.Value) error {
	if dst.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("wamp: no conversion to %s: map key must be a string type", dst.Type())
	}
	if v.Kind() != KindObject {
		return &AccessError{Have: v.Kind(), Want: KindObject}
	}
	elemType := dst.Type().Elem()
	keys := v.Keys()
	out := reflect.MakeMapWithSize(dst.Type(), len(keys))
	for _, key := range keys {
		val, _ := v.AtKey(key)
		elemPtr := reflect.New(elemType)
		if err := convertInto(val, elemPtr.Interface()); err != nil {
			return wrapConversion(err, objectMemberBreadcrumb(key))
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(dst.Type().Key()), elemPtr.Elem())
	}
	dst.Set(out)
	return nil
}

func toInt64(v Variant) (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindUint:
		return int64(v.u), nil
	case KindReal:
		return int64(v.f), nil
	default:
		return 0, &AccessError{Have: v.kind, Want: KindInt}
	}
}

func toUint64(v Variant) (uint64, error) {
	switch v.kind {
	case KindUint:
		return v.u, nil
	case KindInt:
		return uint64(v.i), nil
	case KindReal:
		return uint64(v.f), nil
	default:
		return 0, &AccessError{Have: v.kind, Want: KindUint}
	}
}

func toFloat64(v Variant) (float64, error) {
	switch v.kind {
	case KindReal:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindUint:
		return float64(v.u), nil
	default:
		return 0, &AccessError{Have: v.kind, Want: KindReal}
	}
}

// From converts a Go value into a Variant. The inverse of To.
func From(src any) (Variant, error) {
	switch s := src.(type) {
	case Variant:
		return s, nil
	case nil:
		return Null(), nil
	case bool:
		return NewBool(s), nil
	case string:
		return NewString(s), nil
	case []byte:
		return NewBlob(s), nil
	case int:
		return NewInt(int64(s)), nil
	case int64:
		return NewInt(s), nil
	case uint64:
		return NewUint(s), nil
	case float64:
		return NewReal(s), nil
	case FromGo:
		return s.ConvertTo()
	default:
		return Variant{}, fmt.Errorf("wamp: no conversion from %T", src)
	}
}
