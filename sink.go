// SPDX-License-Identifier: Apache-2.0

package wamp

import "bytes"

// byteSink is the contiguous-byte-vector sink mentioned in the codec design
// (a "MessageBuffer"): it implements io.Writer by appending, never
// truncating existing contents, so multiple Encode calls concatenate.
type byteSink struct {
	buf bytes.Buffer
}

func (s *byteSink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *byteSink) Bytes() []byte        { return s.buf.Bytes() }

// newByteSource wraps a byte slice as the "contiguous byte vector" source
// variant of the codec source abstraction.
func newByteSource(data []byte) *bytes.Reader { return bytes.NewReader(data) }
