// SPDX-License-Identifier: Apache-2.0

/*
Package wamp implements the client-side core of the Web Application
Messaging Protocol: the dynamic Variant value model, the JSON/MsgPack/CBOR
codec layer, WAMP message typing, the ephemeral ID pool, and the disclosure
policy used when composing caller/publisher identity disclosure.

The session state machine and dispatcher live in the wampsession
sub-package; the framing/request-table layer consumed by it lives in
wamppeer; URI-pattern routing lives in wampcore.
*/
package wamp
