// SPDX-License-Identifier: Apache-2.0

package wamperr

// uriToKind and kindToURI implement the round-trip table between WAMP error
// URIs and typed Kind values (§6.4). An unrecognized URI maps to Unknown
// while still preserving the raw string on the WampError, never dropped.
var uriToKind = map[string]Kind{
	"wamp.error.no_such_procedure":        NoSuchProcedure,
	"wamp.error.procedure_already_exists": ProcedureAlreadyExists,
	"wamp.error.invalid_argument":         InvalidArgument,
	"wamp.error.not_authorized":           NotAuthorized,
	"wamp.error.canceled":                 Canceled,
	"wamp.error.payload_size_exceeded":    PayloadSizeExceeded,
	"wamp.error.close_realm":              CloseRealm,
	"wamp.error.goodbye_and_out":          GoodbyeAndOut,
	"wamp.error.system_shutdown":          SystemShutdown,
	"wamp.error.disclose_me.disallowed":   DiscloseMeDisallowed,
	"wamp.error.option_not_allowed":       OptionNotAllowed,
}

var kindToURI = func() map[Kind]string {
	m := make(map[Kind]string, len(uriToKind))
	for uri, kind := range uriToKind {
		m[kind] = uri
	}
	return m
}()

// KindFromURI looks up the typed Kind for a WAMP error URI, returning
// Unknown if the URI is not in the standard table.
func KindFromURI(uri string) Kind {
	if kind, ok := uriToKind[uri]; ok {
		return kind
	}
	return Unknown
}

// URIFromKind returns the canonical WAMP error URI for a standard Kind, or
// ok=false for kinds with no router-facing URI (e.g. Transport, Codec).
func URIFromKind(kind Kind) (string, bool) {
	uri, ok := kindToURI[kind]
	return uri, ok
}
