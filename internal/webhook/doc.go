// Package webhook implements the signature verification engine for inbound
// webhook requests.
//
// The engine streams a request body exactly once while computing a
// cryptographic digest, reconstructs the provider-specific message to sign
// from request metadata, enforces replay timestamp windows, and compares
// digests in constant time. Symmetric (HMAC) and asymmetric (Ed25519,
// ECDSA P-256) providers share the same Provider interface; each provider
// adapter in the providers subpackage wires in its own header names,
// prefixes, and signature encodings.
//
// The engine depends on the host framework only through the Request view:
// a case-insensitive header lookup, a content-length hint, and a bounded
// body stream. It keeps no per-request state of its own, so a configured
// provider is safe for concurrent use.
package webhook
