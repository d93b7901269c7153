// Package accountsdk provides the wire types and typed errors of the
// account service API, plus a small HTTP client. The server uses the error
// types to render responses; the e2e suite uses the client to drive a
// running instance.
package accountsdk
