// Package storefront is a small catalog backend with session based
// authentication.
//
// The session core issues short lived signed access tokens and long lived
// opaque refresh tokens. Each user owns a single refresh token slot on their
// record: every successful refresh rotates the slot, logout clears it, and
// an expired token presented during refresh is revoked before the call
// fails. All session state lives in persisted user fields; there is no in
// process session cache.
//
// Around the core, the package ships the catalog CRUD, registration, an
// audit trail of catalog mutations, bun backed repositories, and a fiber
// JSON API.
package storefront
