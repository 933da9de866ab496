// Package session owns the authenticated identity of the running client.
//
// [Store] persists exactly two values, the bearer token and the username,
// as files under the state directory; nothing else writes them. [Manager]
// wraps the store with login/signup/logout/update operations and the
// startup claim decode. Token claims are decoded locally for display only;
// authorization is always the backend's call on each request.
package session
