/*
Package claude is the model invocation helper shared by all Canopy nodes.

It speaks the Anthropic Messages API directly: requests carry the API key in
the x-api-key header (not a Bearer token), the system prompt travels as a
top-level field rather than a message, and message content is an array of
typed blocks (text and base64 image sources).

The client is deliberately thin. There is no retry, backoff, rate limiting,
or streaming here; a failed call surfaces as an *APIError and the host
decides what to do with it.
*/
package claude
