// Package discovery classifies the target's listening ports into endpoints.
//
// Classification runs two passes over the candidate ports.
//
// The HTTP pass POSTs a server_info request to each candidate. The first
// port that answers with a top-level "result" becomes the HTTP RPC endpoint
// and is removed from the second pass.
//
// The WebSocket pass collects candidates from three sources and merges them:
// ports whose plain GET response names the brand, the conventional admin
// ports that are listening, and in containerized mode the container's
// published ports. The peer port is never a candidate.
//
// An AdminVerifier then sends each candidate one privileged command. A reply
// carrying result.peers marks the endpoint Admin; an explicit permission
// error marks it Public; anything else leaves it Unknown. The first Admin
// endpoint is operative. Without one, the lowest-numbered candidate is used
// and an ambiguous warning is returned.
//
// Every probe is read-only and bounded by its own timeout. A failed probe is
// final for that port within the pass.
package discovery
