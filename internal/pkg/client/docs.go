// Package client implements the client side of the session protocol.
//
// The client performs the following steps:
//	1. Open a UDP socket and pick a random 32-bit session id.
//	2. Send HELLO with seq 0 and wait for the server's HELLO reply.
// 	3. For each non-empty input line, send it as a DATA message and wait
// 	   for the server's ALIVE acknowledgement, reporting the round-trip
// 	   latency from the message timestamp.
// 	4. On an empty line, "q" or end of input, send GOODBYE, wait a short
// 	   grace period and terminate.
//
// Exactly one send may be outstanding at a time. A watchdog aborts the
// session when an acknowledgement does not arrive within the timeout;
// that abort is unilateral and sends nothing. A GOODBYE from the server
// terminates the session in any state.
//
// All session state (FSM state, sequence number, logical clock, pending
// acknowledgement) is owned by the Run loop. The transport receiver and
// the input scanner run as separate goroutines and communicate with the
// loop over channels only, so no transition can interleave with another.
package client
