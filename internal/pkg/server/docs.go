// Package server implements the server side of the session protocol.
//
// The server performs the following steps:
// 	1. Binds a UDP socket and waits for datagrams, at most one tick at
// 	   a time so the loop keeps turning without inbound traffic.
// 	2. A HELLO for an unknown session id creates a session record that
// 	   captures the peer address; the record's expected sequence number
// 	   starts at zero. Any other command for an unknown id is dropped.
// 	3. Each accepted DATA advances the expected sequence number. A lower
// 	   sequence number is reported as a duplicate and draws no reply; a
// 	   higher one is reported as one lost packet per skipped number and
// 	   the session advances past the gap.
// 	4. Every accepted packet merges the message's Lamport clock into the
// 	   session clock and refreshes the session's activity time.
// 	5. Once per loop iteration the session table is swept, and any
// 	   session idle past the threshold is sent an unsolicited GOODBYE
// 	   and removed.
//
// All session mutation happens on the one Run control flow, so the
// table and its records need no locking here. A second HELLO on a live
// session is a protocol violation: it is answered with GOODBYE and the
// session is torn down.
package server
