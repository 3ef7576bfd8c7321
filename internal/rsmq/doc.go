// Package rsmq is a client for the Redis Simple Message Queue data layout.
//
// Queues written by this package can be read by the Node.js and Python RSMQ
// implementations and vice versa. It uses:
// - a Redis Set (<ns>:QUEUES) holding every queue name
// - a Redis Hash (<ns>:<qname>:Q) for queue attributes, statistics and message bodies
// - a Redis ZSet (<ns>:<qname>) scoring message ids by the time they become visible
// - Lua scripts for receive, pop and visibility changes so each is atomic
//
// All timestamps come from the Redis server (TIME), never from the local clock.
package rsmq
