package rsmq

import "github.com/redis/go-redis/v9"

// KEYS[1] message zset, KEYS[2] queue hash.
// ARGV[1] now in ms, ARGV[2] time the message becomes visible again in ms.
var receiveMessageScript = redis.NewScript(`
local msg = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", "0", "1")
if #msg == 0 then
	return {}
end
redis.call("ZADD", KEYS[1], ARGV[2], msg[1])
redis.call("HINCRBY", KEYS[2], "totalrecv", 1)
local mbody = redis.call("HGET", KEYS[2], msg[1])
local rc = redis.call("HINCRBY", KEYS[2], msg[1] .. ":rc", 1)
local o = {msg[1], mbody, rc}
if rc == 1 then
	redis.call("HSET", KEYS[2], msg[1] .. ":fr", ARGV[1])
	table.insert(o, ARGV[1])
else
	local fr = redis.call("HGET", KEYS[2], msg[1] .. ":fr")
	table.insert(o, fr)
end
return o
`)

// KEYS[1] message zset, KEYS[2] queue hash.
// ARGV[1] now in ms.
var popMessageScript = redis.NewScript(`
local msg = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", "0", "1")
if #msg == 0 then
	return {}
end
redis.call("HINCRBY", KEYS[2], "totalrecv", 1)
local mbody = redis.call("HGET", KEYS[2], msg[1])
local rc = redis.call("HINCRBY", KEYS[2], msg[1] .. ":rc", 1)
local o = {msg[1], mbody, rc}
if rc == 1 then
	table.insert(o, ARGV[1])
else
	local fr = redis.call("HGET", KEYS[2], msg[1] .. ":fr")
	table.insert(o, fr)
end
redis.call("ZREM", KEYS[1], msg[1])
redis.call("HDEL", KEYS[2], msg[1], msg[1] .. ":rc", msg[1] .. ":fr")
return o
`)

// KEYS[1] message zset.
// ARGV[1] message id, ARGV[2] new visible-at time in ms.
var changeMessageVisibilityScript = redis.NewScript(`
local msg = redis.call("ZSCORE", KEYS[1], ARGV[1])
if not msg then
	return 0
end
redis.call("ZADD", KEYS[1], ARGV[2], ARGV[1])
return 1
`)
