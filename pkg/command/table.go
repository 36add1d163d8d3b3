package command

// Handler implements one command: it reads args (the frame with the
// command name already stripped), fills ctx.Reply, and returns 0 to
// keep the connection open or a negative value to close it after the
// reply is flushed.
type Handler func(ctx *Context, args [][]byte) int

// Entry is one table record: a handler plus its inclusive arity
// bounds, with MaxArity -1 meaning unbounded. Arity counts exclude the
// command name itself.
type Entry struct {
	Fn       Handler
	MinArity int
	MaxArity int
}

// Table maps a lowercased command name to its Entry. It is built once
// at package init and never mutated afterwards, so concurrent
// connections can read it lock-free.
var Table = map[string]Entry{}

func register(name string, minArity, maxArity int, fn Handler) {
	Table[name] = Entry{Fn: fn, MinArity: minArity, MaxArity: maxArity}
}

func init() {
	// Connection / misc
	register("ping", 0, 0, cmdPing)
	register("echo", 1, 1, cmdEcho)
	register("select", 1, 1, cmdSelect)
	register("quit", 0, 0, cmdQuit)
	register("shutdown", 0, 1, cmdShutdown)

	// Strings
	register("set", 2, 7, cmdSet)
	register("get", 1, 1, cmdGet)
	register("setex", 3, 3, cmdSetEx)
	register("psetex", 3, 3, cmdPSetEx)
	register("setnx", 2, 2, cmdSetNX)
	register("setrange", 3, 3, cmdSetRange)
	register("append", 2, 2, cmdAppend)
	register("strlen", 1, 1, cmdStrlen)
	register("getrange", 3, 3, cmdGetRange)
	register("getset", 2, 2, cmdGetSet)
	register("mget", 1, -1, cmdMGet)
	register("mset", 2, -1, cmdMSet)
	register("msetnx", 2, -1, cmdMSetNX)
	register("incr", 1, 1, cmdIncr)
	register("decr", 1, 1, cmdDecr)
	register("incrby", 2, 2, cmdIncrBy)
	register("decrby", 2, 2, cmdDecrBy)
	register("incrbyfloat", 2, 2, cmdIncrByFloat)

	// Bits
	register("getbit", 2, 2, cmdGetBit)
	register("setbit", 3, 3, cmdSetBit)
	register("bitcount", 1, 3, cmdBitCount)
	register("bitop", 3, -1, cmdBitOp)

	// Hashes
	register("hset", 3, 3, cmdHSet)
	register("hsetnx", 3, 3, cmdHSetNX)
	register("hget", 2, 2, cmdHGet)
	register("hmset", 3, -1, cmdHMSet)
	register("hmget", 2, -1, cmdHMGet)
	register("hgetall", 1, 1, cmdHGetAll)
	register("hkeys", 1, 1, cmdHKeys)
	register("hvals", 1, 1, cmdHVals)
	register("hlen", 1, 1, cmdHLen)
	register("hexists", 2, 2, cmdHExists)
	register("hdel", 2, -1, cmdHDel)
	register("hincrby", 3, 3, cmdHIncrBy)
	register("hincrbyfloat", 3, 3, cmdHIncrByFloat)

	// Sets
	register("sadd", 2, -1, cmdSAdd)
	register("scard", 1, 1, cmdSCard)
	register("sismember", 2, 2, cmdSIsMember)
	register("smembers", 1, 1, cmdSMembers)
	register("smove", 3, 3, cmdSMove)
	register("spop", 1, 2, cmdSPop)
	register("srandmember", 1, 2, cmdSRandMember)
	register("srem", 2, -1, cmdSRem)
	register("sdiff", 1, -1, cmdSDiff)
	register("sdiffstore", 2, -1, cmdSDiffStore)
	register("sinter", 1, -1, cmdSInter)
	register("sinterstore", 2, -1, cmdSInterStore)
	register("sunion", 1, -1, cmdSUnion)
	register("sunionstore", 2, -1, cmdSUnionStore)

	// Sorted sets
	register("zadd", 3, -1, cmdZAdd)
	register("zcard", 1, 1, cmdZCard)
	register("zcount", 3, 3, cmdZCount)
	register("zincrby", 3, 3, cmdZIncrBy)
	register("zrange", 3, 4, cmdZRange)
	register("zscore", 2, 2, cmdZScore)

	// Keyspace
	register("type", 1, 1, cmdType)
	register("exists", 1, -1, cmdExists)
	register("del", 1, -1, cmdDel)
	register("persist", 1, 1, cmdPersist)
	register("expire", 2, 2, cmdExpire)
	register("expireat", 2, 2, cmdExpireAt)

	// Lists (stub only — no list storage backing yet)
	register("lpush", 2, -1, cmdListStub)
	register("rpush", 2, -1, cmdListStub)
	register("lpop", 1, 1, cmdListStub)
	register("rpop", 1, 1, cmdListStub)
	register("llen", 1, 1, cmdListStubZero)
	register("lrange", 3, 3, cmdListStubEmpty)

	// Tables (stub)
	register("tget", 2, 2, cmdTableStub)
	register("tset", 3, 3, cmdTableStub)
}
