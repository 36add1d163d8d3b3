package command

import (
	"github.com/ironkv/ironkv/pkg/resp"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

func replyErr(ctx *Context, err error) int {
	switch err {
	case store.ErrWrongType:
		ctx.Reply = resp.Err("WRONGTYPE Operation against a key holding the wrong kind of value")
	case store.ErrNotInteger:
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
	case store.ErrNotFloat:
		ctx.Reply = resp.Err("ERR value is not a float or out of range")
	default:
		ctx.Reply = resp.Err("ERR " + err.Error())
	}
	return 0
}

// cmdSet consumes a leading run of EX/PX option pairs, then at most
// one trailing NX or XX token — the same two-phase shape and ordering
// the original parser enforced: EX/PX must come first, and NX/XX (if
// present at all) must be the single token after them. "NX XX" and
// "NX EX 10" are both syntax errors; "EX 10 NX" is not.
func cmdSet(ctx *Context, args [][]byte) int {
	key, val := args[0], args[1]
	var opts store.SetOptions

	i := 2
	for i < len(args) {
		tok := upperOf(args[i])
		if tok != "EX" && tok != "PX" {
			break
		}
		i++
		if i >= len(args) {
			ctx.Reply = resp.Err("ERR syntax error")
			return 0
		}
		n, ok := ToInt64(args[i])
		if !ok || n < 0 {
			ctx.Reply = resp.Err("ERR value is not an integer or out of range")
			return 0
		}
		if tok == "PX" {
			opts.HasExpire, opts.Millis, opts.ExpireMillis = true, true, n
		} else {
			opts.HasExpire, opts.Millis, opts.ExpireSeconds = true, false, n
		}
		i++
	}

	switch len(args) - i {
	case 0:
		// no trailing NX/XX token
	case 1:
		switch upperOf(args[i]) {
		case "NX":
			opts.Precondition = store.PrecondNX
		case "XX":
			opts.Precondition = store.PrecondXX
		default:
			ctx.Reply = resp.Err("ERR syntax error")
			return 0
		}
	default:
		ctx.Reply = resp.Err("ERR syntax error")
		return 0
	}

	ok, err := ctx.DB().Set(key, val, opts)
	if err != nil {
		return replyErr(ctx, err)
	}
	if !ok {
		ctx.Reply = resp.Nil()
		return 0
	}
	ctx.Reply = resp.SimpleString("OK")
	return 0
}

func upperOf(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func cmdGet(ctx *Context, args [][]byte) int {
	v, err := ctx.DB().Get(args[0])
	if err == store.ErrNotFound {
		ctx.Reply = resp.Nil()
		return 0
	}
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Bulk(v)
	return 0
}

func cmdSetEx(ctx *Context, args [][]byte) int {
	seconds, ok := ToInt64(args[1])
	if !ok || seconds <= 0 {
		ctx.Reply = resp.Err("ERR invalid expire time in 'setex' command")
		return 0
	}
	_, err := ctx.DB().Set(args[0], args[2], store.SetOptions{HasExpire: true, ExpireSeconds: seconds})
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.SimpleString("OK")
	return 0
}

// cmdPSetEx is its own handler with the millisecond-TTL SET semantics
// its name promises, rather than an alias for another command.
func cmdPSetEx(ctx *Context, args [][]byte) int {
	millis, ok := ToInt64(args[1])
	if !ok || millis <= 0 {
		ctx.Reply = resp.Err("ERR invalid expire time in 'psetex' command")
		return 0
	}
	_, err := ctx.DB().Set(args[0], args[2], store.SetOptions{HasExpire: true, Millis: true, ExpireMillis: millis})
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.SimpleString("OK")
	return 0
}

func cmdSetNX(ctx *Context, args [][]byte) int {
	ok, err := ctx.DB().Set(args[0], args[1], store.SetOptions{Precondition: store.PrecondNX})
	if err != nil {
		return replyErr(ctx, err)
	}
	if ok {
		ctx.Reply = resp.Integer(1)
	} else {
		ctx.Reply = resp.Integer(0)
	}
	return 0
}

func cmdSetRange(ctx *Context, args [][]byte) int {
	offset, ok := ToInt64(args[1])
	if !ok || offset < 0 {
		ctx.Reply = resp.Err("ERR offset is out of range")
		return 0
	}
	n, err := ctx.DB().SetRange(args[0], offset, args[2])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdAppend(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().Append(args[0], args[1])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdStrlen(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().Strlen(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdGetRange(ctx *Context, args [][]byte) int {
	start, ok1 := ToInt64(args[1])
	end, ok2 := ToInt64(args[2])
	if !ok1 || !ok2 {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	v, err := ctx.DB().GetRange(args[0], start, end)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Bulk(v)
	return 0
}

func cmdGetSet(ctx *Context, args [][]byte) int {
	v, err := ctx.DB().GetSet(args[0], args[1])
	if err == store.ErrNotFound {
		ctx.Reply = resp.Nil()
		return 0
	}
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Bulk(v)
	return 0
}

func cmdMGet(ctx *Context, args [][]byte) int {
	vals, err := ctx.DB().MGet(args)
	if err != nil {
		return replyErr(ctx, err)
	}
	elems := make([]resp.Reply, len(vals))
	for i, v := range vals {
		if v == nil {
			elems[i] = resp.Nil()
		} else {
			elems[i] = resp.Bulk(v)
		}
	}
	ctx.Reply = resp.Array(elems...)
	return 0
}

func cmdMSet(ctx *Context, args [][]byte) int {
	if len(args)%2 != 0 {
		ctx.Reply = resp.Err("ERR wrong number of arguments for MSET")
		return 0
	}
	pairs := make([][2][]byte, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		pairs = append(pairs, [2][]byte{args[i], args[i+1]})
	}
	if err := ctx.DB().MSet(pairs); err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.SimpleString("OK")
	return 0
}

func cmdMSetNX(ctx *Context, args [][]byte) int {
	if len(args)%2 != 0 {
		ctx.Reply = resp.Err("ERR wrong number of arguments for MSETNX")
		return 0
	}
	pairs := make([][2][]byte, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		pairs = append(pairs, [2][]byte{args[i], args[i+1]})
	}
	ok, err := ctx.DB().MSetNX(pairs)
	if err != nil {
		return replyErr(ctx, err)
	}
	if ok {
		ctx.Reply = resp.Integer(1)
	} else {
		ctx.Reply = resp.Integer(0)
	}
	return 0
}

func cmdIncr(ctx *Context, args [][]byte) int {
	return doIncrBy(ctx, args[0], 1)
}

func cmdDecr(ctx *Context, args [][]byte) int {
	return doIncrBy(ctx, args[0], -1)
}

func cmdIncrBy(ctx *Context, args [][]byte) int {
	delta, ok := ToInt64(args[1])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	return doIncrBy(ctx, args[0], delta)
}

func cmdDecrBy(ctx *Context, args [][]byte) int {
	delta, ok := ToInt64(args[1])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	return doIncrBy(ctx, args[0], -delta)
}

func doIncrBy(ctx *Context, key []byte, delta int64) int {
	n, err := ctx.DB().IncrBy(key, delta)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdIncrByFloat(ctx *Context, args [][]byte) int {
	delta, ok := ToDouble(args[1])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not a float or out of range")
		return 0
	}
	f, err := ctx.DB().IncrByFloat(args[0], delta)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.DoubleVal(f)
	return 0
}
