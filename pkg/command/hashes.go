package command

import (
	"github.com/ironkv/ironkv/pkg/resp"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// cmdHSet replies 1 only when the field was created, 0 when an
// existing field's value was overwritten.
func cmdHSet(ctx *Context, args [][]byte) int {
	created, err := ctx.DB().HSet(args[0], args[1], args[2])
	if err != nil {
		return replyErr(ctx, err)
	}
	if created {
		ctx.Reply = resp.Integer(1)
	} else {
		ctx.Reply = resp.Integer(0)
	}
	return 0
}

func cmdHSetNX(ctx *Context, args [][]byte) int {
	created, err := ctx.DB().HSetNX(args[0], args[1], args[2])
	if err != nil {
		return replyErr(ctx, err)
	}
	if created {
		ctx.Reply = resp.Integer(1)
	} else {
		ctx.Reply = resp.Integer(0)
	}
	return 0
}

func cmdHGet(ctx *Context, args [][]byte) int {
	v, err := ctx.DB().HGet(args[0], args[1])
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

func cmdHMSet(ctx *Context, args [][]byte) int {
	fieldsVals := args[1:]
	if len(fieldsVals)%2 != 0 {
		ctx.Reply = resp.Err("ERR wrong number of arguments for HMSet")
		return 0
	}
	pairs := make([][2][]byte, 0, len(fieldsVals)/2)
	for i := 0; i < len(fieldsVals); i += 2 {
		pairs = append(pairs, [2][]byte{fieldsVals[i], fieldsVals[i+1]})
	}
	if err := ctx.DB().HMSet(args[0], pairs); err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.SimpleString("OK")
	return 0
}

func cmdHMGet(ctx *Context, args [][]byte) int {
	vals, err := ctx.DB().HMGet(args[0], args[1:])
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

func cmdHGetAll(ctx *Context, args [][]byte) int {
	pairs, err := ctx.DB().HGetAll(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	elems := make([]resp.Reply, 0, len(pairs)*2)
	for _, p := range pairs {
		elems = append(elems, resp.Bulk(p[0]), resp.Bulk(p[1]))
	}
	ctx.Reply = resp.Array(elems...)
	return 0
}

func cmdHKeys(ctx *Context, args [][]byte) int {
	keys, err := ctx.DB().HKeys(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = bulkArray(keys)
	return 0
}

func cmdHVals(ctx *Context, args [][]byte) int {
	vals, err := ctx.DB().HVals(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = bulkArray(vals)
	return 0
}

func cmdHLen(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().HLen(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdHExists(ctx *Context, args [][]byte) int {
	ok, err := ctx.DB().HExists(args[0], args[1])
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

func cmdHDel(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().HDel(args[0], args[1:])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdHIncrBy(ctx *Context, args [][]byte) int {
	delta, ok := ToInt64(args[2])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	n, err := ctx.DB().HIncrBy(args[0], args[1], delta)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdHIncrByFloat(ctx *Context, args [][]byte) int {
	delta, ok := ToDouble(args[2])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not a float or out of range")
		return 0
	}
	f, err := ctx.DB().HIncrByFloat(args[0], args[1], delta)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.DoubleVal(f)
	return 0
}

func bulkArray(vals [][]byte) resp.Reply {
	elems := make([]resp.Reply, len(vals))
	for i, v := range vals {
		elems[i] = resp.Bulk(v)
	}
	return resp.Array(elems...)
}
