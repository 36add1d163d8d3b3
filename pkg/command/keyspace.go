package command

import (
	"github.com/ironkv/ironkv/pkg/resp"
)

func cmdType(ctx *Context, args [][]byte) int {
	t, err := ctx.DB().Type(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.SimpleString(string(t))
	return 0
}

func cmdExists(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().Exists(args)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

// cmdDel replies with the count of keys actually removed, not the
// count of keys named.
func cmdDel(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().Del(args)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

// cmdPersist clears the key's TTL and reports whether one was present.
func cmdPersist(ctx *Context, args [][]byte) int {
	ok, err := ctx.DB().Persist(args[0])
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

// cmdExpire parses and validates seconds, then installs the resulting
// deadline on the key.
func cmdExpire(ctx *Context, args [][]byte) int {
	seconds, ok := ToInt64(args[1])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	set, err := ctx.DB().Expire(args[0], seconds)
	if err != nil {
		return replyErr(ctx, err)
	}
	if set {
		ctx.Reply = resp.Integer(1)
	} else {
		ctx.Reply = resp.Integer(0)
	}
	return 0
}

func cmdExpireAt(ctx *Context, args [][]byte) int {
	when, ok := ToInt64(args[1])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	set, err := ctx.DB().ExpireAt(args[0], when)
	if err != nil {
		return replyErr(ctx, err)
	}
	if set {
		ctx.Reply = resp.Integer(1)
	} else {
		ctx.Reply = resp.Integer(0)
	}
	return 0
}
