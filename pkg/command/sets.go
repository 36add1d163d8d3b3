package command

import (
	"github.com/ironkv/ironkv/pkg/resp"
)

func cmdSAdd(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().SAdd(args[0], args[1:])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdSCard(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().SCard(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdSIsMember(ctx *Context, args [][]byte) int {
	ok, err := ctx.DB().SIsMember(args[0], args[1])
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

func cmdSMembers(ctx *Context, args [][]byte) int {
	members, err := ctx.DB().SMembers(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = bulkArray(members)
	return 0
}

func cmdSMove(ctx *Context, args [][]byte) int {
	ok, err := ctx.DB().SMove(args[0], args[1], args[2])
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

func cmdSPop(ctx *Context, args [][]byte) int {
	count := int64(1)
	multi := false
	if len(args) == 2 {
		n, ok := ToInt64(args[1])
		if !ok || n < 0 {
			ctx.Reply = resp.Err("ERR value is out of range, must be positive")
			return 0
		}
		count, multi = n, true
	}
	members, err := ctx.DB().SPop(args[0], count)
	if err != nil {
		return replyErr(ctx, err)
	}
	if multi {
		ctx.Reply = bulkArray(members)
		return 0
	}
	if len(members) == 0 {
		ctx.Reply = resp.Nil()
		return 0
	}
	ctx.Reply = resp.Bulk(members[0])
	return 0
}

func cmdSRandMember(ctx *Context, args [][]byte) int {
	count := int64(1)
	multi := false
	if len(args) == 2 {
		n, ok := ToInt64(args[1])
		if !ok {
			ctx.Reply = resp.Err("ERR value is not an integer or out of range")
			return 0
		}
		count, multi = n, true
	}
	members, err := ctx.DB().SRandMember(args[0], count)
	if err != nil {
		return replyErr(ctx, err)
	}
	if multi {
		ctx.Reply = bulkArray(members)
		return 0
	}
	if len(members) == 0 {
		ctx.Reply = resp.Nil()
		return 0
	}
	ctx.Reply = resp.Bulk(members[0])
	return 0
}

func cmdSRem(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().SRem(args[0], args[1:])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdSDiff(ctx *Context, args [][]byte) int {
	members, err := ctx.DB().SDiff(args)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = bulkArray(members)
	return 0
}

func cmdSDiffStore(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().SDiffStore(args[0], args[1:])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdSInter(ctx *Context, args [][]byte) int {
	members, err := ctx.DB().SInter(args)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = bulkArray(members)
	return 0
}

func cmdSInterStore(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().SInterStore(args[0], args[1:])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdSUnion(ctx *Context, args [][]byte) int {
	members, err := ctx.DB().SUnion(args)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = bulkArray(members)
	return 0
}

func cmdSUnionStore(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().SUnionStore(args[0], args[1:])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}
