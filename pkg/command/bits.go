package command

import (
	"strings"

	"github.com/ironkv/ironkv/pkg/resp"
)

func cmdGetBit(ctx *Context, args [][]byte) int {
	offset, ok := ToInt64(args[1])
	if !ok || offset < 0 {
		ctx.Reply = resp.Err("ERR bit offset is not an integer or out of range")
		return 0
	}
	bit, err := ctx.DB().GetBit(args[0], offset)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(int64(bit))
	return 0
}

// cmdSetBit replies with the bit's previous value.
func cmdSetBit(ctx *Context, args [][]byte) int {
	offset, ok := ToInt64(args[1])
	if !ok || offset < 0 {
		ctx.Reply = resp.Err("ERR bit offset is not an integer or out of range")
		return 0
	}
	bit, ok := ToInt32(args[2])
	if !ok || (bit != 0 && bit != 1) {
		ctx.Reply = resp.Err("ERR bit is not an integer or out of range")
		return 0
	}
	old, err := ctx.DB().SetBit(args[0], offset, int(bit))
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(int64(old))
	return 0
}

func cmdBitCount(ctx *Context, args [][]byte) int {
	var start, end int64
	hasRange := false
	if len(args) == 3 {
		hasRange = true
		s32, ok1 := ToInt32(args[1])
		e32, ok2 := ToInt32(args[2])
		if !ok1 || !ok2 {
			ctx.Reply = resp.Err("ERR value is not an integer or out of range")
			return 0
		}
		start, end = int64(s32), int64(e32)
	} else if len(args) == 2 {
		ctx.Reply = resp.Err("ERR syntax error")
		return 0
	}
	n, err := ctx.DB().BitCount(args[0], start, end, hasRange)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdBitOp(ctx *Context, args [][]byte) int {
	op := strings.ToUpper(string(args[0]))
	switch op {
	case "AND", "OR", "XOR", "NOT":
	default:
		ctx.Reply = resp.Err("ERR syntax error")
		return 0
	}
	if op == "NOT" && len(args) != 3 {
		ctx.Reply = resp.Err("ERR BITOP NOT must be called with a single source key")
		return 0
	}
	n, err := ctx.DB().BitOp(op, args[1], args[2:])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}
