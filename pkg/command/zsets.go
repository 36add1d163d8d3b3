package command

import (
	"github.com/ironkv/ironkv/pkg/resp"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// cmdZAdd parses every score/member pair up front and fails the whole
// command on the first unparseable score, before ever opening the
// storage layer's Multi/Exec bracket. This is observably identical to
// validating mid-batch and discarding — the key is left untouched and
// the same error is returned — while keeping ZAdd's contract with the
// storage layer simple: it is only ever called between a Multi() and
// its matching Exec()/Discard() on the same goroutine, never
// interleaved with argument parsing that might itself fail.
func cmdZAdd(ctx *Context, args [][]byte) int {
	rest := args[1:]
	if len(rest)%2 != 0 {
		ctx.Reply = resp.Err("ERR wrong number of arguments for ZAdd")
		return 0
	}
	members := make([]store.ZMember, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		score, ok := ToDouble(rest[i])
		if !ok {
			ctx.Reply = resp.Err("ERR value is not a float or out of range")
			return 0
		}
		members = append(members, store.ZMember{Member: rest[i+1], Score: score})
	}

	db := ctx.DB()
	db.Multi()
	n, err := db.ZAdd(args[0], members)
	if err != nil {
		db.Discard()
		return replyErr(ctx, err)
	}
	if err := db.Exec(); err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdZCard(ctx *Context, args [][]byte) int {
	n, err := ctx.DB().ZCard(args[0])
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

func cmdZCount(ctx *Context, args [][]byte) int {
	min, ok1 := ToDouble(args[1])
	max, ok2 := ToDouble(args[2])
	if !ok1 || !ok2 {
		ctx.Reply = resp.Err("ERR value is not a float or out of range")
		return 0
	}
	n, err := ctx.DB().ZCount(args[0], min, max)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.Integer(n)
	return 0
}

// cmdZIncrBy parses the increment from args[1] and the member from
// args[2].
func cmdZIncrBy(ctx *Context, args [][]byte) int {
	delta, ok := ToDouble(args[1])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not a float or out of range")
		return 0
	}
	f, err := ctx.DB().ZIncrBy(args[0], args[2], delta)
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.DoubleVal(f)
	return 0
}

func cmdZRange(ctx *Context, args [][]byte) int {
	start, ok1 := ToInt32(args[1])
	stop, ok2 := ToInt32(args[2])
	if !ok1 || !ok2 {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	withScores := false
	if len(args) == 4 {
		if upperOf(args[3]) != "WITHSCORES" {
			ctx.Reply = resp.Err("ERR syntax error")
			return 0
		}
		withScores = true
	}
	members, err := ctx.DB().ZRange(args[0], int64(start), int64(stop))
	if err != nil {
		return replyErr(ctx, err)
	}
	var elems []resp.Reply
	for _, m := range members {
		elems = append(elems, resp.Bulk(m.Member))
		if withScores {
			elems = append(elems, resp.DoubleVal(m.Score))
		}
	}
	ctx.Reply = resp.Array(elems...)
	return 0
}

func cmdZScore(ctx *Context, args [][]byte) int {
	score, err := ctx.DB().ZScore(args[0], args[1])
	if err == store.ErrNotFound {
		ctx.Reply = resp.Nil()
		return 0
	}
	if err != nil {
		return replyErr(ctx, err)
	}
	ctx.Reply = resp.DoubleVal(score)
	return 0
}
