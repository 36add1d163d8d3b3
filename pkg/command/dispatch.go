package command

import (
	"fmt"
	"strings"

	"github.com/ironkv/ironkv/pkg/resp"
)

// Dispatch clears the previous reply, looks the command up
// case-insensitively, validates arity, invokes the handler under panic
// recovery, and leaves ctx.Reply set for the caller to encode. The
// return value is the handler's connection-close signal (0 keeps the
// connection open).
func Dispatch(ctx *Context, frame [][]byte) int {
	ctx.Reply = resp.Reply{}

	if len(frame) == 0 {
		ctx.Reply = resp.Err("ERR empty command")
		return 0
	}

	name := strings.ToLower(string(frame[0]))
	args := frame[1:]

	entry, ok := Table[name]
	if !ok {
		ctx.Reply = resp.Err(fmt.Sprintf("ERR unknown command '%s'", frame[0]))
		return 0
	}

	if len(args) < entry.MinArity || (entry.MaxArity >= 0 && len(args) > entry.MaxArity) {
		ctx.Reply = resp.Err(fmt.Sprintf("ERR wrong number of arguments for '%s' command", name))
		return 0
	}

	return invoke(ctx, entry.Fn, args)
}

// invoke runs fn under panic recovery so that one malformed command
// can never take the whole connection loop down with it.
func invoke(ctx *Context, fn Handler, args [][]byte) (result int) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Reply = resp.Err("ERR internal error")
			result = 0
			if ctx.OnPanic != nil {
				ctx.OnPanic(r)
			}
		}
	}()
	return fn(ctx, args)
}
