package command

import (
	"strconv"

	"github.com/ironkv/ironkv/pkg/resp"
)

func cmdPing(ctx *Context, args [][]byte) int {
	ctx.Reply = resp.SimpleString("PONG")
	return 0
}

func cmdEcho(ctx *Context, args [][]byte) int {
	ctx.Reply = resp.Bulk(args[0])
	return 0
}

func cmdSelect(ctx *Context, args [][]byte) int {
	n, ok := ToInt32(args[0])
	if !ok {
		ctx.Reply = resp.Err("ERR value is not an integer or out of range")
		return 0
	}
	if n < 0 {
		ctx.Reply = resp.Err("ERR invalid DB index")
		return 0
	}
	if ctx.Databases > 0 && int(n) >= ctx.Databases {
		ctx.Reply = resp.Err("ERR DB index is out of range")
		return 0
	}
	ctx.CurrentDB = strconv.Itoa(int(n))
	ctx.Reply = resp.SimpleString("OK")
	return 0
}

func cmdQuit(ctx *Context, args [][]byte) int {
	ctx.Reply = resp.SimpleString("OK")
	ctx.Closing = true
	return -1
}

func cmdShutdown(ctx *Context, args [][]byte) int {
	// No reply is sent and this connection is closed right away. Only
	// the connection goes down: pkg/server keeps the process and its
	// other connections running.
	ctx.Closing = true
	return -1
}

func cmdListStub(ctx *Context, args [][]byte) int {
	ctx.Reply = resp.Err("ERR list commands are not supported")
	return 0
}

func cmdListStubZero(ctx *Context, args [][]byte) int {
	ctx.Reply = resp.Integer(0)
	return 0
}

func cmdListStubEmpty(ctx *Context, args [][]byte) int {
	ctx.Reply = resp.Array()
	return 0
}

func cmdTableStub(ctx *Context, args [][]byte) int {
	ctx.Reply = resp.Err("ERR table commands are not supported")
	return 0
}
