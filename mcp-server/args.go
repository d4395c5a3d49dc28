package main

import (
	"encoding/json"
	"fmt"
	"math"

	"deezer/deezer"

	"github.com/mark3labs/mcp-go/mcp"
)

// Argument readers turn loosely typed tool arguments into checked values.
// Every failure is a *deezer.ValidationError naming the argument.

func requireString(request mcp.CallToolRequest, name string) (string, error) {
	value, err := request.RequireString(name)
	if err != nil {
		return "", &deezer.ValidationError{Field: name, Msg: err.Error()}
	}
	return value, nil
}

func integerArgument(name string, v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, &deezer.ValidationError{Field: name, Msg: fmt.Sprintf("must be an integer, got %v", n)}
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &deezer.ValidationError{Field: name, Msg: fmt.Sprintf("must be an integer, got %s", n)}
		}
		return i, nil
	default:
		return 0, &deezer.ValidationError{Field: name, Msg: fmt.Sprintf("must be an integer, got %T", v)}
	}
}

func requireID(request mcp.CallToolRequest, name string) (int64, error) {
	v, ok := request.GetArguments()[name]
	if !ok || v == nil {
		return 0, &deezer.ValidationError{Field: name, Msg: "required argument is missing"}
	}
	return integerArgument(name, v)
}

// limitArgument returns defaultLimit when limit is absent. A present limit
// must be a positive integer; clamping happens in the resource clients.
func limitArgument(request mcp.CallToolRequest, defaultLimit int) (int, error) {
	v, ok := request.GetArguments()["limit"]
	if !ok || v == nil {
		return defaultLimit, nil
	}
	n, err := integerArgument("limit", v)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, &deezer.ValidationError{Field: "limit", Msg: fmt.Sprintf("must be a positive integer, got %d", n)}
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return int(n), nil
}

func boolArgument(request mcp.CallToolRequest, name string, defaultValue bool) (bool, error) {
	v, ok := request.GetArguments()[name]
	if !ok || v == nil {
		return defaultValue, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &deezer.ValidationError{Field: name, Msg: fmt.Sprintf("must be a boolean, got %T", v)}
	}
	return b, nil
}

func orderArgument(request mcp.CallToolRequest, defaultOrder deezer.Order) (deezer.Order, error) {
	v, ok := request.GetArguments()["order"]
	if !ok || v == nil {
		return defaultOrder, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &deezer.ValidationError{Field: "order", Msg: fmt.Sprintf("must be a string, got %T", v)}
	}
	return deezer.Order(s), nil
}

// searchOptions reads limit, strict and order.
func searchOptions(request mcp.CallToolRequest, defaultLimit int, defaultOrder deezer.Order) (deezer.SearchOptions, error) {
	var opts deezer.SearchOptions
	var err error
	if opts.Limit, err = limitArgument(request, defaultLimit); err != nil {
		return opts, err
	}
	if opts.Strict, err = boolArgument(request, "strict", false); err != nil {
		return opts, err
	}
	if opts.Order, err = orderArgument(request, defaultOrder); err != nil {
		return opts, err
	}
	return opts, nil
}
