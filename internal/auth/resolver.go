package auth

import "strings"

// ResourceKey is the (name, method) pair identifying a protected
// action in the resources table. The method is always the literal
// request method; it is never normalized to the '*' wildcard.
type ResourceKey struct {
	Name   string
	Method string
}

// ResourceRequest carries the request attributes the resolver may
// consult when computing a resource name dynamically.
type ResourceRequest struct {
	// Method is the HTTP method of the request.
	Method string
	// HasItemRef is true when the path carries a parameter that
	// identifies a specific item (e.g. /projects/42), which lets a
	// namer distinguish list from item operations.
	HasItemRef bool
}

// NamerFunc computes a resource name from the request. Routes whose
// resource name varies by sub-action (list vs create vs delete)
// register one of these.
type NamerFunc func(ResourceRequest) string

// Resolution describes how a route names its protected resource.
// Exactly one strategy applies per request, tried in fixed priority
// order:
//
//  1. Explicit – a static name declared for the route.
//  2. Namer    – a function computing the name from the request.
//  3. fallback – lower-cased handler identifier + "_" + lower-cased
//     method.
type Resolution struct {
	Explicit  string
	Namer     NamerFunc
	HandlerID string
}

// Key resolves the resource key for a request. The method component
// is the verbatim request method regardless of which naming strategy
// produced the name.
func (r Resolution) Key(req ResourceRequest) ResourceKey {
	name := r.Explicit
	if name == "" && r.Namer != nil {
		name = r.Namer(req)
	}
	if name == "" {
		name = strings.ToLower(r.HandlerID) + "_" + strings.ToLower(req.Method)
	}
	return ResourceKey{Name: name, Method: req.Method}
}
