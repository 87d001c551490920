// Package http provides the JSON request and response helpers used by the
// admin API.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	var body struct {
//	    Scope string `json:"scope"`
//	}
//	if err := req.Bind(&body); err != nil { ... } // JSON only, unknown fields rejected
//
//	scope  := req.RouteParam("scope")          // chi
//	filter := req.Queries("scope", "type")     // non-empty query values
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(data)             // 200 {"data": ...}
//	res.NoContent()               // 204
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ValidationError(errs)     // 422 {"errors": {"field": ["msg"]}}
package http
