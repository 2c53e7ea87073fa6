// Package vk is a small client for the VK API methods used by the lead
// search pipeline.
//
// Every call carries the access token and API version as query
// parameters. Method level failures come back inside a 200 response as
// {"error":{"error_code":..,"error_msg":..}} and are mapped to the
// classified errors of pkg/errors:
//
//	client := vk.NewClient(vk.Options{Token: token}, log)
//	groups, err := client.SearchGroups(ctx, "фотограф новосибирск", 0, 10)
//
// The client does not pace itself; callers wait on a ratelimit.Limiter
// before each call.
package vk
