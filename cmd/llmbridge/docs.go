package main

// General API documentation for swaggo. Run `swag init -g cmd/llmbridge/docs.go`
// to regenerate the OpenAPI docs; build with -tags=swagger to serve it.
//
// @title           llmbridge API
// @version         1.0
// @description     Method-call surface and Server-Sent-Events stream for on-device LLM inference.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
